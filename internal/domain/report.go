package domain

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const (
	FileStatusSplit   = "split"
	FileStatusFailed  = "failed"
	FileStatusPending = "pending"
)

const (
	ErrKindValidation = "validation"
	ErrKindIO         = "io"
)

// CropReport 是对外稳定输出（stdout JSON）的结构。
// 注意：它只输出到 stdout，不会写入图片目录（目录里只应出现切好的图片）。
type CropReport struct {
	RunID  string `json:"run_id"`
	Folder string `json:"folder"`
	Count  int    `json:"count"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	ErrorKind string `json:"error_kind"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Summary ReportSummary `json:"summary"`
	Files   []FileResult  `json:"files"`
}

type ReportSummary struct {
	Files  int `json:"files"`
	Split  int `json:"split"`
	Failed int `json:"failed"`
	Strips int `json:"strips"`
}

type FileResult struct {
	Src    string   `json:"src"`
	Strips []string `json:"strips"`
	Status string   `json:"status"`
}

// NewRunID 生成一次运行的唯一标识（ULID，按时间有序）。
func NewRunID() string {
	return ulid.Make().String()
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) status 由 error_code 推导
// 3) summary 由 files 计算得出
//
// files 保持处理顺序（即修改时间升序），不重新排序。
func (r *CropReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.ErrorCode != "" {
		r.Status = StatusFailed
	} else {
		r.Status = StatusOK
	}

	if r.Files == nil {
		r.Files = []FileResult{}
	}

	s := ReportSummary{Files: len(r.Files)}
	for i := range r.Files {
		if r.Files[i].Strips == nil {
			r.Files[i].Strips = []string{}
		}
		s.Strips += len(r.Files[i].Strips)
		switch r.Files[i].Status {
		case FileStatusSplit:
			s.Split++
		case FileStatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
func (r CropReport) MarshalJSON() ([]byte, error) {
	type Alias CropReport
	return json.Marshal(Alias(r))
}
