package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestCropReport_Finalize_StatusSummaryAndUTC(t *testing.T) {
	r := CropReport{
		Folder:     "/abs/path",
		Count:      3,
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		ErrorCode:  "decode_failed",
		Files: []FileResult{
			{Src: "b.png", Strips: []string{"b_part_1.png", "b_part_2.png", "b_part_3.png"}, Status: FileStatusSplit},
			{Src: "a.jpg", Strips: []string{"a_part_1.jpg"}, Status: FileStatusFailed},
			{Src: "c.jpg", Status: FileStatusPending},
		},
	}

	r.Finalize()

	if r.Status != StatusFailed {
		t.Fatalf("期望 status=failed，实际=%q", r.Status)
	}
	// files 保持处理顺序。
	if r.Files[0].Src != "b.png" || r.Files[1].Src != "a.jpg" || r.Files[2].Src != "c.jpg" {
		t.Fatalf("files 顺序被改变：%+v", r.Files)
	}
	if r.Summary.Files != 3 || r.Summary.Split != 1 || r.Summary.Failed != 1 || r.Summary.Strips != 4 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}
	if r.Files[2].Strips == nil {
		t.Fatalf("strips 不应为 nil（JSON 应输出 []）")
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestCropReport_Finalize_OKWithoutErrorCode(t *testing.T) {
	r := CropReport{}
	r.Finalize()
	if r.Status != StatusOK {
		t.Fatalf("期望 status=ok，实际=%q", r.Status)
	}
	if r.Files == nil {
		t.Fatalf("files 不应为 nil")
	}
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Fatalf("run id 应唯一且非空：%q %q", a, b)
	}
	if len(a) != 26 {
		t.Fatalf("ULID 长度应为 26，实际 %d", len(a))
	}
}
