package crop

import (
	"time"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// BuildReport 把一次 Crop 的结果与错误整理为对外稳定的 CropReport。
func BuildReport(runID string, req domain.Request, res Result, err error, started, finished time.Time) domain.CropReport {
	rr := domain.CropReport{
		RunID:      runID,
		Folder:     req.Folder,
		Count:      int(req.Count),
		StartedAt:  started,
		FinishedAt: finished,
		Files:      make([]domain.FileResult, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		rr.Files = append(rr.Files, domain.FileResult{
			Src:    it.File.Name,
			Strips: append([]string(nil), it.Strips...),
			Status: it.Status,
		})
	}
	if err != nil {
		rr.ErrorKind = string(KindOf(err))
		rr.ErrorCode = Code(err)
		if rr.ErrorCode == "" {
			rr.ErrorKind = string(KindIO)
			rr.ErrorCode = CodeIOFailed
		}
		rr.ErrorMsg = err.Error()
	}
	rr.Finalize()
	return rr
}
