package crop

import (
	"time"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// Observer 用于把进度事件从核心流程中解耦出来。
//
// 约束：
// - crop 包只发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 所有事件都在调用 Crop 的 goroutine 上同步发出，顺序与处理顺序一致。
type Observer interface {
	// OnStart 在校验通过、开始改动文件系统之前调用。
	OnStart(req domain.Request)
	// OnScanned 在扫描并排序完成后调用。
	OnScanned(files []domain.ImageFile, dur time.Duration)
	// OnFileDone 在一张图片切完并删除原图后调用（idx 从 1 开始）。
	OnFileDone(idx, total int, f domain.ImageFile, strips []string, dur time.Duration)
	// OnMoved 在临时目录的内容全部移回源目录后调用。
	OnMoved(n int, dur time.Duration)
}

type nopObserver struct{}

func (nopObserver) OnStart(domain.Request) {}
func (nopObserver) OnScanned([]domain.ImageFile, time.Duration) {}
func (nopObserver) OnFileDone(int, int, domain.ImageFile, []string, time.Duration) {}
func (nopObserver) OnMoved(int, time.Duration) {}
