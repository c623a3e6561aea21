package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/stripcut/internal/app/crop"
	"github.com/John-Robertt/stripcut/internal/app/planner"
	"github.com/John-Robertt/stripcut/internal/domain"
)

var _ crop.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的进度输出。
//
// - 所有过程信息写到 stderr，不污染 stdout 的结果输出
// - 事件驱动：crop 层只发事件，CLI 决定如何展示
// - keepalive：大图解码较慢时也会定期输出一行
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	total  int
	done   int
	strips int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(req domain.Request) {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.startedAt.IsZero() {
		p.startedAt = now
	}

	fmt.Fprintf(p.w, "[%s] stripcut crop\n", now.Format("15:04:05"))
	fmt.Fprintf(p.w, "  folder: %s\n", req.Folder)
	fmt.Fprintf(p.w, "  count: %d\n", int(req.Count))
	fmt.Fprintf(p.w, "  tmp: %s\n", planner.TempDir(req.Folder))
	fmt.Fprintln(p.w)

	p.lastPrinted = time.Now()
}

func (p *progressUI) OnScanned(files []domain.ImageFile, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = len(files)
	fmt.Fprintf(p.w, "扫描: images=%d (%s)\n", p.total, formatShortDuration(dur))
	if p.total > 0 && !p.tickerStarted {
		p.startTickerLocked()
	}
	p.lastPrinted = time.Now()
}

func (p *progressUI) OnFileDone(idx, total int, f domain.ImageFile, strips []string, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = idx
	p.total = total
	p.strips += len(strips)

	fmt.Fprintf(p.w, "[%d/%d] %s OK strips=%d %s (%s)\n",
		idx, total, truncate(f.Name, 80), len(strips), formatStripRange(strips), formatShortDuration(dur),
	)
	p.lastPrinted = time.Now()

	if p.done >= p.total {
		p.stopTickerLocked()
	}
}

func (p *progressUI) OnMoved(n int, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTickerLocked()
	fmt.Fprintf(p.w, "移回: files=%d elapsed=%s (%s)\n", n, formatElapsed(time.Since(p.startedAt)), formatShortDuration(dur))
	p.lastPrinted = time.Now()
}

// Close 停止 keepalive；裁切中途失败时不会有最后一条 OnFileDone，必须由调用方关闭。
func (p *progressUI) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTickerLocked()
}

func (p *progressUI) stopTickerLocked() {
	if !p.tickerStarted {
		return
	}
	close(p.stopCh)
	p.tickerStarted = false
}

func (p *progressUI) startTickerLocked() {
	p.stopCh = make(chan struct{})
	p.tickerStarted = true
	stop := p.stopCh

	interval := p.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 6 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if p.total > 0 && time.Since(p.lastPrinted) > threshold {
					fmt.Fprintf(p.w, "进度: done=%d/%d strips=%d elapsed=%s\n",
						p.done, p.total, p.strips, formatElapsed(time.Since(p.startedAt)),
					)
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// formatStripRange 把输出名压缩成 "a_part_1.png..a_part_3.png"。
func formatStripRange(strips []string) string {
	switch len(strips) {
	case 0:
		return "-"
	case 1:
		return filepath.Base(strips[0])
	default:
		return filepath.Base(strips[0]) + ".." + filepath.Base(strips[len(strips)-1])
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
