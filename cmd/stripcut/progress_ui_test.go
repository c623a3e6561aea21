package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/John-Robertt/stripcut/internal/domain"
)

func TestFormatStripRange(t *testing.T) {
	if got := formatStripRange(nil); got != "-" {
		t.Fatalf("空列表：got=%q", got)
	}
	got := formatStripRange([]string{"/x/a_part_1.png", "/x/a_part_2.png", "/x/a_part_3.png"})
	if got != "a_part_1.png..a_part_3.png" {
		t.Fatalf("got=%q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(3723 * time.Second); got != "01:02:03" {
		t.Fatalf("got=%q", got)
	}
	if got := formatElapsed(-time.Second); got != "00:00:00" {
		t.Fatalf("负数应归零：got=%q", got)
	}
}

func TestProgressUI_Events(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressUI(&buf)
	defer p.Close()

	p.OnStart(domain.Request{Folder: "/photos", Count: 3})
	files := []domain.ImageFile{{Name: "a.png"}}
	p.OnScanned(files, 10*time.Millisecond)
	p.OnFileDone(1, 1, files[0], []string{"/photos/cropped_images/a_part_1.png", "/photos/cropped_images/a_part_2.png", "/photos/cropped_images/a_part_3.png"}, time.Millisecond)
	p.OnMoved(3, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"folder: /photos",
		"count: 3",
		"扫描: images=1",
		"[1/1] a.png OK strips=3 a_part_1.png..a_part_3.png",
		"移回: files=3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("输出缺少 %q：\n%s", want, out)
		}
	}
	if p.tickerStarted {
		t.Fatalf("全部完成后 ticker 应已停止")
	}
}
