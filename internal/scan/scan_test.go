package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScanImages_FilterAndNonRecursive(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "a.png"), time.Unix(100, 0))
	touch(t, filepath.Join(root, "notes.txt"), time.Unix(100, 0))
	touch(t, filepath.Join(root, "sub", "deep.jpg"), time.Unix(100, 0))
	if err := os.Mkdir(filepath.Join(root, "dir.jpg"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	got, err := ScanImages(root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望 1 个图片文件，实际 %d：%+v", len(got), got)
	}
	if got[0].Name != "a.png" || got[0].Stem != "a" || got[0].Ext != ".png" {
		t.Fatalf("字段不符合预期：%+v", got[0])
	}
	if got[0].AbsPath != filepath.Join(root, "a.png") {
		t.Fatalf("AbsPath 不符合预期：%q", got[0].AbsPath)
	}
}

func TestScanImages_ExtCaseInsensitive_KeepsOriginalCase(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "X.JPEG"), time.Unix(100, 0))
	touch(t, filepath.Join(root, "y.Png"), time.Unix(200, 0))

	got, err := ScanImages(root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("期望 2 个图片文件，实际 %d", len(got))
	}
	if got[0].Ext != ".JPEG" || got[1].Ext != ".Png" {
		t.Fatalf("扩展名应保留原始大小写：%q %q", got[0].Ext, got[1].Ext)
	}
}

func TestScanImages_SortByModTimeNotName(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.png"), time.Unix(300, 0))
	touch(t, filepath.Join(root, "b.png"), time.Unix(100, 0))
	touch(t, filepath.Join(root, "c.png"), time.Unix(200, 0))

	got, err := ScanImages(root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := []string{"b.png", "c.png", "a.png"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("排序不符合预期：got[%d]=%q want=%q", i, got[i].Name, want[i])
		}
	}
}

func TestScanImages_EqualModTime_NaturalOrder(t *testing.T) {
	root := t.TempDir()
	same := time.Unix(500, 0)
	touch(t, filepath.Join(root, "img10.png"), same)
	touch(t, filepath.Join(root, "img2.png"), same)
	touch(t, filepath.Join(root, "img1.png"), same)

	got, err := ScanImages(root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := []string{"img1.png", "img2.png", "img10.png"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("同时间戳应按自然序：got[%d]=%q want=%q", i, got[i].Name, want[i])
		}
	}
}

func TestScanImages_MissingFolder(t *testing.T) {
	if _, err := ScanImages(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("期望目录不存在时报错")
	}
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("设置修改时间失败：%v", err)
	}
}
