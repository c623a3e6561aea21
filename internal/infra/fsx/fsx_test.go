package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a_part_1.png", []byte("old")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "a_part_1.png", []byte("hello")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a_part_1.png"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("内容不一致（应被覆盖）：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".a_part_1.png.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFileAtomicReplace_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomicReplace(dir, "a.png", []byte("hello")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("失败后目录应为空，实际：%v", entries)
	}
}

func TestEnsureDir_ExistingAndConflict(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "cropped_images")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("首次创建不期望错误：%v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("已存在时不期望错误：%v", err)
	}

	file := filepath.Join(root, "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := EnsureDir(file); !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func TestMoveAll_FlatMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "tmp")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	for _, n := range []string{"a_part_1.png", "a_part_2.png"} {
		if err := os.WriteFile(filepath.Join(src, n), []byte(n), 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
	}

	moved, err := MoveAll(src, root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("期望移动 2 个，实际 %d", len(moved))
	}
	for _, n := range []string{"a_part_1.png", "a_part_2.png"} {
		if _, err := os.Stat(filepath.Join(root, n)); err != nil {
			t.Fatalf("目标文件缺失 %q：%v", n, err)
		}
	}
	entries, _ := os.ReadDir(src)
	if len(entries) != 0 {
		t.Fatalf("源目录应已清空：%v", entries)
	}
}

func TestMoveIntoDir_NoOverwrite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "tmp")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.png"), []byte("new"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.png"), []byte("old"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	_, err := MoveIntoDir(filepath.Join(src, "a.png"), root)
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("期望 os.ErrExist，实际：%v", err)
	}
	b, _ := os.ReadFile(filepath.Join(root, "a.png"))
	if string(b) != "old" {
		t.Fatalf("目标不应被覆盖：%q", string(b))
	}
}

func TestMoveIntoDir_TargetConflictDir(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "tmp")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	// 目标位置是目录：应返回 PathTypeConflictError，而不是 os.ErrExist。
	if err := os.Mkdir(filepath.Join(root, "a.png"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	_, err := MoveIntoDir(filepath.Join(src, "a.png"), root)
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}
