package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV / 权限等错误。
var renameFunc = os.Rename

// PathTypeConflictError 表示目标路径类型冲突（例如期望目录但实际是文件），
// 或目标名已被占用。上层映射为 target_conflict。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 临时目录就在源目录之下，正常不会跨盘；真的遇到就失败，不做 copy+delete。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// EnsureDir 确保 dir 存在且是目录（已存在不算错误）。
func EnsureDir(dir string) error {
	fi, err := os.Stat(dir)
	if err == nil {
		if fi.IsDir() {
			return nil
		}
		return &PathTypeConflictError{Path: dir, Want: "dir", Got: "file"}
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// MoveIntoDir 把 src 移动到 dstDir 下（保持文件名），目标已存在时返回错误而不是覆盖。
//
// - 目标是目录/特殊文件：PathTypeConflictError
// - 目标是普通文件：os.ErrExist
func MoveIntoDir(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if fi, err := os.Lstat(dst); err == nil {
		if fi.IsDir() {
			return "", &PathTypeConflictError{Path: dst, Want: "absent", Got: "dir"}
		}
		if !fi.Mode().IsRegular() {
			return "", &PathTypeConflictError{Path: dst, Want: "absent", Got: fi.Mode().Type().String()}
		}
		return "", fmt.Errorf("目标已存在 %q：%w", dst, os.ErrExist)
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// MoveAll 把 srcDir 下的所有条目平铺移动到 dstDir（不保留 srcDir 这一层）。
// 按目录项名称顺序逐个移动；遇到第一个错误即停止，已移动的不回滚。
// 返回已成功移动后的目标路径。
func MoveAll(srcDir, dstDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}
	moved := make([]string, 0, len(entries))
	for _, e := range entries {
		dst, err := MoveIntoDir(filepath.Join(srcDir, e.Name()), dstDir)
		if err != nil {
			return moved, err
		}
		moved = append(moved, dst)
	}
	_ = syncDirBestEffort(dstDir)
	return moved, nil
}

// WriteFileAtomicReplace 在 dir 下原子写入 name（同目录临时文件 + rename），同名则覆盖。
func WriteFileAtomicReplace(dir, name string, data []byte) error {
	return writeFileAtomic(dir, name, data, 0o644)
}

func writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 前缀带 '.'，且扩展名不在图片集合内，不会被下一次扫描误认为图片。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := Rename(tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，这里直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
