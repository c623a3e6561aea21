package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// ScanImages 列出 folder 下（非递归）的图片文件，并按修改时间升序排序。
//
// 规则（硬约束）：
// - 只看直接子项；子目录（包括临时输出目录）一律跳过
// - 扩展名大小写不敏感：.png / .jpg / .jpeg
// - 排序键是修改时间（升序、稳定）；时间相同则按自然序文件名
//
// 注意：扫描阶段只做 stat，不读文件内容。
func ScanImages(folder string) ([]domain.ImageFile, error) {
	folder = filepath.Clean(folder)

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	files := make([]domain.ImageFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !IsImageName(name) {
			continue
		}

		abs := filepath.Join(folder, name)
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		// 符号链接：按目标判断（与打开文件时的行为一致）。
		if info.Mode()&os.ModeSymlink != 0 {
			info, err = os.Stat(abs)
			if err != nil {
				return nil, err
			}
		}
		if !info.Mode().IsRegular() {
			continue
		}

		ext := filepath.Ext(name)
		files = append(files, domain.ImageFile{
			AbsPath: abs,
			Name:    name,
			Stem:    strings.TrimSuffix(name, ext),
			Ext:     ext,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	SortByModTime(files)
	return files, nil
}

// SortByModTime 按修改时间升序稳定排序；时间相同按自然序文件名，保证结果可复现。
func SortByModTime(files []domain.ImageFile) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i].ModTime, files[j].ModTime
		if !a.Equal(b) {
			return a.Before(b)
		}
		return natural.Less(files[i].Name, files[j].Name)
	})
}

// IsImageName 判断文件名是否为支持的图片扩展名（大小写不敏感）。
func IsImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
