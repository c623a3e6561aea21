package planner

import (
	"path/filepath"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// TempDirName 是源目录下的临时输出目录名。
// 所有横条先写到这里，整批处理完再平铺移动回源目录。
const TempDirName = "cropped_images"

// TempDir 返回 folder 对应的临时输出目录。
func TempDir(folder string) string {
	return filepath.Join(filepath.Clean(folder), TempDirName)
}

// PlanFile 为单张图片生成确定性的输出计划（不做任何写入/解码）。
//
// - 文件名：{stem}_part_{i+1}{ext}，stem 与 ext 保留原始大小写
// - TmpAbs 在临时目录下，DstAbs 在源目录下
func PlanFile(folder string, f domain.ImageFile, count domain.StripCount) domain.FilePlan {
	folder = filepath.Clean(folder)
	tmp := TempDir(folder)

	n := int(count)
	if n < 0 {
		n = 0
	}
	strips := make([]domain.StripPlan, 0, n)
	for i := 0; i < n; i++ {
		name := domain.StripName(f.Stem, f.Ext, i)
		strips = append(strips, domain.StripPlan{
			Index:  i,
			Name:   name,
			TmpAbs: filepath.Join(tmp, name),
			DstAbs: filepath.Join(folder, name),
		})
	}
	return domain.FilePlan{File: f, Strips: strips}
}

// PlanBatch 按输入顺序为每个文件生成计划（顺序即处理顺序）。
func PlanBatch(folder string, files []domain.ImageFile, count domain.StripCount) []domain.FilePlan {
	plans := make([]domain.FilePlan, 0, len(files))
	for i := range files {
		plans = append(plans, PlanFile(folder, files[i], count))
	}
	return plans
}
