package planner

import (
	"path/filepath"
	"testing"

	"github.com/John-Robertt/stripcut/internal/domain"
)

func TestPlanFile_NamesAndPaths(t *testing.T) {
	root := t.TempDir()
	f := domain.ImageFile{
		AbsPath: filepath.Join(root, "photo.jpg"),
		Name:    "photo.jpg",
		Stem:    "photo",
		Ext:     ".jpg",
	}

	p := PlanFile(root, f, 3)
	if len(p.Strips) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(p.Strips))
	}
	want := []string{"photo_part_1.jpg", "photo_part_2.jpg", "photo_part_3.jpg"}
	for i, s := range p.Strips {
		if s.Index != i || s.Name != want[i] {
			t.Fatalf("第 %d 条不符合预期：%+v", i, s)
		}
		if s.TmpAbs != filepath.Join(root, TempDirName, want[i]) {
			t.Fatalf("TmpAbs 不符合预期：%q", s.TmpAbs)
		}
		if s.DstAbs != filepath.Join(root, want[i]) {
			t.Fatalf("DstAbs 不符合预期：%q", s.DstAbs)
		}
	}
}

func TestPlanFile_KeepsCase(t *testing.T) {
	root := t.TempDir()
	f := domain.ImageFile{Name: "IMG_01.JPEG", Stem: "IMG_01", Ext: ".JPEG"}

	p := PlanFile(root, f, 9)
	if got := p.Strips[8].Name; got != "IMG_01_part_9.JPEG" {
		t.Fatalf("文件名不符合预期：%q", got)
	}
}

func TestPlanBatch_KeepsOrder(t *testing.T) {
	root := t.TempDir()
	files := []domain.ImageFile{
		{Name: "b.png", Stem: "b", Ext: ".png"},
		{Name: "a.png", Stem: "a", Ext: ".png"},
	}
	plans := PlanBatch(root, files, 4)
	if len(plans) != 2 || plans[0].File.Name != "b.png" || plans[1].File.Name != "a.png" {
		t.Fatalf("计划顺序应与输入一致：%+v", plans)
	}
	if len(plans[1].Strips) != 4 {
		t.Fatalf("期望 4 条，实际 %d", len(plans[1].Strips))
	}
}
