package crop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/stripcut/internal/app/planner"
	"github.com/John-Robertt/stripcut/internal/domain"
	"github.com/John-Robertt/stripcut/internal/infra/fsx"
	"github.com/John-Robertt/stripcut/internal/infra/imgx"
	"github.com/John-Robertt/stripcut/internal/logging"
	"github.com/John-Robertt/stripcut/internal/scan"
)

// Options 是 Cropper 的可调项（均有默认值）。
type Options struct {
	JPEGQuality int
}

// Cropper 把一个目录下的图片逐张切成横条，并原地替换原图。
//
// 并发：单 goroutine、同步执行；同一目录上的两次并发调用是不安全的（不加锁）。
type Cropper struct {
	jpegQuality int
}

func New(opts Options) *Cropper {
	q := opts.JPEGQuality
	if q <= 0 {
		q = imgx.DefaultJPEGQuality
	}
	return &Cropper{jpegQuality: q}
}

// Result 描述一次裁切的结果。失败时也会返回已完成部分（便于报告）。
type Result struct {
	// Files 是已切完并删除原图的图片数。
	Files int
	// Strips 是已写出的横条数（包括失败那张图已写出的部分）。
	Strips int
	// Outputs 是移回源目录后的最终路径。
	Outputs []string
	Items   []FileOutcome
}

type FileOutcome struct {
	File   domain.ImageFile
	Strips []string // 已写出的横条文件名
	Status string   // domain.FileStatus*
}

// Crop 执行一次裁切。
//
// 流程（固定顺序）：
//  1. 校验：目录非空且存在、数量属于 {3,4,5,6,9}；失败时不做任何改动
//  2. 创建 <folder>/cropped_images（已存在不算错误）
//  3. 扫描直接子项中的图片，按修改时间升序
//  4. 逐张：解码 -> 按 H div count 切条写入临时目录 -> 删除原图
//  5. 临时目录内容平铺移回源目录，再删除临时目录
//
// 任一步失败立即中止：已删除的原图不恢复，已写出的横条不清理。
// ctx 只用于携带 logger（zerolog.Ctx），不支持取消。
func (c *Cropper) Crop(ctx context.Context, req domain.Request, obs Observer) (Result, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	log := logging.Component(*zerolog.Ctx(ctx), "crop")

	folder, err := validate(req)
	if err != nil {
		log.Debug().Err(err).Msg("request rejected")
		return Result{}, err
	}
	req.Folder = folder
	obs.OnStart(req)

	var res Result

	tmp := planner.TempDir(folder)
	if err := fsx.EnsureDir(tmp); err != nil {
		if fsx.IsPathTypeConflict(err) {
			return res, ioErr(CodeTargetConflict, tmp, err)
		}
		return res, ioErr(CodeMkdirFailed, tmp, err)
	}

	scanStarted := time.Now()
	files, err := scan.ScanImages(folder)
	if err != nil {
		return res, ioErr(CodeScanFailed, folder, err)
	}
	obs.OnScanned(files, time.Since(scanStarted))
	log.Info().Str("folder", folder).Int("count", int(req.Count)).Int("files", len(files)).Msg("scan done")

	plans := planner.PlanBatch(folder, files, req.Count)
	res.Items = make([]FileOutcome, len(plans))
	for i := range plans {
		res.Items[i] = FileOutcome{File: plans[i].File, Status: domain.FileStatusPending}
	}

	for i := range plans {
		p := plans[i]
		oneStarted := time.Now()

		written, err := c.splitOne(log, p, req.Count)
		res.Items[i].Strips = written
		res.Strips += len(written)
		if err != nil {
			res.Items[i].Status = domain.FileStatusFailed
			return res, err
		}

		if err := os.Remove(p.File.AbsPath); err != nil {
			res.Items[i].Status = domain.FileStatusFailed
			return res, ioErr(CodeDeleteFailed, p.File.AbsPath, err)
		}
		res.Items[i].Status = domain.FileStatusSplit
		res.Files++

		dur := time.Since(oneStarted)
		log.Info().Str("file", p.File.Name).Int("strips", len(written)).Dur("took", dur).Msg("file split")
		obs.OnFileDone(i+1, len(plans), p.File, written, dur)
	}

	moveStarted := time.Now()
	moved, err := fsx.MoveAll(tmp, folder)
	res.Outputs = moved
	if err != nil {
		return res, moveError(tmp, err)
	}
	if err := os.Remove(tmp); err != nil {
		return res, ioErr(CodeCleanupFailed, tmp, err)
	}
	obs.OnMoved(len(moved), time.Since(moveStarted))
	log.Info().Int("files", res.Files).Int("strips", res.Strips).Int("moved", len(moved)).Msg("crop done")

	return res, nil
}

func (c *Cropper) splitOne(log zerolog.Logger, p domain.FilePlan, count domain.StripCount) ([]string, error) {
	img, err := imgx.Open(p.File.AbsPath)
	if err != nil {
		return nil, ioErr(CodeDecodeFailed, p.File.AbsPath, err)
	}

	rects := imgx.StripRects(img.Bounds(), count)
	written := make([]string, 0, len(rects))
	for i, r := range rects {
		sp := p.Strips[i]

		b, err := imgx.Encode(imgx.Crop(img, r), p.File.Ext, c.jpegQuality)
		if err != nil {
			return written, ioErr(CodeEncodeFailed, sp.TmpAbs, err)
		}
		if err := fsx.WriteFileAtomicReplace(filepath.Dir(sp.TmpAbs), sp.Name, b); err != nil {
			return written, ioErr(CodeWriteFailed, sp.TmpAbs, err)
		}
		written = append(written, sp.Name)
		log.Debug().Str("strip", sp.Name).Stringer("rect", r).Msg("strip written")
	}
	return written, nil
}

func validate(req domain.Request) (string, error) {
	raw := strings.TrimSpace(req.Folder)
	if raw == "" {
		return "", validationErr(CodeNoFolder, "", nil)
	}
	folder, err := filepath.Abs(raw)
	if err != nil {
		return "", validationErr(CodeFolderInvalid, raw, err)
	}

	fi, err := os.Stat(folder)
	if err != nil {
		return "", validationErr(CodeFolderInvalid, folder, err)
	}
	if !fi.IsDir() {
		return "", validationErr(CodeFolderInvalid, folder, errors.New("不是目录"))
	}

	if !req.Count.Valid() {
		return "", validationErr(CodeInvalidCount, "", errors.New("请选择 "+domain.FormatAllowedCounts()+" 之一，实际是 "+req.Count.String()))
	}
	return folder, nil
}

func moveError(tmp string, err error) error {
	switch {
	case fsx.IsCrossDevice(err):
		return ioErr(CodeCrossDevice, tmp, err)
	case fsx.IsPathTypeConflict(err), errors.Is(err, os.ErrExist):
		return ioErr(CodeTargetConflict, tmp, err)
	default:
		return ioErr(CodeMoveFailed, tmp, err)
	}
}
