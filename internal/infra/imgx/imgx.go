package imgx

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// DefaultJPEGQuality 与常见图像库保存 JPEG 时的默认质量一致。
const DefaultJPEGQuality = 75

// Open 解码图片文件（PNG/JPEG）。
// 不做 EXIF 自动旋转：裁切坐标以文件里存储的像素方向为准。
func Open(path string) (image.Image, error) {
	return imaging.Open(path)
}

// StripRects 计算 count 条横条的裁切矩形。
//
// 约束：
// - 每条高度 h = H div count；宽度保持原宽
// - 第 i 条：(minX, minY+i*h) - (maxX, minY+(i+1)*h)
// - H 不能整除时，余数行被丢弃，不并入最后一条
func StripRects(bounds image.Rectangle, count domain.StripCount) []image.Rectangle {
	n := int(count)
	if n <= 0 {
		return nil
	}
	h := domain.StripHeight(bounds.Dy(), count)
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, image.Rect(bounds.Min.X, bounds.Min.Y+i*h, bounds.Max.X, bounds.Min.Y+(i+1)*h))
	}
	return out
}

// Crop 裁切出 r 对应的区域（结果原点为 0,0）。
func Crop(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}

// Encode 按扩展名选择编码格式（.png / .jpg / .jpeg，大小写不敏感）。
// jpegQuality 只对 JPEG 生效；<=0 时使用 DefaultJPEGQuality。
func Encode(img image.Image, ext string, jpegQuality int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("图片尺寸无效：%dx%d", b.Dx(), b.Dy())
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}
	switch format {
	case imaging.PNG, imaging.JPEG:
	default:
		return nil, errors.New("只支持输出 PNG/JPEG：" + ext)
	}

	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
