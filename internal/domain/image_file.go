package domain

import "time"

// ImageFile 描述一次扫描得到的图片文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - AbsPath 必须是 clean + absolute
// - Ext 保留原始大小写（输出文件名沿用），过滤时才做小写比较
// - 宽高在解码时才读取，扫描阶段不打开文件
type ImageFile struct {
	AbsPath string
	Name    string // 带扩展名
	Stem    string // filename without ext
	Ext     string // ".jpg" / ".PNG"，保留原始大小写
	Size    int64
	ModTime time.Time
}
