package domain

// StripPlan 规划一条输出：先写入临时目录，最后再移动回源目录。
type StripPlan struct {
	Index  int // 0 起
	Name   string
	TmpAbs string
	DstAbs string
}

// FilePlan 是对单张图片的最小执行计划（只描述路径；真正执行时才解码）。
type FilePlan struct {
	File   ImageFile
	Strips []StripPlan
}
