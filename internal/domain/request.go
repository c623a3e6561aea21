package domain

// Request 是一次裁切请求（不可变值对象）。
// 调用方（CLI / 交互界面）构造后整体传入，核心流程不持有任何全局状态。
type Request struct {
	Folder string
	Count  StripCount
}
