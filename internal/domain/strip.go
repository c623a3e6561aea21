package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// StripCount 是一次裁切中每张图片被切成的横条数量。
// 只允许固定集合 {3, 4, 5, 6, 9}；同一批次内对所有图片一致。
type StripCount int

// DefaultStripCount 与下拉框的默认选项一致。
const DefaultStripCount StripCount = 3

var allowedCounts = []StripCount{3, 4, 5, 6, 9}

// AllowedCounts 返回合法取值（升序，返回副本）。
func AllowedCounts() []StripCount {
	return append([]StripCount(nil), allowedCounts...)
}

// Valid 判断 c 是否属于固定集合。
func (c StripCount) Valid() bool {
	for _, a := range allowedCounts {
		if c == a {
			return true
		}
	}
	return false
}

func (c StripCount) String() string { return strconv.Itoa(int(c)) }

// ParseStripCount 解析用户输入的数量（例如下拉框/CLI 的字符串）。
func ParseStripCount(s string) (StripCount, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("数量必须是整数，实际是 %q", s)
	}
	c := StripCount(n)
	if !c.Valid() {
		return 0, fmt.Errorf("数量只能是 %s，实际是 %d", FormatAllowedCounts(), n)
	}
	return c, nil
}

// FormatAllowedCounts 输出 "3, 4, 5, 6, 9"，用于提示文案。
func FormatAllowedCounts() string {
	parts := make([]string, 0, len(allowedCounts))
	for _, a := range allowedCounts {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

// StripName 生成第 i 条（0 起）的文件名：{stem}_part_{i+1}{ext}。
func StripName(stem, ext string, i int) string {
	return fmt.Sprintf("%s_part_%d%s", stem, i+1, ext)
}

// StripHeight 是每条的高度：H div count（向下取整）。
// 余数行被丢弃，最后一条的下边界是 count*StripHeight，可能小于 H。
func StripHeight(h int, c StripCount) int {
	if c <= 0 {
		return 0
	}
	return h / int(c)
}
