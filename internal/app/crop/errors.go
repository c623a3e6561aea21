package crop

import (
	"errors"
	"fmt"

	"github.com/John-Robertt/stripcut/internal/domain"
)

// Kind 区分两类失败：校验失败（未做任何改动）与 IO 失败（已中止，不回滚）。
type Kind string

const (
	KindValidation Kind = domain.ErrKindValidation
	KindIO         Kind = domain.ErrKindIO
)

const (
	CodeNoFolder      = "no_folder"
	CodeFolderInvalid = "folder_invalid"
	CodeInvalidCount  = "invalid_count"

	CodeMkdirFailed    = "mkdir_failed"
	CodeScanFailed     = "scan_failed"
	CodeDecodeFailed   = "decode_failed"
	CodeEncodeFailed   = "encode_failed"
	CodeWriteFailed    = "write_failed"
	CodeDeleteFailed   = "delete_failed"
	CodeMoveFailed     = "move_failed"
	CodeCrossDevice    = "cross_device"
	CodeTargetConflict = "target_conflict"
	CodeCleanupFailed  = "cleanup_failed"
	CodeIOFailed       = "io_failed"
)

// Error 是裁切阶段的结构化错误（带 Kind + Code）。
type Error struct {
	Kind Kind
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	var what string
	switch e.Code {
	case CodeNoFolder:
		return "请先选择一个目录"
	case CodeFolderInvalid:
		what = "目录不可用"
	case CodeInvalidCount:
		what = "数量不合法"
	case CodeMkdirFailed:
		what = "创建临时目录失败"
	case CodeScanFailed:
		what = "扫描目录失败"
	case CodeDecodeFailed:
		what = "读取图片失败"
	case CodeEncodeFailed:
		what = "编码图片失败"
	case CodeWriteFailed:
		what = "写入图片失败"
	case CodeDeleteFailed:
		what = "删除原图失败"
	case CodeMoveFailed, CodeCrossDevice, CodeTargetConflict:
		what = "移动图片失败"
	case CodeCleanupFailed:
		what = "删除临时目录失败"
	case CodeIOFailed:
		what = "文件操作失败"
	default:
		what = e.Code
	}

	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %q：%v", what, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s：%v", what, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %q", what, e.Path)
	default:
		return what
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf 从 error 中提取 Kind；若不是 *Error 则返回空串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }

func IsIO(err error) bool { return KindOf(err) == KindIO }

func validationErr(code, path string, err error) *Error {
	return &Error{Kind: KindValidation, Code: code, Path: path, Err: err}
}

func ioErr(code, path string, err error) *Error {
	return &Error{Kind: KindIO, Code: code, Path: path, Err: err}
}
