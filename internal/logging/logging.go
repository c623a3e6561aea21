// Package logging 构建 CLI 与裁切流程共用的 zerolog logger。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatAuto    = ""
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options 控制 logger 的构建方式。
type Options struct {
	Level  string
	Format string
	// Out 默认 os.Stderr。日志不写 stdout（stdout 留给报告 JSON）。
	Out io.Writer
	// Terminal 仅在 Format 为 FormatAuto 时参考：终端用 console，否则 JSON。
	Terminal bool
}

// New 按 o 构建 logger；无法识别的级别回落到 info。
func New(o Options) zerolog.Logger {
	out := o.Out
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(o.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	format := strings.ToLower(strings.TrimSpace(o.Format))
	if format == FormatAuto {
		format = FormatJSON
		if o.Terminal {
			format = FormatConsole
		}
	}

	w := out
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: !o.Terminal}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component 给 l 附加 component 字段。
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// ValidLevel 判断 s 是否是合法的日志级别（空串视为默认）。
func ValidLevel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	_, err := zerolog.ParseLevel(s)
	return err == nil
}
