package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/stripcut/internal/domain"
	"github.com/John-Robertt/stripcut/internal/infra/imgx"
	"github.com/John-Robertt/stripcut/internal/logging"
)

const (
	// ErrCodeNotFound 表示未给 folder，且 cwd 下没有 stripcut.yaml。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingFolder 表示未给 folder，且配置文件缺少 folder 字段。
	ErrCodeMissingFolder = "config_missing_folder"
)

// FileName 是配置文件名（不是图片，裁切时不会被处理）。
const FileName = "stripcut.yaml"

// DefaultLogLevel 是日志级别的内置默认值。
const DefaultLogLevel = "info"

// CLIArgs 是 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --count 必须能覆盖 config.count。
type CLIArgs struct {
	Folder string

	Count    domain.StripCount
	CountSet bool

	LogLevel    string
	LogLevelSet bool
}

// FileConfig 对应 stripcut.yaml 的解析结构。
type FileConfig struct {
	Folder      string `yaml:"folder"`
	Count       *int   `yaml:"count"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	LogLevel    string `yaml:"log_level"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置。
//
// 注意：Count 只做透传，不在这里校验是否属于 {3,4,5,6,9}；
// 数量校验属于裁切请求本身（crop 包），失败时不改动任何文件。
type EffectiveConfig struct {
	Folder      string
	Count       domain.StripCount
	JPEGQuality int
	LogLevel    string
	// ConfigPath 是实际读取到的配置文件（未读取则为空）。
	ConfigPath string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未指定目录，且未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingFolder:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 folder", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 folder：尝试读取 <folder>/stripcut.yaml（可选）
// 2) CLI 未提供 folder：必须读取 <cwd>/stripcut.yaml（必选），且其中必须包含 folder
//
// 覆盖优先级（固定）：
// - folder：CLI > config
// - count：CLI --count > config > 默认 3
// - log_level：CLI > config > 默认 info
// - jpeg_quality：仅由 config 控制，默认 75
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Folder) != "" {
		absFolder := absCleanFrom(cwdAbs, cli.Folder)
		cfgPath := filepath.Join(absFolder, FileName)

		fc, exists, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			cfgPath = ""
		}
		return merge(absFolder, cli, fc, cfgPath)
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Folder) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingFolder, Path: cfgPath}
	}

	// 配置文件里的相对路径：相对配置文件所在目录（即 cwd）。
	return merge(absCleanFrom(cwdAbs, fc.Folder), cli, fc, cfgPath)
}

// Defaults 返回未读取任何配置文件时的最终配置（交互界面在选目录前使用）。
func Defaults() EffectiveConfig {
	return EffectiveConfig{
		Count:       domain.DefaultStripCount,
		JPEGQuality: imgx.DefaultJPEGQuality,
		LogLevel:    DefaultLogLevel,
	}
}

func merge(absFolder string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	eff := Defaults()
	eff.Folder = absFolder
	eff.ConfigPath = cfgPath

	if cli.CountSet {
		eff.Count = cli.Count
	} else if fc.Count != nil {
		eff.Count = domain.StripCount(*fc.Count)
	}

	if fc.JPEGQuality != 0 {
		if fc.JPEGQuality < 1 || fc.JPEGQuality > 100 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("jpeg_quality 必须在 1..100 之间，实际是 %d", fc.JPEGQuality)}
		}
		eff.JPEGQuality = fc.JPEGQuality
	}

	level := eff.LogLevel
	if cli.LogLevelSet {
		level = cli.LogLevel
	} else if strings.TrimSpace(fc.LogLevel) != "" {
		level = fc.LogLevel
	}
	level = strings.ToLower(strings.TrimSpace(level))
	if !logging.ValidLevel(level) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("log_level 无效：%q", level)}
	}
	eff.LogLevel = level

	return eff, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 YAML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
