// Package tui 是交互式选择界面：选目录、选数量、执行裁切，最后给出一条结果提示。
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/stripcut/internal/app/crop"
	"github.com/John-Robertt/stripcut/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// State 是界面所处阶段。
type State int

const (
	StateFolder State = iota
	StateCount
	StateRunning
	StateDone
	StateError
)

// CropFunc 执行一次裁切（由调用方注入，测试时可替换）。
type CropFunc func(req domain.Request) (crop.Result, error)

// cropDoneMsg 在裁切返回后送回 Update。
type cropDoneMsg struct {
	Result crop.Result
	Err    error
}

// Model 是 Bubble Tea 的界面模型。
type Model struct {
	state   State
	input   textinput.Model
	spinner spinner.Model

	counts []domain.StripCount
	cursor int

	folder string
	hint   string

	run    CropFunc
	result crop.Result
	err    error
}

// NewModel 创建界面模型；folder 为初始目录（可为空），count 为默认选中的数量。
func NewModel(folder string, count domain.StripCount, run CropFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/images"
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(folder)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	counts := domain.AllowedCounts()
	cursor := 0
	for i, c := range counts {
		if c == count {
			cursor = i
		}
	}

	return Model{
		state:   StateFolder,
		input:   ti,
		spinner: sp,
		counts:  counts,
		cursor:  cursor,
		run:     run,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State 返回当前阶段。
func (m Model) State() State { return m.state }

// Outcome 返回最终结果；未执行裁切时 err 为 nil 且 Result 为空。
func (m Model) Outcome() (crop.Result, error) { return m.result, m.err }

// Ran 表示是否已经执行过裁切（成功或失败）。
func (m Model) Ran() bool { return m.state == StateDone || m.state == StateError }

// Request 返回当前选择组成的请求。
func (m Model) Request() domain.Request {
	return domain.Request{Folder: m.folder, Count: m.counts[m.cursor]}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if m.state != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cropDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.state = StateError
		} else {
			m.state = StateDone
		}
		return m, nil
	}

	if m.state == StateFolder {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 裁切进行中不允许退出：中途结束进程会留下半成品目录。
	if m.state == StateRunning {
		return m, nil
	}

	switch m.state {
	case StateFolder:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			folder, hint := checkFolder(m.input.Value())
			if hint != "" {
				m.hint = hint
				return m, nil
			}
			m.folder = folder
			m.hint = ""
			m.input.Blur()
			m.state = StateCount
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case StateCount:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.state = StateFolder
			m.input.Focus()
			return m, textinput.Blink
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.counts)-1 {
				m.cursor++
			}
		case "enter":
			m.state = StateRunning
			return m, tea.Batch(m.spinner.Tick, runCrop(m.run, m.Request()))
		}
		return m, nil

	default:
		// StateDone / StateError：任意键退出。
		return m, tea.Quit
	}
}

func runCrop(run CropFunc, req domain.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := run(req)
		return cropDoneMsg{Result: res, Err: err}
	}
}

// checkFolder 对输入做最小检查（非空、存在、是目录），返回 clean + absolute 路径或提示。
func checkFolder(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "请先选择一个目录"
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Sprintf("路径无效：%v", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Sprintf("目录不可用：%v", err)
	}
	if !fi.IsDir() {
		return "", fmt.Sprintf("不是目录：%s", abs)
	}
	return abs, ""
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("stripcut"))
	b.WriteString("\n")

	switch m.state {
	case StateFolder:
		b.WriteString(labelStyle.Render("选择包含图片的目录："))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.hint != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.hint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter 确认 · esc 退出"))

	case StateCount:
		b.WriteString(labelStyle.Render("目录：" + m.folder))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("每张图片切成几条："))
		b.WriteString("\n")
		for i, c := range m.counts {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + c.String()))
			} else {
				b.WriteString("  " + c.String())
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("↑/↓ 选择 · enter 开始裁切 · esc 返回 · q 退出"))

	case StateRunning:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("正在裁切 %s（%d 条）…", m.folder, m.counts[m.cursor])))

	case StateDone:
		b.WriteString(successStyle.Render(fmt.Sprintf("裁切完成：%d 张图片 -> %d 条", m.result.Files, m.result.Strips)))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("按任意键退出"))

	case StateError:
		b.WriteString(errorStyle.Render("裁切失败：" + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("按任意键退出"))
	}

	b.WriteString("\n")
	return b.String()
}
