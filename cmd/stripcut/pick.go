package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/stripcut/internal/app/crop"
	"github.com/John-Robertt/stripcut/internal/config"
	"github.com/John-Robertt/stripcut/internal/domain"
	"github.com/John-Robertt/stripcut/internal/tui"
)

func newPickCmd(gf *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "pick [folder]",
		Short: "交互式选择目录和数量后执行裁切",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY(stdout) {
				return &exitError{code: exitUsage, err: errors.New("pick 需要交互终端；脚本中请使用 stripcut crop")}
			}

			cli := config.CLIArgs{
				Count:    domain.StripCount(count),
				CountSet: cmd.Flags().Changed("count"),
			}
			if len(args) == 1 {
				cli.Folder = args[0]
			}
			applyLogFlags(&cli, gf, cmd)

			eff, err := pickDefaults(cli)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			return runPick(cmd.Context(), eff, stdout)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", int(domain.DefaultStripCount), "默认选中的数量："+domain.FormatAllowedCounts())
	return cmd
}

// pickDefaults 计算界面的初始目录与数量。
// 交互模式下配置文件是可选的：cwd 没有 stripcut.yaml 时回退到内置默认。
func pickDefaults(cli config.CLIArgs) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, fmt.Errorf("读取当前目录失败：%w", err)
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err == nil {
		return eff, nil
	}
	switch config.Code(err) {
	case config.ErrCodeNotFound, config.ErrCodeMissingFolder:
		eff = config.Defaults()
		if cli.CountSet {
			eff.Count = cli.Count
		}
		return eff, nil
	default:
		return config.EffectiveConfig{}, err
	}
}

func runPick(ctx context.Context, eff config.EffectiveConfig, stdout io.Writer) error {
	// 界面占用终端期间不输出日志。
	logger := zerolog.Nop()
	ctx = logger.WithContext(ctx)

	cropper := crop.New(crop.Options{JPEGQuality: eff.JPEGQuality})
	run := func(req domain.Request) (crop.Result, error) {
		return cropper.Crop(ctx, req, nil)
	}

	count := eff.Count
	if !count.Valid() {
		count = domain.DefaultStripCount
	}

	p := tea.NewProgram(tui.NewModel(eff.Folder, count, run), tea.WithOutput(stdout), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("交互界面异常退出：%w", err)}
	}

	m, ok := final.(tui.Model)
	if !ok || !m.Ran() {
		return nil
	}
	// 结果提示已由界面给出，这里只决定退出码。
	if _, cerr := m.Outcome(); cerr != nil {
		if crop.IsValidation(cerr) {
			return &exitError{code: exitUsage, err: cerr, silent: true}
		}
		return &exitError{code: exitFail, err: cerr, silent: true}
	}
	return nil
}
