package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/John-Robertt/stripcut/internal/app/crop"
	"github.com/John-Robertt/stripcut/internal/config"
	"github.com/John-Robertt/stripcut/internal/domain"
	"github.com/John-Robertt/stripcut/internal/logging"
)

// 退出码：0 成功；1 裁切中途失败（IO）；2 用法/配置/校验错误（未改动任何文件）。
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// exitError 携带退出码；错误信息已由命令自身输出时 silent=true。
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintf(stderr, "%v\n", ee.err)
		}
		return ee.code
	}
	// cobra 自身的参数错误（未知 flag、参数个数不对等）。
	fmt.Fprintf(stderr, "参数错误：%v\n运行 stripcut --help 查看用法\n", err)
	return exitUsage
}

type globalFlags struct {
	logLevel string
	debug    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var gf globalFlags

	cmd := &cobra.Command{
		Use:   "stripcut",
		Short: "把目录里的每张图片切成 N 条等高横条，并原地替换原图",
		Long: `stripcut 把目录（非递归）中的 .png/.jpg/.jpeg 图片按修改时间顺序逐张切成 N 条等高横条，
输出为 <原名>_part_<i><原扩展名>，写回原目录并删除原图。N 只能是 3、4、5、6、9。

注意：操作不可撤销；再次运行会把已切好的横条继续切分。`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "日志级别：debug|info|warn|error（默认读配置，最终默认 info）")
	cmd.PersistentFlags().BoolVar(&gf.debug, "debug", false, "等同 --log-level=debug")

	cmd.AddCommand(newCropCmd(&gf, stdout, stderr), newPickCmd(&gf, stdout, stderr))
	return cmd
}

func newCropCmd(gf *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "crop [folder]",
		Short: "裁切目录中的所有图片（未给 folder 时读取 ./stripcut.yaml）",
		Example: `  stripcut crop ./scans --count 4
  stripcut crop --count 9            # folder 来自 ./stripcut.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := config.CLIArgs{
				Count:    domain.StripCount(count),
				CountSet: cmd.Flags().Changed("count"),
			}
			if len(args) == 1 {
				cli.Folder = args[0]
			}
			applyLogFlags(&cli, gf, cmd)
			return runCrop(cmd.Context(), cli, stdout, stderr)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", int(domain.DefaultStripCount), "每张图片切成几条："+domain.FormatAllowedCounts())
	return cmd
}

func applyLogFlags(cli *config.CLIArgs, gf *globalFlags, cmd *cobra.Command) {
	if gf.debug {
		cli.LogLevel = "debug"
		cli.LogLevelSet = true
		return
	}
	if cmd.Flags().Changed("log-level") {
		cli.LogLevel = gf.logLevel
		cli.LogLevelSet = true
	}
}

func runCrop(ctx context.Context, cli config.CLIArgs, stdout, stderr io.Writer) error {
	started := time.Now()
	runID := domain.NewRunID()

	cwd, err := os.Getwd()
	if err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("读取当前目录失败：%w", err)}
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		rr := reportForConfigError(runID, cli, err, started)
		emitReport(stdout, stderr, rr)
		return &exitError{code: exitUsage, err: err, silent: true}
	}

	logger := logging.New(logging.Options{
		Level:    eff.LogLevel,
		Out:      stderr,
		Terminal: isTTY(stderr),
	}).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	cliLog := logging.Component(logger, "cli")
	if eff.ConfigPath != "" {
		cliLog.Debug().Str("config", eff.ConfigPath).Msg("config loaded")
	}

	var obs crop.Observer
	if isTTY(stderr) {
		ui := newProgressUI(stderr)
		defer ui.Close()
		obs = ui
	}

	req := domain.Request{Folder: eff.Folder, Count: eff.Count}
	res, cerr := crop.New(crop.Options{JPEGQuality: eff.JPEGQuality}).Crop(ctx, req, obs)
	rr := crop.BuildReport(runID, req, res, cerr, started, time.Now())
	emitReport(stdout, stderr, rr)

	if cerr != nil {
		cliLog.Debug().Err(cerr).Str("code", crop.Code(cerr)).Msg("crop failed")
		if crop.IsValidation(cerr) {
			return &exitError{code: exitUsage, err: cerr, silent: true}
		}
		return &exitError{code: exitFail, err: cerr, silent: true}
	}
	return nil
}

// emitReport 输出唯一一条结果提示。
//
// - stdout 是终端：一行人类可读的结果（成功/失败）
// - stdout 非终端：stdout 只输出一个 CropReport JSON，摘要走 stderr
func emitReport(stdout, stderr io.Writer, rr domain.CropReport) {
	if isTTY(stdout) {
		if rr.Status == domain.StatusOK {
			fmt.Fprintf(stdout, "裁切完成：%d 张图片 -> %d 条（%s）\n", rr.Summary.Split, rr.Summary.Strips, rr.Folder)
			return
		}
		fmt.Fprintf(stderr, "裁切失败：%s\n", rr.ErrorMsg)
		return
	}

	enc := json.NewEncoder(stdout)
	_ = enc.Encode(rr)
	if rr.Status == domain.StatusOK {
		fmt.Fprintf(stderr, "完成：files=%d strips=%d\n", rr.Summary.Split, rr.Summary.Strips)
	} else {
		fmt.Fprintf(stderr, "失败：%s %s\n", rr.ErrorCode, rr.ErrorMsg)
	}
}

func reportForConfigError(runID string, cli config.CLIArgs, err error, started time.Time) domain.CropReport {
	rr := domain.CropReport{
		RunID:      runID,
		Folder:     cli.Folder,
		Count:      int(cli.Count),
		StartedAt:  started,
		FinishedAt: time.Now(),
		ErrorKind:  domain.ErrKindValidation,
		ErrorCode:  config.Code(err),
		ErrorMsg:   err.Error(),
	}
	rr.Finalize()
	return rr
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
