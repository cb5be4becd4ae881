// Package cli はコマンドラインの解釈と実行の流れを担う
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"camparam/internal/camera"
	"camparam/internal/command"
	"camparam/internal/config"
	"camparam/internal/dispatch"
)

// 終了コード
const (
	ExitOK     = 0
	ExitFatal  = 1
	ExitStrict = 2
)

var (
	// ErrReported は標準エラーへ報告済みの致命的エラーを表す
	ErrReported = errors.New("報告済みのエラー")
	// ErrRecoverable は strict モードで回復可能なエラーが報告されたことを表す
	ErrRecoverable = errors.New("回復可能なエラーが報告されました")
)

// App はコマンドの実行に必要な入出力と状態を保持する
type App struct {
	stdout  io.Writer
	stderr  io.Writer
	factory camera.DiscoveryFactory

	configPath string
	backend    string
	verbose    bool
	strict     bool
}

// NewApp は新しいAppを作成する
func NewApp(stdout, stderr io.Writer, factory camera.DiscoveryFactory) *App {
	return &App{
		stdout:  stdout,
		stderr:  stderr,
		factory: factory,
	}
}

// Command はルートコマンドを作成する
func (a *App) Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "camparam [device=<n>] [name=value ...]",
		Short: "カメラのプロパティを表示・設定する",
		Long: `引数なしで接続中のデバイス一覧を表示する。
device=<n> のみを指定するとそのデバイスの全プロパティを表示し、
name=value を指定すると各プロパティを手動モードで設定する。`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}

	rootCmd.Flags().StringVarP(&a.configPath, "config", "c", "", "プリセットファイル (YAML)")
	rootCmd.Flags().StringVarP(&a.backend, "backend", "b", "", fmt.Sprintf("バックエンド %v (既定: %s)", a.factory.SupportedBackends(), camera.DefaultBackend()))
	rootCmd.Flags().BoolVarP(&a.verbose, "verbose", "v", false, "デバッグログを出力")
	rootCmd.Flags().BoolVar(&a.strict, "strict", false, "回復可能なエラーがあれば終了コード2を返す")

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	return rootCmd
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	logger := a.newLogger(cfg)

	backend := cfg.Backend
	if a.backend != "" {
		backend = a.backend
	}

	discovery, err := a.factory.Create(backend, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := discovery.Close(); err != nil {
			logger.Warn("バックエンドの終了に失敗", "error", err)
		}
	}()

	// 列挙に失敗した場合はデバイスなしとして扱う
	devices, err := discovery.ScanDevices(ctx)
	if err != nil {
		logger.Debug("デバイスの列挙に失敗", "error", err)
		devices = nil
	}
	logger.Debug("デバイスを列挙しました", "count", len(devices))

	reporter := dispatch.NewReporter(a.stdout, a.stderr)

	if len(args) == 0 {
		reporter.Devices(devices)
		return nil
	}

	table := presetTable(cfg.Properties)
	parsed, parseErrs := command.Parse(args)
	for _, perr := range parseErrs {
		reporter.Error(perr.Error())
	}
	table.Merge(parsed)

	device, index, err := dispatch.ResolveDevice(devices, table, cfg.Device)
	if err != nil {
		logger.Debug("デバイスの選択に失敗", "error", err)
		reporter.Fatal(fmt.Sprintf("Invalid device index: %d", index))
		return fmt.Errorf("%w: %w", ErrReported, err)
	}

	reporter.Configuring(device)

	controls, err := discovery.Open(ctx, device)
	if err != nil {
		logger.Debug("デバイスのオープンに失敗", "device", device.Path, "error", err)
		reporter.Fatal("Error accessing device: " + device.Name)
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	defer func() {
		if err := controls.Close(); err != nil {
			logger.Warn("制御インターフェースの解放に失敗", "error", err)
		}
	}()

	dispatch.New(controls, reporter, logger).Run(table)

	if (a.strict || cfg.Strict) && reporter.ErrorCount() > 0 {
		return fmt.Errorf("%w: %d 件", ErrRecoverable, reporter.ErrorCount())
	}
	return nil
}

func (a *App) newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// presetTable はプリセットのプロパティを名前順のコマンド表にする
func presetTable(properties map[string]int32) *command.Table {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	table := command.NewTable()
	for _, name := range names {
		table.Set(name, properties[name])
	}
	return table
}

// Execute はコマンドを実行し、終了コードを返す
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, factory camera.DiscoveryFactory) int {
	// nil のままでは cobra が os.Args を読むため空スライスにする
	if args == nil {
		args = []string{}
	}

	rootCmd := NewApp(stdout, stderr, factory).Command()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrRecoverable):
		return ExitStrict
	case errors.Is(err, ErrReported):
		return ExitFatal
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFatal
	}
}
