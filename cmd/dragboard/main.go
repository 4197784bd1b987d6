package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/dragboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/config"
	"github.com/evanschultz/dragboard/internal/domain"
	"github.com/evanschultz/dragboard/internal/platform"
	"github.com/evanschultz/dragboard/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is stamped at build time; "dev" enables dev-mode paths by default.
var version = "dev"

// program is the part of tea.Program the command flow depends on.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree for args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// newRootCmd builds the dragboard command tree.
func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "dragboard",
		Short:        "A terminal kanban board with drag-and-drop",
		SilenceUsage: true,
		Example: `  dragboard
  dragboard --dev
  dragboard paths
  dragboard export --out board.json
  dragboard config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), *opts, stderr)
		},
	}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("DRAGBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "dragboard"
	if envApp := strings.TrimSpace(os.Getenv("DRAGBOARD_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	cmd.PersistentFlags().StringVar(&opts.appName, "app", defaultApp, "application name for config/log path resolution")
	cmd.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	cmd.AddCommand(newPathsCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newExportCmd(opts, stderr))
	return cmd
}

// newPathsCmd prints the resolved runtime paths.
func newPathsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and log paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, configPath, err := resolvePaths(*opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newConfigCmd groups config file helpers.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, configPath, err := resolvePaths(*opts)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(configPath, force); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote config: %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

// resolvePaths returns platform paths and the effective config path.
func resolvePaths(opts rootOptions) (platform.Paths, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", err
	}
	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("DRAGBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	return paths, configPath, nil
}

// boardRuntime is the coordinator stack shared by the TUI and export flows.
type boardRuntime struct {
	cfg         config.Config
	logger      *runtimeLogger
	repo        *sqlite.Repository
	svc         *app.Service
	unsubscribe func()
}

// openBoard loads config, starts logging, opens the in-memory store and
// seeds the configured columns. Callers must Close the result.
func openBoard(ctx context.Context, opts rootOptions, stderr io.Writer, command string) (*boardRuntime, error) {
	paths, configPath, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	logger, err := newRuntimeLogger(loggerOptions{
		Console: stderr,
		AppName: opts.appName,
		DevMode: opts.devMode,
		Logging: cfg.Logging,
		Now:     time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// The board owns the terminal; runtime logs go to the dev file only.
		logger.DetachConsole()
	}
	rt := &boardRuntime{cfg: cfg, logger: logger, unsubscribe: func() {}}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "columns", len(cfg.Board.Columns), "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, err := sqlite.OpenInMemory()
	if err != nil {
		logger.Error("sqlite open failed", "err", err)
		rt.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	rt.repo = repo
	logger.Info("sqlite repository ready", "mode", "memory")

	rt.svc = app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		DefaultColumns: cfg.Board.Columns,
	})
	rt.unsubscribe = rt.svc.Subscribe(func(event domain.ChangeEvent) {
		logger.Debug("board change applied",
			"seq", event.Seq,
			"op", string(event.Operation),
			"item_id", event.ItemID,
			"column", event.Column,
			"from_column", event.FromColumn,
			"moved", event.Moved,
		)
	})

	columns, err := rt.svc.EnsureDefaultColumns(ctx)
	if err != nil {
		logger.Error("default columns failed", "err", err)
		rt.Close()
		return nil, fmt.Errorf("ensure default columns: %w", err)
	}
	logger.Debug("board initialized", "columns", len(columns))
	return rt, nil
}

// Close releases the store and the dev log. The console is reattached first
// so shutdown failures reach the terminal.
func (rt *boardRuntime) Close() {
	rt.unsubscribe()
	rt.logger.AttachConsole()
	if rt.repo != nil {
		if err := rt.repo.Close(); err != nil {
			rt.logger.Warn("sqlite close failed", "err", err)
		}
	}
	if err := rt.logger.Close(); err != nil {
		rt.logger.Warn("close runtime log sink failed", "err", err)
	}
}

// runBoard wires the board coordinator and runs the TUI.
func runBoard(ctx context.Context, opts rootOptions, stderr io.Writer) error {
	rt, err := openBoard(ctx, opts, stderr, "tui")
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	m := tui.NewModel(
		rt.svc,
		tui.WithTitle(cfg.Board.Title),
		tui.WithUIConfig(tui.UIConfig{
			ShowItemIDs:    cfg.UI.ShowItemIDs,
			RenderMarkdown: cfg.UI.RenderMarkdown,
		}),
		tui.WithKeyConfig(tui.KeyConfig{
			AddItem:   cfg.Keys.AddItem,
			AddColumn: cfg.Keys.AddColumn,
			PickUp:    cfg.Keys.PickUp,
			Yank:      cfg.Keys.Yank,
		}),
	)
	rt.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// runExport writes the seeded board as a JSON snapshot to outPath, or to
// stdout when outPath is "-".
func runExport(ctx context.Context, opts rootOptions, stdout, stderr io.Writer, outPath string) error {
	rt, err := openBoard(ctx, opts, stderr, "export")
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("command flow start", "command", "export")
	snap, err := rt.svc.ExportSnapshot(ctx, rt.cfg.Board.Title)
	if err != nil {
		rt.logger.Error("command flow failed", "command", "export", "err", err)
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := snap.JSON()
	if err != nil {
		return err
	}

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("create export output dir: %w", err)
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
	}
	rt.logger.Info("snapshot exported", "out", outPath, "columns", len(snap.Columns), "items", len(snap.Items))
	return nil
}

// newExportCmd exports the board snapshot as JSON.
func newExportCmd(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), *opts, cmd.OutOrStdout(), stderr, outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// parseBoolEnv reads a boolean environment variable, reporting whether it was set.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
