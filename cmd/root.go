package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pestle/internal/app"
	"pestle/internal/config"
	"pestle/internal/draft"
	"pestle/internal/infrastructure/sqlite"
	"pestle/internal/log"
	"pestle/internal/notify"
	"pestle/internal/paths"
	"pestle/internal/submit"
	"pestle/internal/tracing"
	"pestle/internal/ui/styles"
	"pestle/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "pestle",
	Short:   "A terminal form for pharmacy business registration",
	Long: `A terminal user interface for completing and submitting a pharmacy business
registration application, with draft autosave, pharmacist roster management,
and CSV export.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/pestle/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "",
		"directory holding the draft database (default: ./.pestle)")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log to the data directory")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable draft reload when the database changes on disk")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindEnv("data_dir", "PESTLE_DIR")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("autosave.debounce_ms", defaults.Autosave.DebounceMs)
	viper.SetDefault("ui.toast_dismiss_ms", defaults.UI.ToastDismissMs)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("submit.endpoint", defaults.Submit.Endpoint)
	viper.SetDefault("submit.timeout_ms", defaults.Submit.TimeoutMs)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .pestle/config.yaml (current directory)
		// 2. ~/.config/pestle/config.yaml (user config)
		if _, err := os.Stat(".pestle/config.yaml"); err == nil {
			viper.SetConfigFile(".pestle/config.yaml")
		} else if userDir, err := paths.UserConfigDir(); err == nil {
			viper.AddConfigPath(userDir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .pestle/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".pestle/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dataDir := paths.ResolveDataDir(cfg.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("PESTLE_DEBUG") != "" {
		if cleanup, err := log.Init(filepath.Join(dataDir, "debug.log")); err == nil {
			defer cleanup()
		}
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.Colors,
	}); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	tracerProvider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tracerProvider.Shutdown(ctx)
	}()

	db, err := sqlite.NewDB(paths.DraftDBPath(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("opening draft database: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := draft.NewCachedStore(db.Drafts(), false)

	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	// The form works fine without auto-reload, so watcher init errors are
	// not fatal.
	var reload <-chan struct{}
	var w *watcher.Watcher
	if cfg.AutoReload {
		if w, err = watcher.New(watcher.DefaultConfig(db.Path())); err == nil {
			if ch, startErr := w.Start(); startErr == nil {
				reload = ch
			} else {
				_ = w.Stop()
				w = nil
			}
		} else {
			w = nil
		}
	}
	defer func() {
		if w != nil {
			_ = w.Stop()
		}
	}()

	bus := notify.NewBus()
	defer bus.Close()

	zone.NewGlobal()

	model := app.New(cfg, store, newSubmitter(cfg.Submit), bus, reload)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, runErr := p.Run()

	if closeErr := model.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// newSubmitter picks the transport for assembled applications. Without a
// configured endpoint, submissions are accepted locally (demo mode).
func newSubmitter(submitCfg config.SubmitConfig) submit.Submitter {
	if submitCfg.Endpoint == "" {
		return &submit.StubSubmitter{Result: submit.Result{
			Reply: []string{"Accepted locally: no submit endpoint is configured."},
		}}
	}
	return submit.NewHTTPSubmitter(submitCfg.Endpoint, time.Duration(submitCfg.TimeoutMs)*time.Millisecond)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
