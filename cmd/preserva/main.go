package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"preserva/internal/api"
	"preserva/internal/config"
	"preserva/internal/docstate"
	"preserva/internal/session"
)

var (
	// Global flags
	verbose bool
	apiURL  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "preserva",
	Short: "Preserva - terminal client for the digital preservation portal",
	Long: `Preserva is a terminal client for the digital preservation portal.

Documents uploaded here are packaged and preserved by the portal's
archival pipeline (Archivematica); this client tracks their status,
searches the collection, and manages uploads, downloads and sharing.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	// The interactive dashboard owns the terminal; log output would
	// tear the UI, so it runs with a silent logger.
	if cmd == rootCmd {
		logger = zap.NewNop()
		return nil
	}
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// workspace wires the shared components: config, token store, API client.
type workspace struct {
	cfg    config.Config
	tokens *session.TokenStore
	client *api.Client
}

func buildWorkspace() (workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file falls back to defaults; say so once.
		fmt.Fprintf(os.Stderr, "aviso: %v\n", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	dir, err := config.Dir()
	if err != nil {
		return workspace{}, fmt.Errorf("resolve config dir: %w", err)
	}
	tokens := session.NewTokenStore(dir)
	client := api.NewClient(cfg.API.BaseURL, tokens, logger)
	return workspace{cfg: cfg, tokens: tokens, client: client}, nil
}

func runInteractive() error {
	ws, err := buildWorkspace()
	if err != nil {
		return err
	}

	mgr := session.NewManager(ws.client, ws.tokens, logger)
	store := docstate.NewStore(ws.client, logger)

	// The watcher is best-effort; without it the periodic check still
	// catches out-of-band login/logout.
	var watcher *session.TokenWatcher
	if w, err := session.NewTokenWatcher(ws.tokens); err == nil {
		if err := w.Start(); err == nil {
			watcher = w
			defer w.Stop()
		}
	}

	model := newAppModel(ws.cfg, ws.client, mgr, store, watcher, logger)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
