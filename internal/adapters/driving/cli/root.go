// Package cli provides the cobra command tree. Commands talk to the
// core through the driving ports; the storage backend behind them is
// chosen by configuration at startup.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/photos"
	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/memory"
	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/postgres"
	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/rest"
	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/sqlite"
	"github.com/clearcoat-labs/detail-cli/internal/config"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
	"github.com/clearcoat-labs/detail-cli/internal/core/services"
	"github.com/clearcoat-labs/detail-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Wired services shared by all commands.
var (
	cfg        *config.Config
	log        zerolog.Logger
	store      driven.EntryStore
	photoStore driven.PhotoStore

	entryService  driving.EntryService
	reportService driving.ReportService
	exportService driving.ExportService
)

// Persistent flag values.
var (
	flagVerbose bool
	flagBackend string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "detail",
	Short: "Track auto detailing service records",
	Long: `detail records the work done in an auto detailing shop: which
vehicle was serviced, what was done, by whom, and how long it took.

Records live in an embedded database by default. Set DETAIL_DATABASE_URL
for PostgreSQL or DETAIL_REST_URL and DETAIL_REST_KEY for a hosted table
API; see 'detail --help' output of each command for details.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite, postgres, rest, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the embedded database")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetServices wires the command tree onto the given backends directly,
// bypassing configuration. Used by tests.
func SetServices(s driven.EntryStore, p driven.PhotoStore, l zerolog.Logger) {
	store = s
	photoStore = p
	log = l
	entryService = services.NewEntryService(s, p, l)
	reportService = services.NewReportService(s)
	exportService = services.NewExportService(s)
}

// setup loads configuration and wires the service graph. Skipped when
// services were injected, and for commands that need no backend.
func setup(cmd *cobra.Command, _ []string) error {
	if entryService != nil {
		return nil
	}
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagVerbose {
		cfg.Verbose = true
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	log = logger.New(cfg.Verbose)

	store, err = openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	log.Debug().Str("backend", cfg.Backend).Msg("storage backend ready")

	photoStore, err = photos.NewFileStore(cfg.PhotosDir)
	if err != nil {
		return err
	}

	entryService = services.NewEntryService(store, photoStore, log)
	reportService = services.NewReportService(store)
	exportService = services.NewExportService(store)
	return nil
}

// teardown releases the storage backend.
func teardown() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// openStore builds the EntryStore the configuration asks for.
func openStore(ctx context.Context, cfg *config.Config) (driven.EntryStore, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening embedded database: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return s, nil
	case config.BackendREST:
		return rest.NewStore(cfg.RESTURL, cfg.RESTKey), nil
	case config.BackendMemory:
		return memory.NewEntryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
