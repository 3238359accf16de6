// Package cli implements the namesctl command line reports.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	service "github.com/okian/babynames/internal/app"
	"github.com/okian/babynames/internal/config"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/pkg/logger"
)

// namesctl logs at warn unless log_level or --log-level picks another level.
const defaultLogLevel = "warn"

// columnGap separates table columns.
const columnGap = 2

type globalFlags struct {
	archive  string
	logLevel string
	timeout  time.Duration
}

// NewRootCommand builds the namesctl command tree. Settings come from the
// same BABYNAMES_* environment and optional BABYNAMES_CONFIG file as the
// server; flags that are set explicitly win.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "namesctl",
		Short:         "Query the SSA baby names archive from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.archive, "archive", "", "archive path or http(s) URL (defaults to archive_path or archive_url)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 0, "archive download timeout (defaults to fetch_timeout_ms)")

	root.AddCommand(
		newNameCommand(g),
		newYearCommand(g),
		newOHWCommand(g),
		newFilterCommand(g),
	)
	return root
}

// loadConfig layers the explicitly set global flags over config.Load.
func loadConfig(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("archive") {
		if strings.HasPrefix(g.archive, "http://") || strings.HasPrefix(g.archive, "https://") {
			cfg.ArchiveURL, cfg.ArchivePath = g.archive, ""
		} else {
			cfg.ArchivePath = g.archive
		}
	}
	if flags.Changed("timeout") {
		cfg.FetchTimeoutMS = int(g.timeout.Milliseconds())
	}
	switch {
	case flags.Changed("log-level"):
		cfg.LogLevel = g.logLevel
	case cfg.LogLevel == config.New().LogLevel:
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open loads the archive and returns a started service.
func open(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*service.Service, error) {
	cfg, err := loadConfig(ctx, cmd, g)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, err
	}

	svc, err := service.NewFromConfig(cfg, logger.Named("namesctl"))
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// newTable returns a borderless table of columns columns.
func newTable(columns int) *table.Table {
	gap := lipgloss.NewStyle().PaddingRight(columnGap)
	plain := lipgloss.NewStyle()
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == columns-1 {
				return plain
			}
			return gap
		})
}

func pct(p float64) string {
	return humanize.FormatFloat("#,###.####", p*100) + "%"
}

func sexLabel(s model.Sex) string {
	if s == "" {
		return "All"
	}
	return s.Label()
}
