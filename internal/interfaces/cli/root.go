package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	app "github.com/turtacn/pourbaix-engine/internal/application/pourbaix"
	"github.com/turtacn/pourbaix-engine/internal/config"
	rediscache "github.com/turtacn/pourbaix-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/entrysource"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	"github.com/turtacn/pourbaix-engine/pkg/types/common"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath     string
	LogLevel       string
	OutputFormat   string
	EntriesPath    string
	Concentrations map[string]string
	FilterSolids   bool
	Timeout        time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      app.Service
	Collector    prometheus.MetricsCollector
	OutputFormat string

	opts        *RootOptions
	redisClient *rediscache.Client
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pourbaix",
		Short: "Pourbaix diagram engine",
		Long: "pourbaix builds electrochemical stability diagrams from candidate solids and\n" +
			"aqueous ions, and answers stability and decomposition queries over pH and potential.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./pourbaix.yaml if present)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.StringVarP(&opts.EntriesPath, "entries", "e", "", "entry document (YAML or JSON)")
	pf.StringToStringVar(&opts.Concentrations, "conc", nil, "ion concentrations per element, e.g. Fe=1e-4,Cr=1e-6")
	pf.BoolVar(&opts.FilterSolids, "filter-solids", false, "drop solids unstable on the compositional phase diagram")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "overall operation timeout (0 uses compute.timeout)")

	cmd.AddCommand(
		NewDomainsCmd(),
		NewEntriesCmd(),
		NewStableCmd(),
		NewHullCmd(),
		NewDecomposeCmd(),
		NewMapCmd(),
		NewCacheCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun loads config, logger, metrics, cache and service, then
// stores the CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table":
	default:
		return errors.NewValidationError("output", fmt.Sprintf("%q is invalid; expected text|json|table", opts.OutputFormat))
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg, opts)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	collector, err := initCollector(cfg, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Collector:    collector,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		opts:         opts,
	}

	var cache rediscache.Cache
	if cfg.Cache.Enabled {
		client, err := rediscache.NewClient(cmd.Context(), &rediscache.RedisConfig{
			Mode:         cfg.Cache.Mode,
			Addr:         cfg.Cache.Addr,
			ClusterAddrs: strings.Split(cfg.Cache.Addr, ","),
			Password:     cfg.Cache.Password,
			DB:           cfg.Cache.DB,
		}, logger)
		if err != nil {
			logger.Warn("snapshot cache disabled", logging.Err(err))
		} else {
			cliCtx.redisClient = client
			cache = rediscache.NewRedisCache(client, logger,
				rediscache.WithPrefix(cfg.Cache.KeyPrefix),
				rediscache.WithDefaultTTL(cfg.Cache.TTL),
			)
		}
	}

	cliCtx.Service = app.NewService(app.OptionsFromConfig(cfg), cache, prometheus.NewAppMetrics(collector), logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// persistentPostRun writes the metrics textfile and releases resources.
func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil
	}
	if cliCtx.redisClient != nil {
		if err := cliCtx.redisClient.Close(); err != nil {
			cliCtx.Logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if path := cliCtx.Config.Metrics.Textfile; cliCtx.Config.Metrics.Enabled && path != "" {
		if err := cliCtx.Collector.WriteTextfile(path); err != nil {
			return errors.Wrap(err, errors.ErrCodeIO, "failed to write metrics textfile")
		}
		cliCtx.Logger.Debug("metrics written", logging.String("path", path))
	}
	_ = cliCtx.Logger.Sync()
	return nil
}

// initConfig loads configuration with priority flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		searchPaths := []string{"./pourbaix.yaml"}
		if home, err := os.UserHomeDir(); err == nil {
			searchPaths = append(searchPaths, filepath.Join(home, ".pourbaix", "config.yaml"))
		}
		for _, p := range searchPaths {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
				break
			}
		}
	}
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if opts.FilterSolids {
		cfg.Diagram.FilterSolids = true
	}
	if opts.Timeout > 0 {
		cfg.Compute.Timeout = opts.Timeout
	}
	for el, raw := range opts.Concentrations {
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil || c <= 0 {
			return nil, errors.NewValidationError("conc."+el, fmt.Sprintf("%q is not a positive number", raw))
		}
		if cfg.Diagram.Concentrations == nil {
			cfg.Diagram.Concentrations = make(map[string]float64)
		}
		cfg.Diagram.Concentrations[el] = c
	}
	return cfg, nil
}

// initLogger creates a logger writing to the configured output, which
// defaults to stderr so that command output on stdout stays clean.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	return logging.NewLogger(logging.Config{
		Level:       level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
	})
}

func initCollector(cfg *config.Config, logger logging.Logger) (prometheus.MetricsCollector, error) {
	if !cfg.Metrics.Enabled {
		return prometheus.NewNoopCollector(), nil
	}
	return prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:       cfg.Metrics.Namespace,
		EnableGoMetrics: true,
	}, logger)
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.NewValidationError("context", "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.NewValidationError("context", "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// BuildRequest loads the entry document named by --entries and combines it
// with the diagram configuration.
func (c *CLIContext) BuildRequest() (*app.BuildRequest, error) {
	if c.opts.EntriesPath == "" {
		return nil, errors.NewValidationError("entries", "an entry document is required (--entries)")
	}
	entries, err := entrysource.NewLoader(c.Logger).LoadFile(c.opts.EntriesPath)
	if err != nil {
		return nil, err
	}
	return app.NewBuildRequest(c.Config.Diagram, entries), nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// tableProvider is implemented by results that render as tables.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format selected by --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}
	switch cliCtx.OutputFormat {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprint(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes err to stderr. With --output json the error is written
// as an error response document.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	if format, _ := cmd.PersistentFlags().GetString("output"); strings.EqualFold(format, "json") {
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		_ = enc.Encode(common.NewErrorResponse(errorDetail(err)))
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

func errorDetail(err error) common.ErrorDetail {
	detail := common.ErrorDetail{Code: errors.GetCode(err).String(), Message: err.Error()}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		detail.Message = appErr.Message
		detail.Detail = appErr.Detail
	}
	return detail
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
