package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/turtacn/pourbaix-engine/internal/application/pourbaix"
	domain "github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/entrysource"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

// withRequest resolves the CLIContext and build request shared by every
// diagram command and applies the configured timeout.
func withRequest(cmd *cobra.Command, run func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error) error {
	c, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	req, err := c.BuildRequest()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if t := c.Config.Compute.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return run(ctx, c, req)
}

// NewDomainsCmd creates the domains command.
func NewDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "Build the diagram and list its stable domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				snap, err := c.Service.Snapshot(ctx, req)
				if err != nil {
					return err
				}
				if c.OutputFormat == "json" {
					return PrintResult(cmd, snap)
				}
				return PrintResult(cmd, domainsView{snap})
			})
		},
	}
}

// NewEntriesCmd creates the entries command.
func NewEntriesCmd() *cobra.Command {
	var (
		onlyUnstable bool
		exportPath   string
	)
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List the processed entries and whether each is stable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				if exportPath != "" {
					if err := exportEntries(exportPath, req.Entries); err != nil {
						return err
					}
					c.Logger.Info("entries exported", logging.String("path", exportPath), logging.Int("count", len(req.Entries)))
				}
				snap, err := c.Service.Snapshot(ctx, req)
				if err != nil {
					return err
				}
				view := entriesView{}
				for _, e := range snap.Entries {
					if onlyUnstable && e.Stable {
						continue
					}
					view.Entries = append(view.Entries, e)
				}
				if c.OutputFormat == "json" {
					return PrintResult(cmd, view.Entries)
				}
				return PrintResult(cmd, view)
			})
		},
	}
	cmd.Flags().BoolVar(&onlyUnstable, "unstable", false, "list only entries without a stable domain")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the loaded entries, ids included, to this YAML or JSON file")
	return cmd
}

func exportEntries(path string, entries []*domain.SingleEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIO, "failed to create export file").WithDetail("path=" + path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrCodeIO, "failed to close export file").WithDetail("path=" + path)
		}
	}()
	return entrysource.Encode(f, entrysource.Records(entries), entrysource.DetectFormat(path))
}

func addPointFlags(cmd *cobra.Command, pH, V *float64) {
	cmd.Flags().Float64Var(pH, "ph", 7, "pH")
	cmd.Flags().Float64Var(V, "v", 0, "potential in V vs SHE")
}

// NewStableCmd creates the stable command.
func NewStableCmd() *cobra.Command {
	var pH, V float64
	cmd := &cobra.Command{
		Use:   "stable",
		Short: "Print the stable entry at a pH and potential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				res, err := c.Service.StableAt(ctx, req, pH, V)
				if err != nil {
					return err
				}
				return PrintResult(cmd, pointView{res})
			})
		},
	}
	addPointFlags(cmd, &pH, &V)
	return cmd
}

// NewHullCmd creates the hull command.
func NewHullCmd() *cobra.Command {
	var pH, V float64
	cmd := &cobra.Command{
		Use:   "hull",
		Short: "Print the hull energy at a pH and potential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				res, err := c.Service.StableAt(ctx, req, pH, V)
				if err != nil {
					return err
				}
				if c.OutputFormat == "json" {
					return PrintResult(cmd, map[string]float64{"pH": res.PH, "V": res.V, "hull_energy": res.HullEnergy})
				}
				return PrintResult(cmd, fmt.Sprintf("%.6f", res.HullEnergy))
			})
		},
	}
	addPointFlags(cmd, &pH, &V)
	return cmd
}

// NewDecomposeCmd creates the decompose command.
func NewDecomposeCmd() *cobra.Command {
	var (
		entry string
		pH, V float64
	)
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Print the decomposition energy of an entry at a pH and potential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				res, err := c.Service.Decompose(ctx, req, entry, pH, V)
				if err != nil {
					return err
				}
				return PrintResult(cmd, pointView{res})
			})
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "entry name or id [REQUIRED]")
	addPointFlags(cmd, &pH, &V)
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}

// NewMapCmd creates the map command.
func NewMapCmd() *cobra.Command {
	var (
		entry      string
		quantity   string
		resolution int
		window     domain.Window
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Sample the hull or decomposition energy on a pH×V mesh",
		Long: "map evaluates the decomposition energy of --entry, or the hull energy when no\n" +
			"entry is given, on a regular mesh. Rows are computed in parallel by compute.workers.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := &app.MapInput{Entry: entry, Resolution: resolution}
			if quantity != "" {
				q, err := ptypes.ParseQuantity(quantity)
				if err != nil {
					return errors.NewValidationError("quantity", err.Error())
				}
				input.Quantity = q
			}
			if cmd.Flags().Changed("ph-min") || cmd.Flags().Changed("ph-max") ||
				cmd.Flags().Changed("v-min") || cmd.Flags().Changed("v-max") {
				input.Window = window
			}
			return withRequest(cmd, func(ctx context.Context, c *CLIContext, req *app.BuildRequest) error {
				m, err := c.Service.StabilityMap(ctx, req, input)
				if err != nil {
					return err
				}
				if c.OutputFormat == "json" {
					return PrintResult(cmd, m)
				}
				return PrintResult(cmd, mapView{m})
			})
		},
	}
	def := domain.DefaultWindow()
	f := cmd.Flags()
	f.StringVar(&entry, "entry", "", "entry name or id; empty samples the hull energy")
	f.StringVar(&quantity, "quantity", "", "decomposition or hull (default: decomposition with --entry, else hull)")
	f.IntVar(&resolution, "resolution", 0, "samples per axis (0 uses compute.map_resolution)")
	f.Float64Var(&window.PHMin, "ph-min", def.PHMin, "lower pH bound")
	f.Float64Var(&window.PHMax, "ph-max", def.PHMax, "upper pH bound")
	f.Float64Var(&window.VMin, "v-min", def.VMin, "lower potential bound")
	f.Float64Var(&window.VMax, "v-max", def.VMax, "upper potential bound")
	return cmd
}

// NewCacheCmd creates the cache command group.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the diagram snapshot cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached diagram snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			n, err := c.Service.PurgeCache(cmd.Context())
			if err != nil {
				return err
			}
			if c.OutputFormat == "json" {
				return PrintResult(cmd, map[string]int64{"deleted": n})
			}
			return PrintResult(cmd, fmt.Sprintf("deleted %d snapshot(s)", n))
		},
	})
	return cmd
}

// NewVersionCmd creates the version command. It needs no configuration.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "version",
		Short:              "Print version information",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pourbaix %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
