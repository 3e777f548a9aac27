package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simaogato/stockpicker-backend/internal/adapter/csv"
	"github.com/simaogato/stockpicker-backend/internal/adapter/render"
	"github.com/simaogato/stockpicker-backend/internal/domain"
	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
	"github.com/simaogato/stockpicker-backend/internal/usecase/seeder"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stockpicker",
		Short:        "Split a budget across assets to maximise expected return",
		SilenceUsage: true,
	}
	root.AddCommand(newOptimizeCmd(), newDefaultsCmd())
	return root
}

type optimizeOptions struct {
	budget      string
	assetsFile  string
	singleShare bool
	objective   string
	currency    string
	unitScale   int32
}

func newOptimizeCmd() *cobra.Command {
	opts := optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute the best whole-share allocation for a budget",
		Example: "  stockpicker optimize --budget 1000\n" +
			"  stockpicker optimize --budget 2500.50 --assets assets.csv --currency EUR",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.budget, "budget", "", "amount available to invest")
	flags.StringVar(&opts.assetsFile, "assets", "", "CSV file with symbol,price,expected_return columns (default: built-in list)")
	flags.BoolVar(&opts.singleShare, "single-share", false, "buy at most one share of each asset")
	flags.StringVar(&opts.objective, "objective", "money", `what to maximise: "money" or "rate"`)
	flags.StringVar(&opts.currency, "currency", render.DefaultCurrency, "ISO 4217 code used to print amounts")
	flags.Int32Var(&opts.unitScale, "unit-scale", allocator.DefaultUnitScale, "minimum decimal places of the money unit")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in asset list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return csv.WriteAssets(cmd.OutOrStdout(), seeder.DefaultAssets())
		},
	}
}

func runOptimize(ctx context.Context, out io.Writer, opts optimizeOptions) error {
	budget, err := domain.ParseBudget(opts.budget)
	if err != nil {
		return err
	}

	cfg := allocator.DefaultConfig()
	cfg.UnitScale = opts.unitScale
	if opts.singleShare {
		cfg.Repetition = allocator.RepetitionSingleShare
	}
	switch strings.ToLower(opts.objective) {
	case "money", "monetary", string(allocator.ObjectiveMonetaryReturn):
		cfg.Objective = allocator.ObjectiveMonetaryReturn
	case "rate", string(allocator.ObjectiveReturnRate):
		cfg.Objective = allocator.ObjectiveReturnRate
	default:
		return fmt.Errorf("unknown objective %q", opts.objective)
	}

	formatter, err := render.NewFormatter(opts.currency)
	if err != nil {
		return err
	}

	assets, err := loadAssets(opts.assetsFile)
	if err != nil {
		return err
	}

	result, err := allocator.New(cfg).Optimize(ctx, budget, assets)
	if err != nil {
		return err
	}

	return formatter.Allocation(out, result)
}

func loadAssets(path string) ([]domain.Asset, error) {
	if path == "" {
		return seeder.DefaultAssets(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets file: %w", err)
	}
	defer f.Close()

	return csv.ReadAssets(f)
}
