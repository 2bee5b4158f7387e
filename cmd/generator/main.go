// Command generator compiles a schema file into DDL scripts.
//
//	generator -v postgres,mysql -d ddl schema.yaml
//
// Settings may also be stored in an rdb.yaml file next to the schema file.
// Flags given on the command line take precedence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/syssam/rdb/compiler/gen"
	"github.com/syssam/rdb/compiler/load"
	"github.com/syssam/rdb/dialect/sql"
)

var (
	vendors    string
	target     string
	migrations string
	dsn        string
	apply      bool
	watch      bool
	strict     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "generator [flags] <schema-file>",
	Short: "Generate DDL scripts from a schema file",
	Long: `generator compiles a YAML or XML schema file into a DDL script for each
requested database vendor (mysql, mariadb, postgres, oracle, derby, sqlite).`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&vendors, "vendor", "v", "", "Target vendors (comma-separated)")
	rootCmd.Flags().StringVarP(&target, "dest", "d", "", "Destination directory of the .sql files")
	rootCmd.Flags().StringVar(&migrations, "migrations", "", "Atlas migration directory receiving a versioned file per run")
	rootCmd.Flags().BoolVar(&apply, "apply", false, "Apply the schema to the database given by --dsn")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "Connection string used by --apply (default: $RDB_DSN)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Regenerate each time the schema file changes")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Treat missing or nullable primary keys as errors")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "generator: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := args[0]
	cfg, err := config(cmd, path, logger)
	if err != nil {
		return err
	}
	g := gen.New(cfg)

	if watch {
		logger.Info("watching schema file", "file", path)
		return g.Watch(ctx, path, func(outs []*gen.Output, err error) {
			report(logger, outs)
			if err != nil {
				logger.Error("generation failed", "error", err)
			}
		})
	}
	outs, err := g.Generate(ctx, path)
	report(logger, outs)
	if err != nil {
		return err
	}
	if apply {
		return applySchema(ctx, g, path)
	}
	return nil
}

// config merges rdb.yaml with the flags set on the command line.
func config(cmd *cobra.Command, path string, logger *slog.Logger) (*gen.Config, error) {
	opts, err := gen.FromFile(filepath.Join(filepath.Dir(path), gen.ConfigFileName))
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("vendor") {
		opts = append(opts, gen.WithVendors(splitList(vendors)...))
	}
	if flags.Changed("dest") {
		opts = append(opts, gen.WithTarget(target))
	}
	if flags.Changed("migrations") {
		opts = append(opts, gen.WithMigrations(migrations))
	}
	if flags.Changed("strict") {
		opts = append(opts, gen.WithStrictPrimaryKey(strict))
	}
	opts = append(opts, gen.WithLogger(logger))
	return gen.NewConfig(opts...)
}

func applySchema(ctx context.Context, g *gen.Generator, path string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if dsn == "" {
		dsn = os.Getenv("RDB_DSN")
	}
	if dsn == "" {
		return errors.New("--apply requires --dsn or RDB_DSN")
	}
	if n := len(g.Config().Vendors); n != 1 {
		return fmt.Errorf("--apply requires exactly one vendor, got %d", n)
	}
	s, err := load.Load(path)
	if err != nil {
		return err
	}
	drv, err := sql.Open(g.Config().Vendors[0], dsn)
	if err != nil {
		return err
	}
	defer drv.Close()
	return g.Apply(ctx, drv, s)
}

func report(logger *slog.Logger, outs []*gen.Output) {
	for _, out := range outs {
		args := []any{"vendor", out.Vendor.String(), "file", out.File, "statements", out.Statements}
		if out.Warnings > 0 {
			args = append(args, "warnings", out.Warnings)
		}
		if out.Migration != "" {
			args = append(args, "migration", out.Migration)
		}
		logger.Info("ddl written", args...)
	}
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
