package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/annograph/internal/collection"
	"github.com/inodb/annograph/internal/duckdb"
	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/sink"
	"github.com/inodb/annograph/internal/sqlite"
)

func newLoadCmd(verbose *bool) *cobra.Command {
	var (
		sinkType string
		dbPath   string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "load <collection-dir>...",
		Short: "Load annotation collections",
		Long: `Load one or more annotation collection directories. Each directory must
contain exactly one README.<collection>.yml; GFF3, FASTA and TSV files are
recognized by name and may be gzipped. Collections are loaded one after
another and the first failure aborts the command.`,
		Example: `  annograph load glyma.Wm82.gnm2.ann1.RVB6
  annograph load --sink sqlite --db soy.db glyma.Wm82.gnm2.ann1.RVB6
  annograph load --dry-run glyma.Wm82.gnm2.ann1.RVB6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: at least one collection directory required", errUsage)
			}
			if cmd.Flags().Changed("sink") {
				viper.Set("sink.type", sinkType)
			}
			if cmd.Flags().Changed("db") {
				viper.Set("sink.path", dbPath)
			}
			if dryRun {
				viper.Set("sink.type", "none")
			}

			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return runLoad(ctx, cmd.OutOrStdout(), logger, args)
		},
	}

	cmd.Flags().StringVar(&sinkType, "sink", "duckdb", "Output database: duckdb, sqlite or none")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default ~/.annograph/annograph.duckdb)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Load and validate without writing; print entity counts")
	return cmd
}

func runLoad(ctx context.Context, out io.Writer, logger *zap.Logger, dirs []string) error {
	s, err := openSink(viper.GetString("sink.type"), viper.GetString("sink.path"))
	if err != nil {
		return err
	}
	defer s.Close()

	loader := collection.NewLoader(s, collection.Options{
		ChromosomePrefixes:  listSetting("regions.chromosome_prefixes"),
		SupercontigPrefixes: listSetting("regions.supercontig_prefixes"),
		DomainPrefix:        viper.GetString("gff.domain_prefix"),
	})
	loader.SetLogger(logger)

	for _, dir := range dirs {
		batch, err := loader.Load(ctx, dir)
		if err != nil {
			return fmt.Errorf("load %s: %w", dir, err)
		}
		printCounts(out, batch)
	}
	return nil
}

func openSink(kind, path string) (sink.Sink, error) {
	switch kind {
	case "duckdb":
		s, err := duckdb.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none", "":
		return sink.NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: unknown sink type %q (want duckdb, sqlite or none)", errUsage, kind)
}

func printCounts(w io.Writer, b *graph.Batch) {
	counts := b.Counts()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s\n", b.Collection)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-16s %d\n", k, counts[k])
	}
}
