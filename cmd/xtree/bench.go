package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/kv"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

type benchFlags struct {
	size    int
	pattern string
	seed    uint64
	workers int
	queries int
}

func (flags *benchFlags) apply(cmd *cobra.Command, cfg *Config) {
	if cmd.Flags().Changed("size") {
		cfg.Bench.Size = flags.size
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Bench.Pattern = flags.pattern
	}
	if cmd.Flags().Changed("seed") {
		cfg.Bench.Seed = flags.seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Bench.Workers = flags.workers
	}
	if cmd.Flags().Changed("queries") {
		cfg.Bench.Queries = flags.queries
	}
}

type benchReport struct {
	variant  tree.Variant
	inserted int
	size     int64
	height   int
	hits     int
	distinct int64
	deleted  int
	groups   int64
	grouped  int
	insert   time.Duration
	query    time.Duration
	delete   time.Duration
	group    time.Duration
	err      error
}

// benchVariant inserts the generated keys, queries the ceilings of
// random keys, deletes every other inserted key and finally groups the
// survivors into buckets with a multimap.
func benchVariant(env *appEnv, variant tree.Variant) (report *benchReport) {
	report = &benchReport{variant: variant}
	defer func() {
		if r := recover(); r != nil {
			report.err = multierr.Append(report.err,
				infra.NewErrorStack(fmt.Sprintf("bench %s panic: %v", variant, r)))
		}
	}()

	bench := env.cfg.Bench
	limit := uint64(bench.Size) * 4
	gen, err := id.New(id.Pattern(bench.Pattern), bench.Seed, limit)
	if err != nil {
		report.err = err
		return report
	}
	opts, err := env.cfg.treeOptions(env.logger.Named(variant.String()), "bench")
	if err != nil {
		report.err = err
		return report
	}
	t := tree.New[int64, string](variant, opts...)

	keys := make([]int64, 0, bench.Size)
	start := time.Now()
	for i := 0; i < bench.Size; i++ {
		k := int64(gen())
		if t.AddKey(k) {
			report.inserted++
			keys = append(keys, k)
		}
	}
	report.insert = time.Since(start)

	lookup := id.RandomID(bench.Seed+1, limit)
	hitKeys := make([]int64, 0, bench.Queries)
	start = time.Now()
	for i := 0; i < bench.Queries; i++ {
		if n, ok := t.CeilingEntry(tree.ByKey(int64(lookup()))); ok {
			hitKeys = append(hitKeys, n.Key())
		}
	}
	report.query = time.Since(start)
	report.hits = len(hitKeys)
	ceilings := tree.NewTreeSet[int64](variant)
	for _, k := range hitKeys {
		ceilings.Add(k)
	}
	report.distinct = ceilings.Len()

	start = time.Now()
	for i := 0; i < len(keys); i += 2 {
		report.deleted += len(t.Delete(tree.ByKey(keys[i])))
	}
	report.delete = time.Since(start)

	report.size = t.Len()
	report.height = t.Height(nil)
	report.err = multierr.Append(report.err, tree.Validate(t))

	buckets := max(int64(bench.Size/10), 1)
	groups := tree.NewTreeMultiMap[int64, int64](variant)
	start = time.Now()
	for k := range t.All() {
		groups.Add(k%buckets, k)
	}
	for b := int64(0); b < buckets; b++ {
		for range groups.EqualRange(b) {
			report.grouped++
		}
	}
	report.group = time.Since(start)
	report.groups = groups.KeyLen()
	if groups.Len() != report.size || int64(report.grouped) != report.size {
		report.err = multierr.Append(report.err, infra.NewErrorStack(
			fmt.Sprintf("bench %s grouped %d of %d keys", variant, report.grouped, report.size)))
	}
	return report
}

func runBench(ctx context.Context, env *appEnv) error {
	variants := make([]tree.Variant, 0, len(env.cfg.Bench.Variants))
	for _, name := range env.cfg.Bench.Variants {
		v, err := parseVariant(name)
		if err != nil {
			return err
		}
		if !slices.Contains(variants, v) {
			variants = append(variants, v)
		}
	}

	pool, err := ants.NewPool(env.cfg.Bench.Workers,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(env.logger)),
		ants.WithPanicHandler(func(r any) {
			env.logger.Error(fmt.Errorf("%v", r), "bench worker panic")
		}),
	)
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	defer pool.Release()

	reports := kv.NewThreadSafeMap[tree.Variant, *benchReport](
		kv.WithThreadSafeMapInitCap[tree.Variant, *benchReport](uint32(len(variants))),
	)
	wg := sync.WaitGroup{}
	for _, variant := range variants {
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			report := benchVariant(env, variant)
			if err := reports.AddOrUpdate(variant, report); err != nil {
				env.logger.ErrorStack(err, "bench report dropped", zap.Stringer("variant", variant))
			}
		}); err != nil {
			wg.Done()
			return infra.WrapErrorStackWithMessage(err, "submit bench "+variant.String())
		}
	}
	wg.Wait()

	slices.Sort(variants)
	results := make([]*benchReport, 0, reports.Len())
	for _, variant := range variants {
		r, ok := reports.Get(variant)
		if !ok {
			err = multierr.Append(err, infra.NewErrorStack("bench "+variant.String()+" reported nothing"))
			continue
		}
		results = append(results, r)
		err = multierr.Append(err, r.err)
	}
	writeBenchReports(env.streams.out, env.cfg.Bench, results)
	return multierr.Append(err, reports.Purge())
}

func writeBenchReports(w io.Writer, bench BenchConfig, results []*benchReport) {
	_, _ = fmt.Fprintf(w, "keys: %d %s, queries: %d\n", bench.Size, bench.Pattern, bench.Queries)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join([]string{
		"VARIANT", "INSERTED", "INSERT", "HITS", "DISTINCT", "QUERY", "DELETED", "DELETE",
		"SIZE", "HEIGHT", "GROUPS", "GROUP", "INVARIANTS",
	}, "\t"))
	for _, r := range results {
		invariants := "ok"
		if r.err != nil {
			invariants = r.err.Error()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\t%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.variant, r.inserted, r.insert, r.hits, r.distinct, r.query, r.deleted, r.delete,
			r.size, r.height, r.groups, r.group, invariants)
	}
	_ = tw.Flush()
}

func newBenchCmd(cfg *Config, s *streams) *cobra.Command {
	flags := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the tree variants concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg, s, runBench)
		},
	}
	cmd.Flags().IntVarP(&flags.size, "size", "n", 0, "keys generated per variant")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "key pattern: sequential, descending or random")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random key seed")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "ants pool size")
	cmd.Flags().IntVar(&flags.queries, "queries", 0, "ceiling queries per variant")
	return cmd
}
