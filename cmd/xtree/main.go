package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	s := &streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := newRootCmd(s).Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	variant    string
	iteration  string
	mapMode    bool
	desc       bool
	borrowSucc bool
	balanced   bool
	logLevel   string
	metrics    string
}

// apply overrides the config by the flags set on the command line.
func (flags *rootFlags) apply(cmd *cobra.Command, cfg *Config) {
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("variant") {
		cfg.Tree.Variant = flags.variant
	}
	if changed("iteration") {
		cfg.Tree.Iteration = flags.iteration
	}
	if changed("map-mode") {
		cfg.Tree.MapMode = flags.mapMode
	}
	if changed("desc") {
		cfg.Tree.Desc = flags.desc
	}
	if changed("borrow-succ") {
		cfg.Tree.RemoveBorrowSucc = flags.borrowSucc
	}
	if changed("balanced") {
		cfg.Tree.Balanced = flags.balanced
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("metrics") {
		cfg.Metrics.Exporter = flags.metrics
	}
}

func newRootCmd(s *streams) *cobra.Command {
	flags := &rootFlags{}
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:          "xtree",
		Version:      version,
		Short:        "Ordered map engine over BST, AVL and Red-Black trees",
		Long:         "xtree loads integer keys into a binary search tree and reports its shape, answers ordered queries or benchmarks the tree variants.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cmd, loaded)
			if err = loaded.Validate(); err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "yaml config file")
	pf.StringVar(&flags.variant, "variant", "", "tree variant: BST, AVL or RB")
	pf.StringVar(&flags.iteration, "iteration", "", "iterative or recursive algorithms")
	pf.BoolVar(&flags.mapMode, "map-mode", false, "keep values in a map owned by the tree")
	pf.BoolVar(&flags.desc, "desc", false, "descending key order")
	pf.BoolVar(&flags.borrowSucc, "borrow-succ", false, "delete by swapping with the in-order successor")
	pf.BoolVar(&flags.balanced, "balanced", false, "sort the keys and insert them midpoint first")
	pf.StringVar(&flags.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR")
	pf.StringVar(&flags.metrics, "metrics", "", "metrics exporter: none, console or prometheus")

	root.AddCommand(
		newBuildCmd(cfg, s),
		newQueryCmd(cfg, s),
		newBenchCmd(cfg, s),
	)
	return root
}
