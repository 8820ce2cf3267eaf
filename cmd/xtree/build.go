package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
)

type buildFlags struct {
	file    string
	levels  bool
	perfect bool
	dump    string
}

// buildTree loads the entries into a new tree of the configured variant.
func buildTree(env *appEnv, entries []tree.Entry[int64, string], statsName string) (tree.BinaryTree[int64, string], []bool, error) {
	variant, err := parseVariant(env.cfg.Tree.Variant)
	if err != nil {
		return nil, nil, err
	}
	iterType, err := parseIterationType(env.cfg.Tree.Iteration)
	if err != nil {
		return nil, nil, err
	}
	opts, err := env.cfg.treeOptions(env.logger, statsName)
	if err != nil {
		return nil, nil, err
	}
	t := tree.New[int64, string](variant, opts...)
	res := t.AddMany(entries, env.cfg.Tree.Balanced, iterType)
	env.logger.Debug("tree built",
		zap.Stringer("variant", variant),
		zap.Int("entries", len(entries)),
		zap.Int64("size", t.Len()),
	)
	return t, res, nil
}

func dumpNodes(t tree.BinaryTree[int64, string], order string, iterType tree.IterationType) ([]tree.Node[int64, string], error) {
	var seq func(func(tree.Node[int64, string]) bool)
	switch strings.ToLower(order) {
	case "pre":
		seq = t.DFS(tree.PreOrder, iterType)
	case "in":
		seq = t.DFS(tree.InOrder, iterType)
	case "post":
		seq = t.DFS(tree.PostOrder, iterType)
	case "bfs":
		seq = t.BFS(iterType)
	case "morris-pre":
		seq = t.Morris(tree.PreOrder)
	case "morris-in":
		seq = t.Morris(tree.InOrder)
	case "morris-post":
		seq = t.Morris(tree.PostOrder)
	default:
		return nil, fmt.Errorf("unknown traversal order %q", order)
	}
	nodes := make([]tree.Node[int64, string], 0, t.Len())
	for n := range seq {
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func reportTree(w io.Writer, t tree.BinaryTree[int64, string], iterType tree.IterationType) error {
	minNode, _ := t.Min()
	maxNode, _ := t.Max()
	_, _ = fmt.Fprintf(w, "variant: %s\n", t.Variant())
	_, _ = fmt.Fprintf(w, "size: %d\n", t.Len())
	_, _ = fmt.Fprintf(w, "height: %d\n", t.Height(nil, iterType))
	_, _ = fmt.Fprintf(w, "min height: %d\n", t.MinHeight(nil, iterType))
	_, _ = fmt.Fprintf(w, "root: %s\n", formatNode(t.Root()))
	_, _ = fmt.Fprintf(w, "min: %s\n", formatNode(minNode))
	_, _ = fmt.Fprintf(w, "max: %s\n", formatNode(maxNode))
	_, _ = fmt.Fprintf(w, "bst: %t\n", t.IsBST(iterType))
	_, _ = fmt.Fprintf(w, "avl balanced: %t\n", t.IsAVLBalanced(iterType))
	_, _ = fmt.Fprintf(w, "perfectly balanced: %t\n", t.IsPerfectlyBalanced())
	if err := tree.Validate(t); err != nil {
		_, _ = fmt.Fprintf(w, "invariants: %v\n", err)
		return err
	}
	_, _ = fmt.Fprintln(w, "invariants: ok")
	return nil
}

func newBuildCmd(cfg *Config, s *streams) *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build [keys...]",
		Short: "Build a tree from keys and report its shape and invariants",
		Long: `Keys are integers, optionally with a value as "key=value", read from the
args, the --file ("-" for stdin) or stdin when neither is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), cfg, s, func(ctx context.Context, env *appEnv) error {
				entries, err := loadEntries(args, flags.file, s.in)
				if err != nil {
					return err
				}
				iterType, err := parseIterationType(cfg.Tree.Iteration)
				if err != nil {
					return err
				}
				t, res, err := buildTree(env, entries, "build")
				if err != nil {
					return err
				}
				inserted := lo.Count(res, true)
				_, _ = fmt.Fprintf(s.out, "inserted: %d of %d\n", inserted, len(entries))
				if flags.perfect {
					_, _ = fmt.Fprintf(s.out, "rebalanced: %t\n", t.PerfectlyBalance(iterType))
				}
				if err = reportTree(s.out, t, iterType); err != nil {
					return err
				}
				if flags.levels {
					for i, level := range t.ListLevels(iterType) {
						_, _ = fmt.Fprintf(s.out, "level %d: %s\n", i, formatKeys(level))
					}
				}
				if len(flags.dump) > 0 {
					nodes, err := dumpNodes(t, flags.dump, iterType)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(s.out, "%s: %s\n", strings.ToLower(flags.dump), formatNodes(nodes))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "keys file, - for stdin")
	cmd.Flags().BoolVar(&flags.levels, "levels", false, "print the keys level by level")
	cmd.Flags().BoolVar(&flags.perfect, "perfect", false, "rebuild the tree perfectly balanced before reporting")
	cmd.Flags().StringVar(&flags.dump, "dump", "", "print the nodes in order: pre, in, post, bfs, morris-pre, morris-in or morris-post")
	return cmd
}
