package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

var errInvalidQuery = errors.New("invalid query")

type queryFlags struct {
	file        string
	keys        string
	excludeLow  bool
	excludeHigh bool
}

type boundQuery func(tree.Target[int64, string], ...tree.IterationType) (tree.Node[int64, string], bool)

func boundQueries(t tree.BinaryTree[int64, string]) map[string]boundQuery {
	return map[string]boundQuery{
		"floor":       t.FloorEntry,
		"ceiling":     t.CeilingEntry,
		"lower":       t.LowerEntry,
		"higher":      t.HigherEntry,
		"lower-bound": t.LowerBound,
		"upper-bound": t.UpperBound,
		"get": func(target tree.Target[int64, string], _ ...tree.IterationType) (tree.Node[int64, string], bool) {
			return t.GetNode(target)
		},
	}
}

func parseQueryKeys(op string, args []string, n int) ([]int64, error) {
	if len(args) != n {
		return nil, infra.WrapErrorStackWithMessage(errInvalidQuery,
			fmt.Sprintf("%s expects %d key(s), got %d", op, n, len(args)))
	}
	keys := make([]int64, 0, n)
	for _, arg := range args {
		k, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(errors.Join(errInvalidQuery, err), strconv.Quote(arg))
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// runQuery answers one query against t and returns the printed line.
func runQuery(t tree.BinaryTree[int64, string], op string, args []string, flags *queryFlags, iterType tree.IterationType) (string, error) {
	op = strings.ToLower(op)
	if query, ok := boundQueries(t)[op]; ok {
		keys, err := parseQueryKeys(op, args, 1)
		if err != nil {
			return "", err
		}
		n, _ := query(tree.ByKey(keys[0]), iterType)
		return fmt.Sprintf("%s(%d) = %s", op, keys[0], formatNode(n)), nil
	}

	switch op {
	case "range":
		keys, err := parseQueryKeys(op, args, 2)
		if err != nil {
			return "", err
		}
		nodes, err := t.RangeSearch(tree.Range[int64]{
			Low:         keys[0],
			High:        keys[1],
			ExcludeLow:  flags.excludeLow,
			ExcludeHigh: flags.excludeHigh,
		}, iterType)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("range(%d, %d) = [%s]", keys[0], keys[1], formatNodes(nodes)), nil
	case "lesser", "greater":
		keys, err := parseQueryKeys(op, args, 1)
		if err != nil {
			return "", err
		}
		sign := -1
		if op == "greater" {
			sign = 1
		}
		nodes := t.LesserOrGreaterTraverse(sign, tree.ByKey(keys[0]), iterType)
		return fmt.Sprintf("%s(%d) = [%s]", op, keys[0], formatNodes(nodes)), nil
	case "path":
		keys, err := parseQueryKeys(op, args, 1)
		if err != nil {
			return "", err
		}
		n, ok := t.GetNode(tree.ByKey(keys[0]))
		if !ok {
			return fmt.Sprintf("path(%d) = <none>", keys[0]), nil
		}
		return fmt.Sprintf("path(%d) = [%s] depth %d", keys[0],
			formatKeys(t.PathToRoot(n, true)), t.Depth(n, nil)), nil
	case "delete":
		keys, err := parseQueryKeys(op, args, 1)
		if err != nil {
			return "", err
		}
		res := t.Delete(tree.ByKey(keys[0]))
		if len(res) == 0 {
			return fmt.Sprintf("delete(%d) = <none>", keys[0]), nil
		}
		if err = tree.Validate(t); err != nil {
			return "", err
		}
		return fmt.Sprintf("delete(%d) = %s, size %d", keys[0], formatNode(res[0].Deleted), t.Len()), nil
	default:
	}
	return "", infra.WrapErrorStackWithMessage(errInvalidQuery, "unknown query "+op)
}

func newQueryCmd(cfg *Config, s *streams) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query <op> [key...]",
		Short: "Build a tree from keys and answer an ordered query",
		Long: `Ops: floor, ceiling, lower, higher, lower-bound, upper-bound, get (one key),
range (low high), lesser, greater, path and delete (one key).
Keys come from --keys, the --file ("-" for stdin) or stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), cfg, s, func(ctx context.Context, env *appEnv) error {
				var keyArgs []string
				if len(flags.keys) > 0 {
					keyArgs = []string{flags.keys}
				}
				entries, err := loadEntries(keyArgs, flags.file, s.in)
				if err != nil {
					return err
				}
				iterType, err := parseIterationType(cfg.Tree.Iteration)
				if err != nil {
					return err
				}
				t, _, err := buildTree(env, entries, "query")
				if err != nil {
					return err
				}
				line, err := runQuery(t, args[0], args[1:], flags, iterType)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(s.out, line)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "keys file, - for stdin")
	cmd.Flags().StringVar(&flags.keys, "keys", "", `keys as "1,2,3=c"`)
	cmd.Flags().BoolVar(&flags.excludeLow, "exclude-low", false, "range excludes the low key")
	cmd.Flags().BoolVar(&flags.excludeHigh, "exclude-high", false, "range excludes the high key")
	return cmd
}
