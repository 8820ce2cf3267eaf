package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

var errInvalidKey = errors.New("invalid key token")

// parseToken reads "k" or "k=v". A bare key carries its own text as value.
func parseToken(token string) (tree.Entry[int64, string], error) {
	k, v, hasVal := strings.Cut(token, "=")
	key, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
	if err != nil {
		return tree.Entry[int64, string]{}, infra.WrapErrorStackWithMessage(
			errors.Join(errInvalidKey, err), strconv.Quote(token))
	}
	if !hasVal {
		v = strconv.FormatInt(key, 10)
	}
	return tree.Entry[int64, string]{Key: key, Value: v}, nil
}

func splitTokens(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

// readEntries scans the tokens separated by spaces, commas or new lines.
// Everything after a '#' on a line is ignored.
func readEntries(r io.Reader) ([]tree.Entry[int64, string], error) {
	entries := make([]tree.Entry[int64, string], 0, 64)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, token := range splitTokens(scanner.Text()) {
			e, err := parseToken(token)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return entries, nil
}

// loadEntries collects the entries of the args, the file ("-" for stdin)
// or, when both are absent, stdin.
func loadEntries(args []string, file string, stdin io.Reader) ([]tree.Entry[int64, string], error) {
	entries := make([]tree.Entry[int64, string], 0, len(args))
	for _, arg := range args {
		for _, token := range splitTokens(arg) {
			e, err := parseToken(token)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}

	var r io.Reader
	switch {
	case file == "-":
		r = stdin
	case len(file) > 0:
		f, err := os.Open(file)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "open keys file")
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	case len(args) == 0 && stdin != nil:
		r = stdin
	default:
	}
	if r == nil {
		return entries, nil
	}
	more, err := readEntries(r)
	if err != nil {
		return nil, err
	}
	return append(entries, more...), nil
}

func formatNode(n tree.Node[int64, string]) string {
	if n == nil {
		return "<none>"
	}
	return strconv.FormatInt(n.Key(), 10) + "=" + n.Val()
}

func formatNodes(nodes []tree.Node[int64, string]) string {
	return strings.Join(lo.Map(nodes, func(n tree.Node[int64, string], _ int) string {
		return formatNode(n)
	}), " ")
}

func formatKeys(nodes []tree.Node[int64, string]) string {
	return strings.Join(lo.Map(nodes, func(n tree.Node[int64, string], _ int) string {
		return strconv.FormatInt(n.Key(), 10)
	}), " ")
}
