package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

const (
	metricsExporterNone       = "none"
	metricsExporterConsole    = "console"
	metricsExporterPrometheus = "prometheus"
)

var errInvalidConfig = errors.New("invalid xtree config")

type TreeConfig struct {
	Variant          string `yaml:"variant"`
	MapMode          bool   `yaml:"map_mode"`
	Desc             bool   `yaml:"desc"`
	RemoveBorrowSucc bool   `yaml:"remove_borrow_succ"`
	Iteration        string `yaml:"iteration"`
	Balanced         bool   `yaml:"balanced"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Encoder string `yaml:"encoder"`
}

type MetricsConfig struct {
	Exporter string        `yaml:"exporter"`
	Interval time.Duration `yaml:"interval"`
	Addr     string        `yaml:"addr"`
	// Linger keeps the prometheus endpoint up after the command ends so
	// the last values can still be scraped.
	Linger time.Duration `yaml:"linger"`
}

type BenchConfig struct {
	Size     int      `yaml:"size"`
	Pattern  string   `yaml:"pattern"`
	Seed     uint64   `yaml:"seed"`
	Variants []string `yaml:"variants"`
	Workers  int      `yaml:"workers"`
	Queries  int      `yaml:"queries"`
}

type Config struct {
	Tree    TreeConfig    `yaml:"tree"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Bench   BenchConfig   `yaml:"bench"`
}

func defaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			Variant:   tree.RB.String(),
			Iteration: tree.Iterative.String(),
		},
		Log: LogConfig{
			Level:   xlog.LogLevelWarn.String(),
			Encoder: "text",
		},
		Metrics: MetricsConfig{
			Exporter: metricsExporterNone,
			Interval: 10 * time.Second,
			Addr:     "127.0.0.1:9464",
		},
		Bench: BenchConfig{
			Size:     100_000,
			Pattern:  string(id.Random),
			Seed:     1,
			Variants: []string{tree.BST.String(), tree.AVL.String(), tree.RB.String()},
			Workers:  3,
			Queries:  10_000,
		},
	}
}

// LoadConfig reads the yaml file over the defaults. An empty path means
// the defaults only.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if len(strings.TrimSpace(path)) == 0 {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "read config "+path)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "parse config "+path)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the enum fields and checks the bounds.
func (cfg *Config) Validate() error {
	cfg.Metrics.Exporter = strings.ToLower(strings.TrimSpace(cfg.Metrics.Exporter))
	if len(cfg.Metrics.Exporter) == 0 {
		cfg.Metrics.Exporter = metricsExporterNone
	}
	cfg.Bench.Pattern = strings.ToLower(strings.TrimSpace(cfg.Bench.Pattern))
	if _, err := parseVariant(cfg.Tree.Variant); err != nil {
		return err
	}
	if _, err := parseIterationType(cfg.Tree.Iteration); err != nil {
		return err
	}
	if _, err := parseLogEncoder(cfg.Log.Encoder); err != nil {
		return err
	}
	switch cfg.Metrics.Exporter {
	case metricsExporterNone, metricsExporterConsole, metricsExporterPrometheus:
	default:
		return infra.WrapErrorStackWithMessage(errInvalidConfig, "unknown metrics exporter "+cfg.Metrics.Exporter)
	}
	if cfg.Metrics.Interval <= 0 || cfg.Metrics.Linger < 0 {
		return infra.WrapErrorStackWithMessage(errInvalidConfig, "metrics interval must be positive")
	}
	if cfg.Bench.Size <= 0 || cfg.Bench.Workers <= 0 || cfg.Bench.Queries < 0 {
		return infra.WrapErrorStackWithMessage(errInvalidConfig,
			fmt.Sprintf("bench size %d, workers %d, queries %d", cfg.Bench.Size, cfg.Bench.Workers, cfg.Bench.Queries))
	}
	if _, err := id.New(id.Pattern(cfg.Bench.Pattern), 0, 1); err != nil {
		return infra.WrapErrorStackWithMessage(errInvalidConfig, err.Error())
	}
	for _, v := range cfg.Bench.Variants {
		if _, err := parseVariant(v); err != nil {
			return err
		}
	}
	return nil
}

func parseVariant(name string) (tree.Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BST":
		return tree.BST, nil
	case "AVL":
		return tree.AVL, nil
	case "RB", "RBTREE", "RED-BLACK":
		return tree.RB, nil
	default:
	}
	return 0, infra.WrapErrorStackWithMessage(errInvalidConfig, "unknown tree variant "+name)
}

func parseIterationType(name string) (tree.IterationType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case tree.Iterative.String(), "":
		return tree.Iterative, nil
	case tree.Recursive.String():
		return tree.Recursive, nil
	default:
	}
	return 0, infra.WrapErrorStackWithMessage(errInvalidConfig, "unknown iteration type "+name)
}

func parseLogEncoder(name string) (xlog.LogEncoderType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return xlog.JSON, nil
	case "text", "plain", "":
		return xlog.PlainText, nil
	default:
	}
	return 0, infra.WrapErrorStackWithMessage(errInvalidConfig, "unknown log encoder "+name)
}

// treeOptions renders the tree section into the library options.
func (cfg *Config) treeOptions(logger xlog.XLogger, statsName string) ([]tree.TreeOption[int64, string], error) {
	iterType, err := parseIterationType(cfg.Tree.Iteration)
	if err != nil {
		return nil, err
	}
	opts := []tree.TreeOption[int64, string]{
		tree.WithIterationType[int64, string](iterType),
	}
	if cfg.Tree.MapMode {
		opts = append(opts, tree.WithMapMode[int64, string]())
	}
	if cfg.Tree.Desc {
		opts = append(opts, tree.WithDescOrder[int64, string]())
	}
	if cfg.Tree.RemoveBorrowSucc {
		opts = append(opts, tree.WithRemoveBorrowSucc[int64, string]())
	}
	if logger != nil {
		opts = append(opts, tree.WithLogger[int64, string](logger))
	}
	if len(statsName) > 0 && cfg.Metrics.Exporter != metricsExporterNone {
		opts = append(opts, tree.WithTreeStats[int64, string](statsName))
	}
	return opts, nil
}
