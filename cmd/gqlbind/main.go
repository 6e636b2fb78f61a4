// Command gqlbind generates typed Go bindings for GraphQL operations: one
// variables type, one response type tree, and the request-building surface
// per named operation in the given documents.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/syssam/gqlbind/compiler/gen"
	"github.com/syssam/gqlbind/compiler/load"
	"github.com/syssam/gqlbind/compiler/resolve"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}
	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "gqlbind",
		Usage:   "Generate typed Go bindings for GraphQL operations.",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("GQLBIND_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}
			log.Logger = log.Level(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			generateCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run gqlbind")
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Compile operation documents against a schema and write the bindings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to gqlbind.yml", Value: "gqlbind.yml"},
			&cli.StringFlag{Name: "schema", Usage: "schema file, SDL or introspection JSON"},
			&cli.StringSliceFlag{Name: "queries", Usage: "operation document path or glob (repeatable)"},
			&cli.StringFlag{Name: "out", Usage: "output directory"},
			&cli.StringFlag{Name: "package", Usage: "output package name"},
			&cli.StringFlag{Name: "operation", Usage: "generate only the named operation"},
			&cli.StringFlag{Name: "mode", Usage: "integration surface: standalone or embedded"},
			&cli.StringFlag{Name: "struct-name", Usage: "host type for embedded mode"},
			&cli.StringFlag{Name: "deprecation", Usage: "deprecation strategy: allow, deny, or warn"},
			&cli.StringFlag{Name: "visibility", Usage: "identifier visibility: public or private"},
			&cli.StringFlag{Name: "header", Usage: "extra header comment for generated files"},
			&cli.StringSliceFlag{Name: "scalar", Usage: "custom scalar binding, Name=pkg.Type (repeatable)"},
			&cli.StringSliceFlag{Name: "variables-derives", Usage: "extra implementations for variables types"},
			&cli.StringSliceFlag{Name: "response-derives", Usage: "extra implementations for response types"},
			&cli.StringFlag{Name: "snapshot", Usage: "schema snapshot cache path; empty disables caching"},
			&cli.BoolFlag{Name: "watch", Usage: "rerun generation when the schema or documents change"},
		},
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, c *cli.Command) error {
	fileCfg, err := load.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	schemaPath := firstNonEmpty(c.String("schema"), fileCfg.Schema)
	if schemaPath == "" {
		return gen.NewConfigError("schema", nil, "no schema file given; set --schema or the schema key in gqlbind.yml")
	}
	queries := c.StringSlice("queries")
	if len(queries) == 0 {
		queries = fileCfg.Queries
	}
	if len(queries) == 0 {
		return gen.NewConfigError("queries", nil, "no operation documents given; set --queries or the queries key in gqlbind.yml")
	}
	snapshot := firstNonEmpty(c.String("snapshot"), fileCfg.Snapshot)

	// File config first, flags after, so flags win.
	opts := fileCfg.Options()
	opts = append(opts, flagOptions(c)...)

	run := func() error {
		return generate(ctx, schemaPath, queries, snapshot, opts)
	}
	if err := run(); err != nil {
		if !c.Bool("watch") {
			return err
		}
		log.Error().Err(err).Msg("generation failed")
	}
	if !c.Bool("watch") {
		return nil
	}
	return watch(ctx, schemaPath, queries, run)
}

func flagOptions(c *cli.Command) []gen.Option {
	var opts []gen.Option
	if v := c.String("package"); v != "" {
		opts = append(opts, gen.WithPackage(v))
	}
	if v := c.String("out"); v != "" {
		opts = append(opts, gen.WithTarget(v))
	}
	if v := c.String("header"); v != "" {
		opts = append(opts, gen.WithHeader(v))
	}
	if v := c.String("mode"); v != "" {
		opts = append(opts, gen.WithMode(gen.Mode(v)))
	}
	if v := c.String("operation"); v != "" {
		opts = append(opts, gen.WithOperationName(v))
	}
	if v := c.String("struct-name"); v != "" {
		opts = append(opts, gen.WithStructName(v))
	}
	if v := c.String("deprecation"); v != "" {
		opts = append(opts, gen.WithDeprecationStrategy(gen.DeprecationStrategy(v)))
	}
	if v := c.String("visibility"); v != "" {
		opts = append(opts, gen.WithVisibility(gen.Visibility(v)))
	}
	if v := c.StringSlice("variables-derives"); len(v) > 0 {
		opts = append(opts, gen.WithVariablesDerives(v...))
	}
	if v := c.StringSlice("response-derives"); len(v) > 0 {
		opts = append(opts, gen.WithResponseDerives(v...))
	}
	for _, binding := range c.StringSlice("scalar") {
		name, goType, ok := strings.Cut(binding, "=")
		if !ok {
			opts = append(opts, func(*gen.Config) error {
				return gen.NewConfigError("scalar", binding, "expected Name=pkg.Type")
			})
			continue
		}
		opts = append(opts, gen.WithScalar(name, goType))
	}
	return opts
}

func generate(ctx context.Context, schemaPath string, queries []string, snapshot string, opts []gen.Option) error {
	var (
		schema *gen.Schema
		err    error
	)
	if snapshot != "" {
		schema, err = load.SchemaCached(schemaPath, snapshot)
	} else {
		schema, err = load.Schema(schemaPath)
	}
	if err != nil {
		return err
	}

	docs, err := load.Documents(queries...)
	if err != nil {
		return err
	}

	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	result, err := gen.Generate(schema, docs, resolve.New(), cfg)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		log.Warn().
			Str("operation", w.Operation).
			Str("field", w.Field).
			Str("reason", w.Reason).
			Msg("deprecated item used")
	}
	if err := gen.Write(ctx, result, cfg); err != nil {
		return err
	}
	log.Info().
		Int("files", len(result.Files)).
		Str("target", cfg.Target).
		Msg("bindings generated")
	return nil
}

// watchSet holds the files whose changes trigger regeneration. Editors
// commonly save through rename-and-replace, which retires the inode a
// per-file watch is bound to, so the watcher is pointed at the parent
// directories instead and events are filtered against this set.
type watchSet map[string]bool

func newWatchSet(schemaPath string, queries []string) (watchSet, error) {
	ws := watchSet{filepath.Clean(schemaPath): true}
	for _, pattern := range queries {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("bad document pattern %s: %w", pattern, err)
			}
			for _, match := range matches {
				ws[filepath.Clean(match)] = true
			}
			continue
		}
		ws[filepath.Clean(pattern)] = true
	}
	return ws, nil
}

// dirs returns the sorted unique parent directories of the watched files.
func (ws watchSet) dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for path := range ws {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

// matches reports whether an event path refers to a watched file.
func (ws watchSet) matches(name string) bool {
	return ws[filepath.Clean(name)]
}

// watch reruns generation whenever the schema or a document changes.
// Generation errors are logged and the watch continues; only watcher
// failures or context cancellation end the loop.
func watch(ctx context.Context, schemaPath string, queries []string, run func() error) error {
	ws, err := newWatchSet(schemaPath, queries)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range ws.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	log.Info().Str("schema", schemaPath).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !ws.matches(event.Name) {
				continue
			}
			log.Info().Str("file", event.Name).Msg("change detected")
			if err := run(); err != nil {
				log.Error().Err(err).Msg("generation failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
