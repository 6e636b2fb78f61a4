package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer renders emitted files to disk in parallel and runs goimports-style
// formatting over each one (using the library instead of the CLI).
type Writer struct {
	result  *Result
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer for one generation result.
func NewWriter(result *Result, outDir string) *Writer {
	return &Writer{
		result:  result,
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the write metrics. Safe to call while
// WriteAll is running.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// WriteAll renders every file of the result under the output directory.
func (w *Writer) WriteAll(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, f := range w.result.Files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}

	return eg.Wait()
}

// writeFile renders, formats, and writes a single file.
func (w *Writer) writeFile(f *SourceFile) error {
	var buf bytes.Buffer
	if err := f.File.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", f.Name, err)
	}

	// Format with goimports: drops unused imports and resolves missing ones.
	fullPath := filepath.Join(w.outDir, f.Name)
	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Write the unformatted file for debugging (errors intentionally
		// ignored as we're already in error state).
		debugPath := fullPath + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return fmt.Errorf("format %s: %w (unformatted written to %s)", f.Name, err, debugPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Name, err)
	}
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Name, err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()

	return nil
}

// Write is the convenience entry point: it renders a generation result into
// the config's target directory.
func Write(ctx context.Context, result *Result, cfg *Config) error {
	if cfg.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	return NewWriter(result, cfg.Target).WriteAll(ctx)
}
