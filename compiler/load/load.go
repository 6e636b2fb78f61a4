// Package load reads schemas and operation documents from disk, caches
// ingested schemas as snapshots, and maps file-based configuration onto
// generation options.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syssam/gqlbind/compiler/gen"
)

// Schema reads and ingests a schema file. A .json extension selects the
// introspection decoder; anything else is parsed as SDL.
func Schema(path string) (*gen.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return gen.SchemaFromIntrospection(data)
	}
	return gen.SchemaFromSDL(filepath.Base(path), string(data))
}

// Document reads and parses one operation document.
func Document(path string) (*gen.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return gen.ParseDocument(filepath.Base(path), string(data))
}

// Documents reads and parses operation documents. Each argument may be a
// literal path or a glob pattern; patterns matching nothing are an error, so
// a typo never silently generates an empty package.
func Documents(patterns ...string) ([]*gen.Document, error) {
	var docs []*gen.Document
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad document pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// A non-pattern path reports the underlying read error instead.
			if !strings.ContainsAny(pattern, "*?[") {
				doc, err := Document(pattern)
				if err != nil {
					return nil, err
				}
				docs = append(docs, doc)
				continue
			}
			return nil, fmt.Errorf("document pattern %s matched no files", pattern)
		}
		for _, match := range matches {
			doc, err := Document(match)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
