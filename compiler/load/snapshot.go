package load

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/gqlbind/compiler/gen"
)

// snapshotVersion is bumped whenever the snapshot layout or the schema model
// changes shape, invalidating all existing snapshots.
const snapshotVersion = 1

// Snapshot is an ingested schema cached on disk, keyed by a hash of the raw
// schema source so edits to the schema file invalidate it.
type Snapshot struct {
	Version    int         `msgpack:"version"`
	SourceHash string      `msgpack:"source_hash"`
	Schema     *gen.Schema `msgpack:"schema"`
}

func sourceHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// WriteSnapshot persists an ingested schema next to its source hash.
func WriteSnapshot(path string, source []byte, s *gen.Schema) error {
	snap := &Snapshot{
		Version:    snapshotVersion,
		SourceHash: sourceHash(source),
		Schema:     s,
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode schema snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schema snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a cached schema if it exists and still matches the
// given source. A missing, stale, or undecodable snapshot reports ok=false
// with no error: the caller falls back to a fresh ingestion.
func ReadSnapshot(path string, source []byte) (s *gen.Schema, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read schema snapshot: %w", err)
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, false, nil
	}
	if snap.Version != snapshotVersion || snap.Schema == nil {
		return nil, false, nil
	}
	if snap.SourceHash != sourceHash(source) {
		return nil, false, nil
	}
	return snap.Schema, true, nil
}

// SchemaCached ingests a schema through the snapshot cache: a valid snapshot
// short-circuits parsing, and a fresh ingestion refreshes it.
func SchemaCached(schemaPath, snapshotPath string) (*gen.Schema, error) {
	source, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", schemaPath, err)
	}
	if s, ok, err := ReadSnapshot(snapshotPath, source); err != nil {
		return nil, err
	} else if ok {
		return s, nil
	}

	var s *gen.Schema
	if strings.EqualFold(filepath.Ext(schemaPath), ".json") {
		s, err = gen.SchemaFromIntrospection(source)
	} else {
		s, err = gen.SchemaFromSDL(filepath.Base(schemaPath), string(source))
	}
	if err != nil {
		return nil, err
	}
	if err := WriteSnapshot(snapshotPath, source, s); err != nil {
		return nil, err
	}
	return s, nil
}
