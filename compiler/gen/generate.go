package gen

import (
	"runtime"
	"sync"

	"github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/sync/errgroup"
)

// runtimePkg is the import path of the runtime support package referenced by
// generated code.
const runtimePkg = "github.com/syssam/gqlbind"

// Document is one parsed operation document together with its exact source
// text. The text is emitted byte-for-byte into every operation compiled from
// the document.
type Document struct {
	Name   string
	Source string
	AST    *ast.QueryDocument
}

// ParseDocument parses a GraphQL operation document. The name is used in
// error messages only.
func ParseDocument(name, source string) (*Document, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, NewIngestionError(name, "invalid operation document", err)
	}
	return &Document{Name: name, Source: source, AST: doc}, nil
}

// Warning is a non-fatal diagnostic produced under the warn deprecation
// strategy.
type Warning struct {
	Operation string
	Field     string
	Reason    string
}

// SourceFile is one emitted file, still in jennifer form. The writer lowers
// it to formatted Go source.
type SourceFile struct {
	Name string
	File *jen.File
}

// Result is the outcome of one generation run.
type Result struct {
	Files    []*SourceFile
	Warnings []Warning
}

// SelectionResolver produces the resolved response tree for one operation.
// compiler/resolve provides the default implementation; the indirection
// keeps field aliasing and fragment merging out of the emission core.
type SelectionResolver interface {
	Resolve(s *Schema, op *Operation) ([]*ResponseField, error)
}

// genContext is the state shared by all emitters in one generation run.
// It is read-mostly; the recursion memo is guarded so operations can be
// emitted in parallel.
type genContext struct {
	schema *Schema
	cfg    *Config

	recMu     sync.Mutex
	recursive map[string]bool
}

func newGenContext(s *Schema, cfg *Config) *genContext {
	return &genContext{
		schema:    s,
		cfg:       cfg,
		recursive: make(map[string]bool),
	}
}

// namedType maps a leaf type name onto a Go type expression: built-in
// scalars through the translation table, custom scalars through the
// configured bindings (defaulting to json.RawMessage), enums and input
// objects onto their generated type names.
func (cx *genContext) namedType(name string) (jen.Code, error) {
	switch name {
	case "Int":
		return jen.Int64(), nil
	case "Float":
		return jen.Float64(), nil
	case "Boolean":
		return jen.Bool(), nil
	case "String", "ID":
		return jen.String(), nil
	}
	if binding, ok := cx.cfg.Scalars[name]; ok {
		return scalarGoType(binding), nil
	}
	if _, ok := cx.schema.Scalars[name]; ok {
		return jen.Qual("encoding/json", "RawMessage"), nil
	}
	if _, ok := cx.schema.Enums[name]; ok {
		return jen.Id(cx.cfg.ident(goName(name))), nil
	}
	if _, ok := cx.schema.Inputs[name]; ok {
		return jen.Id(cx.cfg.ident(goName(name))), nil
	}
	return nil, NewResolutionError("", "", name, "type not found in schema")
}

// recursiveInput reports whether the named input object reaches itself
// through non-indirected input-object fields only. Results are memoized per
// type name; the traversal carries a visited set so genuinely cyclic schemas
// terminate.
func (cx *genContext) recursiveInput(name string) bool {
	cx.recMu.Lock()
	defer cx.recMu.Unlock()
	if v, ok := cx.recursive[name]; ok {
		return v
	}
	in := cx.schema.Inputs[name]
	v := in != nil && reachesWithoutIndirection(cx.schema, in, name, make(map[string]bool))
	cx.recursive[name] = v
	return v
}

func reachesWithoutIndirection(s *Schema, in *Input, target string, visited map[string]bool) bool {
	if visited[in.Name] {
		return false
	}
	visited[in.Name] = true
	for _, f := range in.Fields {
		// A list, or an optional wrapping a list, already provides the
		// indirection needed to break the cycle.
		if f.Type.Indirected() {
			continue
		}
		inner := f.Type.InnerName()
		if inner == target {
			return true
		}
		// Only input objects participate: object, enum, and scalar fields
		// cannot form record-type cycles here.
		if next := s.Inputs[inner]; next != nil && reachesWithoutIndirection(s, next, target, visited) {
			return true
		}
	}
	return false
}

// emitter is the per-emission-unit context: it carries the warnings produced
// while emitting one operation (or the shared types file), keeping warning
// order deterministic under parallel emission.
type emitter struct {
	*genContext
	op       *Operation // nil for the shared types file
	warnings []Warning
}

func (e *emitter) opName() string {
	if e.op == nil {
		return ""
	}
	return e.op.Name
}

// checkDeprecation applies the configured deprecation strategy to a use of
// the named item. Deny fails generation; warn records a diagnostic.
func (e *emitter) checkDeprecation(item string, dep *Deprecation) error {
	if dep == nil {
		return nil
	}
	switch e.cfg.Deprecation {
	case DeprecationDeny:
		return NewPolicyError(e.opName(), item, dep.Reason)
	case DeprecationWarn:
		e.warnings = append(e.warnings, Warning{
			Operation: e.opName(),
			Field:     item,
			Reason:    dep.Reason,
		})
	}
	return nil
}

// newFile opens a jennifer file for the configured output package.
func newFile(cfg *Config) *jen.File {
	f := jen.NewFile(cfg.Package)
	if cfg.Header != "" {
		f.HeaderComment(cfg.Header)
	}
	f.HeaderComment("Code generated by gqlbind. DO NOT EDIT.")
	return f
}

// Generate compiles every operation in the documents against the schema and
// returns one emitted file per operation plus one shared types file holding
// the reachable input objects and enums.
//
// Operations are independent and are emitted in parallel; the only shared
// mutable state is the schema's monotonic reachability table, so the final
// reachable set does not depend on scheduling. Output order is fixed by
// document order, not completion order.
func Generate(s *Schema, docs []*Document, resolver SelectionResolver, cfg *Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Operation names must be unique across the whole run: each operation
	// claims one output file, and its generated identifiers share the
	// package namespace.
	var ops []*Operation
	seen := make(map[string]string)
	for _, doc := range docs {
		for _, def := range doc.AST.Operations {
			op, err := OperationFromAST(def, doc.AST.Fragments, doc.Source)
			if err != nil {
				return nil, err
			}
			if prev, ok := seen[op.Name]; ok {
				return nil, NewIngestionError(doc.Name, "operation "+op.Name+" is already defined in "+prev, nil)
			}
			seen[op.Name] = doc.Name
			ops = append(ops, op)
		}
	}
	if cfg.OperationName != "" {
		filtered := ops[:0]
		for _, op := range ops {
			if op.Name == cfg.OperationName {
				filtered = append(filtered, op)
			}
		}
		if len(filtered) == 0 {
			return nil, NewConfigError("OperationName", cfg.OperationName, "no operation with this name in the documents")
		}
		ops = filtered
	}
	// The host type gets one BuildRequest method, so embedded mode binds
	// exactly one operation. Use OperationName to pick it.
	if cfg.Mode == ModeEmbedded && len(ops) > 1 {
		return nil, NewConfigError("Mode", string(ModeEmbedded), "embedded mode binds a single operation; set OperationName to select one")
	}

	cx := newGenContext(s, cfg)
	files := make([]*SourceFile, len(ops))
	warnings := make([][]Warning, len(ops))

	eg := errgroup.Group{}
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, op := range ops {
		eg.Go(func() error {
			op.computeVariableRequirements(s)
			response, err := resolver.Resolve(s, op)
			if err != nil {
				return err
			}
			m := &GeneratedModule{Operation: op, Response: response}
			e := &emitter{genContext: cx, op: op}
			f, err := m.build(e)
			if err != nil {
				return err
			}
			files[i] = &SourceFile{Name: operationFileName(op), File: f}
			warnings[i] = e.warnings
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// The shared types file is emitted after all operations have propagated
	// their reachability marks, so it holds exactly the transitive closure.
	te := &emitter{genContext: cx}
	typesFile, err := genTypesFile(te)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, f := range files {
		result.Files = append(result.Files, f)
		result.Warnings = append(result.Warnings, warnings[i]...)
	}
	if typesFile != nil {
		result.Files = append(result.Files, &SourceFile{Name: typesFileName(result.Files), File: typesFile})
		result.Warnings = append(result.Warnings, te.warnings...)
	}
	return result, nil
}

// genTypesFile emits the shared definitions reachable from the compiled
// operations: enums first, then input objects, each sorted by name.
// Returns nil when nothing is reachable.
func genTypesFile(e *emitter) (*jen.File, error) {
	enums := e.schema.RequiredEnums()
	inputs := e.schema.RequiredInputs()
	if len(enums) == 0 && len(inputs) == 0 && e.cfg.SchemaFile == "" {
		return nil, nil
	}
	f := newFile(e.cfg)
	if e.cfg.SchemaFile != "" {
		genFileHook(f, e.cfg.SchemaFile, e.cfg.ident("SchemaSource"))
	}
	for _, enum := range enums {
		if err := genEnum(e, f, enum); err != nil {
			return nil, err
		}
	}
	for _, in := range inputs {
		if err := genInput(e, f, in); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// genFileHook embeds a physical source file into the generated package so
// the build cache is invalidated when that file changes. The path is
// emitted verbatim; the generator never reads it.
func genFileHook(f *jen.File, path, varName string) {
	f.Anon("embed")
	f.Comment("//go:embed " + path)
	f.Var().Id(varName).String()
	f.Line()
}
