// Package gen turns a GraphQL schema and a set of operation documents into
// strongly-typed Go request/response bindings.
//
// The package is the pure core of the generator: it holds the in-memory
// schema model, maps GraphQL type references onto Go types, emits input
// object structs, variables types and response trees with jennifer, and
// assembles one emission unit per operation. File loading lives in
// compiler/load and selection resolution in compiler/resolve.
package gen
