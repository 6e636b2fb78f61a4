package gen

import "github.com/dave/jennifer/jen"

// GeneratedModule is one operation paired with its resolved response tree,
// ready to be lowered into a source file.
type GeneratedModule struct {
	Operation *Operation
	Response  []*ResponseField
}

// build emits the operation's complete source file: the operation name and
// query constants, the variables type, the response type tree, and the
// integration surface for the configured mode.
func (m *GeneratedModule) build(e *emitter) (*jen.File, error) {
	op := m.Operation
	f := newFile(e.cfg)

	nameConst := e.cfg.ident(goName(op.Name) + "OperationName")
	queryConst := e.cfg.ident(goName(op.Name) + "Query")

	f.Commentf("%s is the wire name of the %s %s.", nameConst, op.Name, op.Kind)
	f.Const().Id(nameConst).Op("=").Lit(op.Name)
	f.Commentf("%s is the full source text of the document defining %s.", queryConst, op.Name)
	f.Const().Id(queryConst).Op("=").Lit(op.Source)
	f.Line()

	if e.cfg.QueryFile != "" {
		genFileHook(f, e.cfg.QueryFile, e.cfg.ident(goName(op.Name)+"QuerySource"))
	}

	if err := genVariables(e, f, op); err != nil {
		return nil, err
	}
	if err := genResponse(e, f, op, m.Response); err != nil {
		return nil, err
	}

	switch e.cfg.Mode {
	case ModeEmbedded:
		m.buildEmbedded(e, f, nameConst, queryConst)
	default:
		m.buildStandalone(e, f, nameConst, queryConst)
	}
	return f, nil
}

// buildStandalone hangs BuildRequest off the variables type itself, so a
// caller constructs variables and asks them for the request.
func (m *GeneratedModule) buildStandalone(e *emitter, f *jen.File, nameConst, queryConst string) {
	op := m.Operation
	varsType := op.variablesTypeName(e.cfg)

	f.Commentf("BuildRequest assembles the %s request around the variable values.", op.Name)
	f.Func().Params(jen.Id("v").Id(varsType)).Id("BuildRequest").Params().
		Op("*").Qual(runtimePkg, "Request").Block(
		jen.Return(jen.Op("&").Qual(runtimePkg, "Request").Values(jen.Dict{
			jen.Id("OperationName"): jen.Id(nameConst),
			jen.Id("Query"):         jen.Id(queryConst),
			jen.Id("Variables"):     jen.Id("v"),
		})),
	)
	f.Var().Id("_").Qual(runtimePkg, "Requester").Op("=").Id(varsType).Values()
}

// buildEmbedded hangs BuildRequest off the caller-owned host type named in
// the configuration, taking the variables as a parameter. The interface
// assertion pins both associated types at compile time.
func (m *GeneratedModule) buildEmbedded(e *emitter, f *jen.File, nameConst, queryConst string) {
	op := m.Operation
	varsType := op.variablesTypeName(e.cfg)
	respType := op.responseTypeName(e.cfg)
	host := e.cfg.StructName

	f.Commentf("BuildRequest assembles the %s request for the %s binding.", op.Name, host)
	f.Func().Params(jen.Id(host)).Id("BuildRequest").Params(jen.Id("v").Id(varsType)).
		Op("*").Qual(runtimePkg, "Request").Block(
		jen.Return(jen.Op("&").Qual(runtimePkg, "Request").Values(jen.Dict{
			jen.Id("OperationName"): jen.Id(nameConst),
			jen.Id("Query"):         jen.Id(queryConst),
			jen.Id("Variables"):     jen.Id("v"),
		})),
	)
	f.Var().Id("_").Qual(runtimePkg, "Operation").
		Index(jen.List(jen.Id(varsType), jen.Id(respType))).Op("=").Id(host).Values()
}
