package gen

import "github.com/dave/jennifer/jen"

// genEnum emits a named string type plus one constant per value. The string
// underlying type keeps unknown server-side values round-trippable.
func genEnum(e *emitter, f *jen.File, enum *Enum) error {
	typeName := e.cfg.ident(goName(enum.Name))
	if enum.Description != "" {
		f.Comment(enum.Description)
	} else {
		f.Commentf("%s corresponds to the %s enum of the schema.", typeName, enum.Name)
	}
	f.Type().Id(typeName).String()
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range enum.Values {
			if v.Deprecation != nil {
				reason := v.Deprecation.Reason
				if reason == "" {
					reason = "deprecated in the schema"
				}
				g.Comment("Deprecated: " + reason)
			}
			g.Id(e.cfg.ident(enumValueName(goName(enum.Name), v.Name))).Id(typeName).Op("=").Lit(v.Name)
		}
	})
	f.Line()
	return nil
}
