package binding

import (
	"fmt"
	"strings"

	"kbind/internal/diag"
	"kbind/internal/directive"
	"kbind/internal/dom"
)

// Built-in directive names besides the late-compile ones.
const (
	NameHTML  = "html"
	NameShow  = "show"
	NameBind  = "bind"
	NameOn    = "on"
	NameModel = "model"
	NameClass = "class"
)

// Builtins lists every directive NewRegistry registers, sorted.
var Builtins = []string{
	NameBind, NameClass, directive.NameFor, NameHTML, directive.NameIf,
	NameModel, NameOn, directive.NamePre, NameShow, directive.NameText,
}

// NewRegistry returns a registry with the built-in directives and custom
// names recorded as plain bindings.
func NewRegistry(custom ...string) (*directive.Registry[*View], error) {
	reg := directive.NewRegistry(recorder(directive.NameText))
	builtins := map[string]directive.Factory[*View]{
		NameHTML:          recorder(NameHTML),
		NameShow:          requireExpr(NameShow),
		NameClass:         requireExpr(NameClass),
		NameModel:         requireExpr(NameModel),
		NameBind:          requireParam(NameBind, "attribute"),
		NameOn:            requireParam(NameOn, "event"),
		directive.NameIf:  ifDirective,
		directive.NameFor: forDirective,
		directive.NamePre: recorder(directive.NamePre),
	}
	for name, f := range builtins {
		if err := reg.Register(name, f); err != nil {
			return nil, err
		}
	}
	for _, name := range custom {
		name = strings.TrimPrefix(strings.TrimSpace(name), directive.Prefix)
		if name == "" {
			return nil, fmt.Errorf("custom directive: empty name")
		}
		if reg.Has(name) {
			continue
		}
		if err := reg.Register(name, recorder(name)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func recorder(name string) directive.Factory[*View] {
	return func(v *View, node dom.NodeID, scope directive.Scope, expr string, params []string) {
		v.record(name, node, scope, expr, params)
	}
}

func requireExpr(name string) directive.Factory[*View] {
	return func(v *View, node dom.NodeID, scope directive.Scope, expr string, params []string) {
		if strings.TrimSpace(expr) == "" {
			diag.ReportWarning(v.rep, diag.DirectiveEmptyExpression, v.attrSpan(node, name),
				fmt.Sprintf("k-%s has an empty expression", name)).Emit()
		}
		v.record(name, node, scope, expr, params)
	}
}

func requireParam(name, what string) directive.Factory[*View] {
	return func(v *View, node dom.NodeID, scope directive.Scope, expr string, params []string) {
		if len(params) == 0 || params[0] == "" {
			diag.ReportError(v.rep, diag.DirectiveMissingParam, v.attrSpan(node, name),
				fmt.Sprintf("k-%s needs an %s: k-%s:<%s>", name, what, name, what)).Emit()
			return
		}
		v.record(name, node, scope, expr, params)
	}
}

func ifDirective(v *View, node dom.NodeID, scope directive.Scope, expr string, params []string) {
	if strings.TrimSpace(expr) == "" {
		diag.ReportWarning(v.rep, diag.DirectiveEmptyExpression, v.attrSpan(node, directive.NameIf),
			"k-if has an empty condition").Emit()
	}
	v.record(directive.NameIf, node, scope, expr, params)
	v.compileTemplate(node, scope)
}

func forDirective(v *View, node dom.NodeID, scope directive.Scope, expr string, params []string) {
	alias, index, src, err := ParseFor(expr)
	if err != nil {
		diag.ReportError(v.rep, diag.DirectiveBadFor, v.attrSpan(node, directive.NameFor), err.Error()).Emit()
		return
	}
	v.record(directive.NameFor, node, scope, expr, params)
	v.compileTemplate(node, &ForScope{Alias: alias, Index: index, Source: src, Parent: scope})
}
