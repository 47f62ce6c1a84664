package rewrite

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// send is a decoded method call: base.name(args...).
type send struct {
	call ir.NodeID
	base ir.NodeID
	name string
	args []ir.Arg
}

// asSend decodes id as a call whose callee is a member access.
func asSend(t *ir.Tree, id ir.NodeID) (send, bool) {
	if t.Kind(id) != ir.KindCall {
		return send{}, false
	}
	callee := t.Callee(id)
	if callee == ir.NoNode || t.Kind(callee) != ir.KindMember {
		return send{}, false
	}
	return send{
		call: id,
		base: t.Child(callee, 0),
		name: t.Node(callee).Name,
		args: t.Args(id),
	}, true
}

func isIdent(t *ir.Tree, id ir.NodeID, name string) bool {
	return id != ir.NoNode && t.Kind(id) == ir.KindIdentifier && t.Node(id).Name == name
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// takeArgs detaches the argument expressions of a send so they can be reused
// under a replacement node.
func takeArgs(t *ir.Tree, args []ir.Arg) []ir.Arg {
	out := make([]ir.Arg, len(args))
	for i, a := range args {
		out[i] = ir.Arg{Label: a.Label, Expr: t.Take(a.Expr)}
	}
	return out
}

// selectorLabel turns the remainder of a selector piece into a label:
// "initWithFrame" with prefix "initWith" gives "frame".
func selectorLabel(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	if !isCapitalized(rest) {
		return "", false
	}
	return lowerFirst(rest), true
}
