package ir

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Dump renders the subtree at id as a single-line S-expression. Annotations
// are not included, so two trees that differ only in derived facts dump
// identically.
func (t *Tree) Dump(id NodeID) string {
	if id == NoNode {
		return "()"
	}
	var b strings.Builder
	t.dump(&b, id)
	return b.String()
}

func (t *Tree) String() string { return t.Dump(t.root) }

func (t *Tree) dump(b *strings.Builder, id NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case KindIdentifier:
		b.WriteString(n.Name)
		return
	case KindConstant:
		writeConst(b, n.Value)
		return
	case KindBreak, KindContinue:
		b.WriteString(n.Kind.String())
		return
	}

	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case KindMember:
		b.WriteByte(' ')
		t.dump(b, n.children[0])
		b.WriteByte(' ')
		b.WriteString(n.Name)
		b.WriteByte(')')
		return
	case KindCall:
		for i, c := range n.children {
			b.WriteByte(' ')
			if i > 0 && n.Labels[i-1] != "" {
				b.WriteString(n.Labels[i-1])
				b.WriteString(": ")
			}
			t.dump(b, c)
		}
		b.WriteByte(')')
		return
	case KindVarDecl:
		if n.Constant {
			b.WriteString(" let")
		}
		if n.Ownership != OwnershipStrong {
			b.WriteByte(' ')
			b.WriteString(n.Ownership.String())
		}
		b.WriteByte(' ')
		b.WriteString(n.Name)
		if !n.Type.IsZero() {
			b.WriteString(": ")
			b.WriteString(n.Type.String())
		}
	case KindCast:
		b.WriteString(" as ")
		b.WriteString(n.Type.String())
	case KindBlockLiteral:
		b.WriteString(" (")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			b.WriteString(": ")
			b.WriteString(p.Type.String())
		}
		b.WriteString(")")
		if !n.Return.IsZero() {
			b.WriteString(" -> ")
			b.WriteString(n.Return.String())
		}
	}
	if n.Op != "" {
		b.WriteByte(' ')
		b.WriteString(n.Op)
	}
	for _, c := range n.children {
		b.WriteByte(' ')
		t.dump(b, c)
	}
	b.WriteByte(')')
}

func writeConst(b *strings.Builder, v interface{}) {
	switch x := v.(type) {
	case nil:
		b.WriteString("nil")
	case string:
		fmt.Fprintf(b, "%q", x)
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

// Fingerprint returns a structural hash of the attached tree. Node ids and
// annotations do not contribute.
func (t *Tree) Fingerprint() uint64 {
	if t == nil {
		return 0
	}
	return xxh3.HashString(t.Dump(t.root))
}

// EqualTrees reports whether a and b are structurally identical.
func EqualTrees(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Dump(a.root) == b.Dump(b.root)
}
