package ir

// Constructors for common node shapes. Every constructor allocates in t and
// attaches the given detached children.

func (t *Tree) Ident(name string) NodeID {
	return t.New(Node{Kind: KindIdentifier, Name: name})
}

// Const returns a constant node. Supported payloads are int64, float64,
// string, bool and nil; plain ints are widened.
func (t *Tree) Const(v interface{}) NodeID {
	if i, ok := v.(int); ok {
		v = int64(i)
	}
	return t.New(Node{Kind: KindConstant, Value: v})
}

func (t *Tree) Member(base NodeID, name string) NodeID {
	return t.New(Node{Kind: KindMember, Name: name}, base)
}

func (t *Tree) Call(callee NodeID, args ...Arg) NodeID {
	kids := make([]NodeID, 0, len(args)+1)
	labels := make([]string, 0, len(args))
	kids = append(kids, callee)
	for _, a := range args {
		kids = append(kids, a.Expr)
		labels = append(labels, a.Label)
	}
	return t.New(Node{Kind: KindCall, Labels: labels}, kids...)
}

// MethodCall builds base.name(args...).
func (t *Tree) MethodCall(base NodeID, name string, args ...Arg) NodeID {
	return t.Call(t.Member(base, name), args...)
}

func (t *Tree) Subscript(base, index NodeID) NodeID {
	return t.New(Node{Kind: KindSubscript}, base, index)
}

func (t *Tree) Binary(op string, lhs, rhs NodeID) NodeID {
	return t.New(Node{Kind: KindBinary, Op: op}, lhs, rhs)
}

func (t *Tree) Unary(op string, operand NodeID) NodeID {
	return t.New(Node{Kind: KindUnary, Op: op}, operand)
}

func (t *Tree) Assign(op string, lhs, rhs NodeID) NodeID {
	if op == "" {
		op = "="
	}
	return t.New(Node{Kind: KindAssignment, Op: op}, lhs, rhs)
}

func (t *Tree) Parens(inner NodeID) NodeID {
	return t.New(Node{Kind: KindParens}, inner)
}

func (t *Tree) Cast(e NodeID, to TypeRef) NodeID {
	return t.New(Node{Kind: KindCast, Type: to}, e)
}

func (t *Tree) Ternary(cond, then, els NodeID) NodeID {
	return t.New(Node{Kind: KindTernary}, cond, then, els)
}

// Block builds a closure literal whose body is a compound statement.
func (t *Tree) Block(params []ParameterSignature, ret TypeRef, body NodeID) NodeID {
	return t.New(Node{Kind: KindBlockLiteral, Params: params, Return: ret}, body)
}

func (t *Tree) Compound(stmts ...NodeID) NodeID {
	return t.New(Node{Kind: KindCompound}, stmts...)
}

func (t *Tree) ExprStmt(e NodeID) NodeID {
	return t.New(Node{Kind: KindExprStmt}, e)
}

// VarDecl declares name with an optional initializer (NoNode for none).
func (t *Tree) VarDecl(name string, storage ValueStorage, init NodeID) NodeID {
	return t.New(Node{
		Kind:      KindVarDecl,
		Name:      name,
		Type:      storage.Type,
		Constant:  storage.Constant,
		Ownership: storage.Ownership,
	}, init)
}

// Return builds a return statement; value may be NoNode.
func (t *Tree) Return(value NodeID) NodeID {
	return t.New(Node{Kind: KindReturn}, value)
}

// If builds an if statement; els may be NoNode.
func (t *Tree) If(cond, then, els NodeID) NodeID {
	return t.New(Node{Kind: KindIf}, cond, then, els)
}

func (t *Tree) While(cond, body NodeID) NodeID {
	return t.New(Node{Kind: KindWhile}, cond, body)
}

func (t *Tree) Break() NodeID    { return t.New(Node{Kind: KindBreak}) }
func (t *Tree) Continue() NodeID { return t.New(Node{Kind: KindContinue}) }

// Storage returns the value storage of a VarDecl node.
func (t *Tree) Storage(id NodeID) ValueStorage {
	n := t.Node(id)
	return ValueStorage{Type: n.Type, Ownership: n.Ownership, Constant: n.Constant}
}

// Args returns the labeled arguments of a call node.
func (t *Tree) Args(call NodeID) []Arg {
	n := t.Node(call)
	if n.Kind != KindCall || len(n.children) == 0 {
		return nil
	}
	out := make([]Arg, 0, len(n.children)-1)
	for i, c := range n.children[1:] {
		label := ""
		if i < len(n.Labels) {
			label = n.Labels[i]
		}
		out = append(out, Arg{Label: label, Expr: c})
	}
	return out
}

// Callee returns the callee of a call node.
func (t *Tree) Callee(call NodeID) NodeID { return t.Child(call, 0) }

// NewBody returns a tree whose root is an empty compound statement.
func NewBody(stmts ...func(t *Tree) NodeID) *Tree {
	t := NewTree()
	root := t.Compound()
	for _, s := range stmts {
		t.Append(root, s(t))
	}
	t.SetRoot(root)
	return t
}
