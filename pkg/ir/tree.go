package ir

import "strconv"

// Tree is an arena of nodes forming one body: a function or method body, an
// accessor, or a variable initializer. Nodes are addressed by NodeID; the
// parent relation is a plain id, never an owning handle, so detaching and
// reattaching nodes cannot leave dangling owners.
type Tree struct {
	nodes []*Node
	root  NodeID
	ann   annotations
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{ann: newAnnotations()}
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot installs a detached node as the root of the tree. The previous root
// becomes detached.
func (t *Tree) SetRoot(id NodeID) {
	n := t.Node(id)
	if n.parent != NoNode {
		fault("SetRoot", id, "node is owned by %d", n.parent)
	}
	t.root = id
}

// Len returns the number of nodes ever allocated in the arena, attached or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the payload of a node. Invalid ids raise a Fault.
func (t *Tree) Node(id NodeID) *Node {
	if id == NoNode || int(id) > len(t.nodes) {
		fault("Node", id, "no such node")
	}
	return t.nodes[id-1]
}

// Kind returns the kind of a node.
func (t *Tree) Kind(id NodeID) Kind { return t.Node(id).Kind }

// Parent returns the node owning id, or NoNode for roots and detached nodes.
func (t *Tree) Parent(id NodeID) NodeID { return t.Node(id).parent }

// Children returns a copy of the child list of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of children of id.
func (t *Tree) NumChildren(id NodeID) int { return len(t.Node(id).children) }

// Child returns the i-th child of id, or NoNode when out of range.
func (t *Tree) Child(id NodeID, i int) NodeID {
	n := t.Node(id)
	if i < 0 || i >= len(n.children) {
		return NoNode
	}
	return n.children[i]
}

// IndexOf returns the position of id in its parent's child list, or -1.
func (t *Tree) IndexOf(id NodeID) int {
	p := t.Node(id).parent
	if p == NoNode {
		return -1
	}
	for i, c := range t.Node(p).children {
		if c == id {
			return i
		}
	}
	fault("IndexOf", id, "parent %d does not list node as child", p)
	return -1
}

// IsAttached reports whether id is the root or reachable from its parent.
func (t *Tree) IsAttached(id NodeID) bool {
	return id == t.root || t.Node(id).parent != NoNode
}

// New allocates a node with the given payload and attaches the given detached
// children to it, in order.
func (t *Tree) New(n Node, children ...NodeID) NodeID {
	node := n
	node.id = NodeID(len(t.nodes) + 1)
	node.parent = NoNode
	node.children = nil
	node.Labels = nil
	t.nodes = append(t.nodes, &node)
	for _, c := range children {
		if c == NoNode {
			continue
		}
		t.Append(node.id, c)
	}
	if node.Kind == KindCall {
		node.Labels = fitLabels(n.Labels, len(node.children)-1)
	}
	return node.id
}

// Append attaches a detached child at the end of parent's child list.
func (t *Tree) Append(parent, child NodeID) {
	t.Insert(parent, t.NumChildren(parent), child)
}

// Insert attaches a detached child at position i of parent's child list.
func (t *Tree) Insert(parent NodeID, i int, child NodeID) {
	p := t.Node(parent)
	c := t.Node(child)
	if c.parent != NoNode {
		fault("Insert", child, "node is already owned by %d", c.parent)
	}
	if child == t.root {
		fault("Insert", child, "cannot attach the tree root")
	}
	if child == parent || t.isAncestor(child, parent) {
		fault("Insert", child, "attaching under %d would create a cycle", parent)
	}
	if i < 0 || i > len(p.children) {
		fault("Insert", parent, "index %d out of range [0,%d]", i, len(p.children))
	}
	if p.Kind == KindCall {
		slots := labelSlots(p)
		slots = append(slots, "")
		copy(slots[i+1:], slots[i:])
		slots[i] = ""
		p.Labels = argLabels(slots)
	}
	p.children = append(p.children, NoNode)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = child
	c.parent = parent
}

// Detach removes id from its parent, clearing the back-reference in the same
// step. Detaching the root empties the tree. Detaching a detached node is a
// no-op. Detaching a call's callee promotes the first argument to callee and
// drops its label.
func (t *Tree) Detach(id NodeID) {
	n := t.Node(id)
	if id == t.root {
		t.root = NoNode
		return
	}
	if n.parent == NoNode {
		return
	}
	i := t.IndexOf(id)
	p := t.Node(n.parent)
	if p.Kind == KindCall {
		slots := labelSlots(p)
		slots = append(slots[:i], slots[i+1:]...)
		p.Labels = argLabels(slots)
	}
	p.children = append(p.children[:i], p.children[i+1:]...)
	n.parent = NoNode
}

// Take detaches id and returns it, for use when moving a node under a new
// parent.
func (t *Tree) Take(id NodeID) NodeID {
	t.Detach(id)
	return id
}

// Replace puts the detached node repl in old's position and detaches old.
// Call argument labels stay attached to the slot.
func (t *Tree) Replace(old, repl NodeID) {
	if old == repl {
		return
	}
	r := t.Node(repl)
	if r.parent != NoNode || repl == t.root {
		fault("Replace", repl, "replacement is already attached")
	}
	if t.isAncestor(repl, old) {
		fault("Replace", repl, "replacement contains the node it replaces")
	}
	o := t.Node(old)
	if old == t.root {
		t.root = repl
		return
	}
	if o.parent == NoNode {
		fault("Replace", old, "node is not attached")
	}
	i := t.IndexOf(old)
	p := t.Node(o.parent)
	p.children[i] = repl
	r.parent = o.parent
	o.parent = NoNode
}

// isAncestor reports whether a is a proper ancestor of id.
func (t *Tree) isAncestor(a, id NodeID) bool {
	for p := t.Node(id).parent; p != NoNode; p = t.Node(p).parent {
		if p == a {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if id == NoNode {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// Clone deep-copies the subtree at id into a new detached subtree of the same
// tree, including annotations.
func (t *Tree) Clone(id NodeID) NodeID {
	src := t.Node(id)
	payload := *src
	payload.Labels = append([]string(nil), src.Labels...)
	payload.Params = append([]ParameterSignature(nil), src.Params...)
	var kids []NodeID
	for _, c := range src.children {
		kids = append(kids, t.Clone(c))
	}
	cp := t.New(payload, kids...)
	t.ann.copyNode(id, cp)
	return cp
}

// Copy returns an independent copy of the whole arena with identical ids and
// annotations.
func (t *Tree) Copy() *Tree {
	cp := &Tree{root: t.root, ann: t.ann.clone()}
	cp.nodes = make([]*Node, len(t.nodes))
	for i, n := range t.nodes {
		nn := *n
		nn.children = append([]NodeID(nil), n.children...)
		nn.Labels = append([]string(nil), n.Labels...)
		nn.Params = append([]ParameterSignature(nil), n.Params...)
		cp.nodes[i] = &nn
	}
	return cp
}

// Validate checks that every parent reference agrees with actual containment
// and that call labels are parallel to arguments.
func (t *Tree) Validate() error {
	seen := make(map[NodeID]NodeID, len(t.nodes))
	for _, n := range t.nodes {
		for _, c := range n.children {
			if int(c) > len(t.nodes) || c == NoNode {
				return &Fault{Op: "Validate", Node: n.id, Detail: "child id out of range"}
			}
			if prev, dup := seen[c]; dup {
				return &Fault{Op: "Validate", Node: c, Detail: "node listed under both " + itoa(prev) + " and " + itoa(n.id)}
			}
			seen[c] = n.id
			if got := t.nodes[c-1].parent; got != n.id {
				return &Fault{Op: "Validate", Node: c, Detail: "back-reference " + itoa(got) + " disagrees with owner " + itoa(n.id)}
			}
		}
		if n.Kind == KindCall && len(n.children) > 0 && len(n.Labels) != len(n.children)-1 {
			return &Fault{Op: "Validate", Node: n.id, Detail: "call labels are not parallel to arguments"}
		}
	}
	for _, n := range t.nodes {
		if n.parent != NoNode {
			if owner, ok := seen[n.id]; !ok || owner != n.parent {
				return &Fault{Op: "Validate", Node: n.id, Detail: "back-reference to " + itoa(n.parent) + " without containment"}
			}
		}
	}
	if t.root != NoNode && t.Node(t.root).parent != NoNode {
		return &Fault{Op: "Validate", Node: t.root, Detail: "root has a parent"}
	}
	return nil
}

// fitLabels pads or truncates labels to exactly n entries.
func fitLabels(labels []string, n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, labels)
	return out
}

// labelSlots returns one label per child of a call, the callee's always
// empty, so insertions and removals can shift labels with their children.
func labelSlots(p *Node) []string {
	if len(p.children) == 0 {
		return nil
	}
	return append([]string{""}, fitLabels(p.Labels, len(p.children)-1)...)
}

// argLabels drops the callee slot.
func argLabels(slots []string) []string {
	if len(slots) <= 1 {
		return nil
	}
	return slots[1:]
}

func itoa(id NodeID) string { return strconv.FormatUint(uint64(id), 10) }

// Restore overwrites t with the contents of snap, typically a Copy taken
// before a step that failed.
func (t *Tree) Restore(snap *Tree) {
	*t = *snap.Copy()
}
