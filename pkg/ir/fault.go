package ir

import "fmt"

// Fault reports a violated structural invariant, such as attaching a node that
// already has a parent. A fault always indicates a bug in the code mutating the
// tree, never malformed input, so mutation APIs raise it with panic and the
// driver recovers it at the boundary of the translation step.
type Fault struct {
	Op     string // mutation or check that detected the fault
	Node   NodeID
	Detail string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("ir: %s: node %d: %s", f.Op, f.Node, f.Detail)
}

func fault(op string, id NodeID, format string, args ...interface{}) {
	panic(&Fault{Op: op, Node: id, Detail: fmt.Sprintf(format, args...)})
}

// Recover converts a recovered panic value into a Fault. Values that are not
// faults are re-panicked.
func Recover(r interface{}) *Fault {
	if r == nil {
		return nil
	}
	if f, ok := r.(*Fault); ok {
		return f
	}
	panic(r)
}
