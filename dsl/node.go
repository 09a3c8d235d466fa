package dsl

// Node is the interface implemented by all filter tree nodes.
// Use type switches to walk the tree when combining conditions.
type Node interface {
	// String renders the subtree in a canonical parenthesized form,
	// mainly for logging and tests.
	String() string

	// nodeMarker is a marker method to prevent external implementation.
	nodeMarker()
}

// Leaf references a named filter from the originating request.
type Leaf struct {
	// Name is the filter identifier as written in the expression.
	Name string

	// Pos is the byte offset of the identifier in the expression.
	Pos int
}

func (l *Leaf) String() string { return l.Name }
func (l *Leaf) nodeMarker()    {}

// And combines two subtrees with logical conjunction.
type And struct {
	Left  Node
	Right Node
}

func (a *And) String() string { return "(" + a.Left.String() + " AND " + a.Right.String() + ")" }
func (a *And) nodeMarker()    {}

// Or combines two subtrees with logical disjunction.
type Or struct {
	Left  Node
	Right Node
}

func (o *Or) String() string { return "(" + o.Left.String() + " OR " + o.Right.String() + ")" }
func (o *Or) nodeMarker()    {}

// Not negates a subtree.
type Not struct {
	Operand Node
}

func (n *Not) String() string { return "NOT(" + n.Operand.String() + ")" }
func (n *Not) nodeMarker()    {}

// Names returns the distinct filter names referenced by the tree,
// in first-appearance order.
func Names(root Node) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(node Node) {
		switch n := node.(type) {
		case *Leaf:
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		case *And:
			walk(n.Left)
			walk(n.Right)
		case *Or:
			walk(n.Left)
			walk(n.Right)
		case *Not:
			walk(n.Operand)
		}
	}
	walk(root)
	return out
}
