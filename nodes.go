package calc

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after parsing.
type node struct {
	kind nodeKind

	num  decimal.Decimal
	name string

	op     Operator
	prefix Prefix
	suffix Suffix

	left  *node
	right *node
	args  []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum    // num
	nodeName   // lookup(name)
	nodeCall   // name is the function to call with args
	nodeBinary // left op right
	nodePrefix // prefix left
	nodeSuffix // left suffix
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeCall:
		return "Call"
	case nodeBinary:
		return "Binary"
	case nodePrefix:
		return "Prefix"
	case nodeSuffix:
		return "Suffix"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node as an s-expression: (op operands...).
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(n.num.String())
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteByte('(')
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteString("))")
	case nodeBinary:
		b.WriteByte('(')
		b.WriteString(n.op.String())
		b.WriteByte(' ')
		n.left.fmt(b)
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	case nodePrefix:
		b.WriteByte('(')
		b.WriteString(n.prefix.String())
		b.WriteByte(' ')
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeSuffix:
		b.WriteByte('(')
		b.WriteString(n.suffix.String())
		b.WriteByte(' ')
		n.left.fmt(b)
		b.WriteByte(')')
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// names adds the names of all variables referenced in the tree to m.
func (n *node) names(m map[string]bool) {
	switch n.kind {
	case nodeName:
		m[n.name] = true
	case nodeCall:
		for _, a := range n.args {
			a.names(m)
		}
	case nodeBinary:
		n.left.names(m)
		n.right.names(m)
	case nodePrefix, nodeSuffix:
		n.left.names(m)
	}
}
