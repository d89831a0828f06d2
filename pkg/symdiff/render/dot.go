package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// WriteDOT writes the tree as a Graphviz digraph of record-shaped nodes.
//
// Each record shows the node id, kind and payload, plus left and right ports.
// Left edges are red and right edges green. An edge whose child links back to
// its parent is drawn with dir=both; a child whose parent link disagrees gets
// a separate back-edge so broken links are visible.
func WriteDOT(w io.Writer, t *tree.Tree) error {
	bw := bufio.NewWriter(w)
	d := &dotWriter{w: bw, t: t}

	fmt.Fprint(bw, "digraph Tree {\n")
	fmt.Fprint(bw, "\trankdir=TB;\n")
	fmt.Fprint(bw, "\tnode [shape=record, style=filled, fillcolor=lightblue];\n")
	fmt.Fprint(bw, "\tedge [fontsize=10, color=black];\n\n")

	if root := t.Root(); root != tree.Nil {
		if _, err := d.node(root); err != nil {
			return err
		}
	}

	fmt.Fprint(bw, "}\n")
	return bw.Flush()
}

type dotWriter struct {
	w     *bufio.Writer
	t     *tree.Tree
	count int
}

// node writes the subtree post-order and returns the DOT name of id.
func (d *dotWriter) node(id tree.NodeID) (string, error) {
	t := d.t
	var left, right string
	if l := t.Left(id); l != tree.Nil {
		name, err := d.node(l)
		if err != nil {
			return "", err
		}
		left = name
	}
	if r := t.Right(id); r != tree.Nil {
		name, err := d.node(r)
		if err != nil {
			return "", err
		}
		right = name
	}

	d.count++
	name := fmt.Sprintf("node%d", d.count)

	var payload string
	switch t.Kind(id) {
	case tree.KindNumber:
		payload = formatNumber(t.Value(id))
	case tree.KindVariable:
		payload = t.Name(id)
	case tree.KindOperation:
		payload = t.Op(id).String()
	default:
		return "", fmt.Errorf("dot node %d: %w", id, tree.ErrInvalidNode)
	}

	fmt.Fprintf(d.w, "\t%s [label=\"{{<f0> %d | <f1> %s | <f2> %s} | {<f3> left: %s | <f4> right: %s}}\"];\n",
		name, id, t.Kind(id), escapeRecord(payload), idLabel(t.Left(id)), idLabel(t.Right(id)))

	d.edge(name, left, "f3", "red", t.Left(id), id)
	d.edge(name, right, "f4", "green", t.Right(id), id)
	return name, nil
}

func (d *dotWriter) edge(from, to, port, color string, child, parent tree.NodeID) {
	if to == "" {
		return
	}
	if d.t.Parent(child) == parent {
		fmt.Fprintf(d.w, "\t%s:%s -> %s [color=%s, dir=both, arrowhead=normal];\n", from, port, to, color)
		return
	}
	fmt.Fprintf(d.w, "\t%s:%s -> %s [color=%s, arrowhead=normal];\n", from, port, to, color)
	fmt.Fprintf(d.w, "\t%s -> %s:%s [color=%s, arrowhead=normal];\n", to, from, port, color)
}

func idLabel(id tree.NodeID) string {
	if id == tree.Nil {
		return "nil"
	}
	return fmt.Sprint(int32(id))
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

// escapeRecord escapes characters with meaning inside a record label.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
