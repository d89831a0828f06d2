package render_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/symdiff/pkg/symdiff/render"
	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

func mustParse(t *testing.T, src string) *tree.Tree {
	t.Helper()
	tr, err := sexpr.Parse(src)
	require.NoError(t, err)
	return tr
}

func TestLaTeX(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"number", `("2.5" nil nil)`, `2.5`},
		{"variable", `("x" nil nil)`, `x`},
		{"sum", `("+" ("x" nil nil) ("1" nil nil))`, `x+1`},
		{"difference", `("-" ("x" nil nil) ("1" nil nil))`, `x-1`},
		{"product", `("*" ("x" nil nil) ("y" nil nil))`, `x \cdot y`},
		{"sum as factor", `("*" ("+" ("x" nil nil) ("1" nil nil)) ("y" nil nil))`, `(x+1) \cdot y`},
		{"subtrahend sum", `("-" ("x" nil nil) ("+" ("y" nil nil) ("1" nil nil)))`, `x-(y+1)`},
		{"minuend sum", `("-" ("+" ("y" nil nil) ("1" nil nil)) ("x" nil nil))`, `y+1-x`},
		{"fraction", `("/" ("x" nil nil) ("2" nil nil))`, `\frac{x}{2}`},
		{"fraction of sums", `("/" ("+" ("x" nil nil) ("1" nil nil)) ("-" ("x" nil nil) ("1" nil nil)))`, `\frac{x+1}{x-1}`},
		{"power", `("^" ("x" nil nil) ("2" nil nil))`, `{x}^{2}`},
		{"power of sum", `("^" ("+" ("x" nil nil) ("1" nil nil)) ("2" nil nil))`, `{(x+1)}^{2}`},
		{"power of negative", `("^" ("-2" nil nil) ("x" nil nil))`, `{(-2)}^{x}`},
		{"exponent sum", `("^" ("e" nil nil) ("+" ("x" nil nil) ("1" nil nil)))`, `{e}^{x+1}`},
		{"sqrt", `("sqrt" nil ("x" nil nil))`, `\sqrt{x}`},
		{"ln", `("ln" nil ("x" nil nil))`, `\ln{(x)}`},
		{"log", `("log" ("2" nil nil) ("x" nil nil))`, `\log_{2}{(x)}`},
		{"sin", `("sin" nil ("x" nil nil))`, `\sin{(x)}`},
		{"acot", `("acot" nil ("x" nil nil))`, `\operatorname{arccot}{(x)}`},
		{"chain result", `("*" ("cos" nil ("*" ("2" nil nil) ("x" nil nil))) ("2" nil nil))`, `\cos{(2 \cdot x)} \cdot 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustParse(t, tt.src)
			got, err := render.LaTeX(tr, tr.Root())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLaTeXInvalidNode(t *testing.T) {
	_, err := render.LaTeX(tree.New(), tree.Nil)
	assert.ErrorIs(t, err, tree.ErrInvalidNode)
}

func TestWriteDOT(t *testing.T) {
	tr := mustParse(t, `("+" ("x" nil nil) ("1" nil nil))`)

	var buf bytes.Buffer
	require.NoError(t, render.WriteDOT(&buf, tr))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph Tree {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "node [shape=record, style=filled, fillcolor=lightblue];")

	// Nodes are numbered post-order.
	x := tr.Left(tr.Root())
	assert.Contains(t, out, `node1 [label="{{<f0> `+itoa(x)+` | <f1> variable | <f2> x} | {<f3> left: nil | <f4> right: nil}}"];`)
	assert.Contains(t, out, `<f1> number | <f2> 1}`)
	assert.Contains(t, out, `node3 [label="{{<f0> `+itoa(tr.Root())+` | <f1> operation | <f2> +}`)

	assert.Contains(t, out, "node3:f3 -> node1 [color=red, dir=both, arrowhead=normal];")
	assert.Contains(t, out, "node3:f4 -> node2 [color=green, dir=both, arrowhead=normal];")
}

func TestWriteDOTUnary(t *testing.T) {
	tr := mustParse(t, `("sin" nil ("x" nil nil))`)

	var buf bytes.Buffer
	require.NoError(t, render.WriteDOT(&buf, tr))
	out := buf.String()

	assert.Contains(t, out, "node2:f4 -> node1 [color=green, dir=both, arrowhead=normal];")
	assert.NotContains(t, out, "color=red, dir")
}

func TestWriteDOTEscapesLabels(t *testing.T) {
	tr := tree.New()
	v, err := tr.Variable("{a|b}")
	require.NoError(t, err)
	require.NoError(t, tr.SetRoot(v))

	var buf bytes.Buffer
	require.NoError(t, render.WriteDOT(&buf, tr))
	assert.Contains(t, buf.String(), `<f2> \{a\|b\}}`)
}

func TestWriteDOTEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteDOT(&buf, tree.New()))
	assert.NotContains(t, buf.String(), "node1")
}

func itoa(id tree.NodeID) string {
	return strconv.Itoa(int(id))
}
