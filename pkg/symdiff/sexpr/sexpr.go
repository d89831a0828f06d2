// Package sexpr reads and writes expression trees in their text form.
//
// Every node is a parenthesised triple: a quoted token followed by the left
// and right children, with nil for an absent child. Whitespace between
// elements is ignored.
//
//	("*" ("+" ("x" nil nil) ("1" nil nil)) ("sin" nil ("y" nil nil)))
//
// A token is an operator if it names one (see tree.LookupToken), otherwise a
// number if strconv.ParseFloat accepts it, otherwise a variable name. Unary
// operators keep their operand on the right.
package sexpr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// ErrUnrepresentable indicates a variable name the text form cannot carry:
// one containing a quote, or one that would read back as a number or operator.
var ErrUnrepresentable = errors.New("name cannot be written")

// SyntaxError reports malformed input and where it was found.
type SyntaxError struct {
	// Offset is the byte offset into the input.
	Offset int
	// Msg describes the problem.
	Msg string
	// Err is an underlying tree error, if the input parsed but built a
	// malformed node.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sexpr: offset %d: %s: %v", e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("sexpr: offset %d: %s", e.Offset, e.Msg)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse builds a tree from its text form. opts configure the new tree.
func Parse(src string, opts ...tree.Option) (*tree.Tree, error) {
	p := &parser{src: src, t: tree.New(opts...)}

	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("empty input")
	}
	root, err := p.node()
	if err != nil {
		return nil, err
	}
	if root == tree.Nil {
		return nil, &SyntaxError{Offset: 0, Msg: "root cannot be nil"}
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after expression", p.src[p.pos])
	}
	if err := p.t.SetRoot(root); err != nil {
		return nil, err
	}
	return p.t, nil
}

// Read builds a tree from the text form read from r.
func Read(r io.Reader, opts ...tree.Option) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read expression: %w", err)
	}
	return Parse(string(data), opts...)
}

type parser struct {
	src string
	pos int
	t   *tree.Tree
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		default:
			return
		}
	}
}

// node parses "nil" or a parenthesised node and returns its detached root.
func (p *parser) node() (tree.NodeID, error) {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], "nil") {
		p.pos += len("nil")
		return tree.Nil, nil
	}
	if p.pos >= len(p.src) {
		return tree.Nil, p.errorf("unexpected end of input")
	}
	if p.src[p.pos] != '(' {
		return tree.Nil, p.errorf("expected '(' or nil, found %q", p.src[p.pos])
	}
	start := p.pos
	p.pos++

	p.skipSpace()
	tok, err := p.token()
	if err != nil {
		return tree.Nil, err
	}

	left, err := p.node()
	if err != nil {
		return tree.Nil, err
	}
	right, err := p.node()
	if err != nil {
		return tree.Nil, err
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		return tree.Nil, p.errorf("expected ')' closing node at offset %d", start)
	}
	p.pos++

	return p.build(start, tok, left, right)
}

// token parses a double-quoted token. Tokens have no escapes.
func (p *parser) token() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", p.errorf("expected quoted token")
	}
	end := strings.IndexByte(p.src[p.pos+1:], '"')
	if end < 0 {
		return "", p.errorf("unterminated token")
	}
	tok := p.src[p.pos+1 : p.pos+1+end]
	if tok == "" {
		return "", p.errorf("empty token")
	}
	p.pos += end + 2
	return tok, nil
}

func (p *parser) build(offset int, tok string, left, right tree.NodeID) (tree.NodeID, error) {
	if op, ok := tree.LookupToken(tok); ok {
		id, err := p.t.Operation(op, left, right)
		if err != nil {
			if errors.Is(err, tree.ErrNodeLimit) {
				return tree.Nil, err
			}
			return tree.Nil, &SyntaxError{Offset: offset, Msg: fmt.Sprintf("operator %q", tok), Err: err}
		}
		return id, nil
	}

	if left != tree.Nil || right != tree.Nil {
		return tree.Nil, &SyntaxError{Offset: offset, Msg: fmt.Sprintf("leaf %q has children", tok), Err: tree.ErrMalformedNode}
	}
	if v, ok := parseNumber(tok); ok {
		return p.t.Number(v)
	}
	return p.t.Variable(tok)
}

// parseNumber accepts what strconv.ParseFloat accepts, including values that
// overflow to ±Inf.
func parseNumber(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return v, true
	}
	return 0, false
}

// FormatNumber renders a literal the way Write does: the shortest text that
// reads back to the same float64.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write writes the subtree rooted at id to w on a single line.
func Write(w io.Writer, t *tree.Tree, id tree.NodeID) error {
	bw := bufio.NewWriter(w)
	if err := write(bw, t, id); err != nil {
		return err
	}
	return bw.Flush()
}

// Format returns the text form of the subtree rooted at id.
func Format(t *tree.Tree, id tree.NodeID) (string, error) {
	var sb strings.Builder
	if err := write(&sb, t, id); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatTree returns the text form of the whole tree.
func FormatTree(t *tree.Tree) (string, error) {
	return Format(t, t.Root())
}

type stringWriter interface {
	WriteString(string) (int, error)
}

func write(w stringWriter, t *tree.Tree, id tree.NodeID) error {
	if id == tree.Nil {
		_, err := w.WriteString("nil")
		return err
	}

	var tok string
	switch t.Kind(id) {
	case tree.KindNumber:
		tok = FormatNumber(t.Value(id))
	case tree.KindVariable:
		name := t.Name(id)
		if err := checkName(name); err != nil {
			return err
		}
		tok = name
	case tree.KindOperation:
		tok = t.Op(id).String()
	default:
		return fmt.Errorf("write node %d: %w", id, tree.ErrInvalidNode)
	}

	if _, err := w.WriteString(`("` + tok + `" `); err != nil {
		return err
	}
	if err := write(w, t, t.Left(id)); err != nil {
		return err
	}
	if _, err := w.WriteString(" "); err != nil {
		return err
	}
	if err := write(w, t, t.Right(id)); err != nil {
		return err
	}
	_, err := w.WriteString(")")
	return err
}

func checkName(name string) error {
	if strings.ContainsRune(name, '"') {
		return fmt.Errorf("variable %q: %w: contains a quote", name, ErrUnrepresentable)
	}
	if _, ok := tree.LookupToken(name); ok {
		return fmt.Errorf("variable %q: %w: reads as an operator", name, ErrUnrepresentable)
	}
	if _, ok := parseNumber(name); ok {
		return fmt.Errorf("variable %q: %w: reads as a number", name, ErrUnrepresentable)
	}
	return nil
}
