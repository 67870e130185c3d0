// Package sexp provides a lightweight streaming S-expression parser for
// KiCad files. General-purpose sexp libraries load the whole document into
// cons cells; board files routinely contain zone fills with tens of
// thousands of points, so this parser streams tokens and builds a compact
// slice-backed tree instead.
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a single S-expression node. A node is either an atom
// (List == nil) or a list of child nodes.
type Node struct {
	Atom   string  // atom value, or "" for lists
	Quoted bool    // true if the atom was a quoted string in the source
	List   []*Node // child nodes, nil for atoms
}

// IsList reports whether the node is a list.
func (n *Node) IsList() bool { return n.List != nil }

// Name returns the head atom of a list ("segment", "via", ...), or the atom
// value itself for atoms. Returns "" for an empty list.
func (n *Node) Name() string {
	if !n.IsList() {
		return n.Atom
	}
	if len(n.List) == 0 || n.List[0].IsList() {
		return ""
	}
	return n.List[0].Atom
}

// Find returns the first child list whose head atom equals key.
// Example: Find("at") locates (at 100 50) inside a (via ...) node.
func (n *Node) Find(key string) (*Node, bool) {
	for _, child := range n.List {
		if child.IsList() && child.Name() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose head atom equals key, in source order.
func (n *Node) FindAll(key string) []*Node {
	var out []*Node
	for _, child := range n.List {
		if child.IsList() && child.Name() == key {
			out = append(out, child)
		}
	}
	return out
}

// Has reports whether the list contains a bare atom equal to symbol.
// Used for flag-style markers such as (segment ... locked).
func (n *Node) Has(symbol string) bool {
	for _, child := range n.List {
		if !child.IsList() && child.Atom == symbol {
			return true
		}
	}
	return false
}

// Str returns the atom at index i of a list. Index 0 is the node name.
func (n *Node) Str(i int) (string, error) {
	if !n.IsList() {
		return "", fmt.Errorf("expected list, got atom %q", n.Atom)
	}
	if i < 0 || i >= len(n.List) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", i, len(n.List))
	}
	child := n.List[i]
	if child.IsList() {
		return "", fmt.Errorf("expected atom at index %d, got list", i)
	}
	return child.Atom, nil
}

// Float returns the atom at index i parsed as a float64.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", s, err)
	}
	return v, nil
}

// Int returns the atom at index i parsed as an int.
func (n *Node) Int(i int) (int, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", s, err)
	}
	return v, nil
}

// String renders the node back to S-expression text. Quoted atoms keep
// their quotes so the output round-trips.
func (n *Node) String() string {
	if !n.IsList() {
		if n.Quoted {
			return strconv.Quote(n.Atom)
		}
		return n.Atom
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, child := range n.List {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(child.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Parse reads all top-level S-expressions from r.
func Parse(r io.Reader) ([]*Node, error) {
	p := &parser{lex: newLexer(r)}
	return p.parseAll()
}

// ParseString parses S-expressions from a string.
func ParseString(s string) ([]*Node, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	lex *lexer
}

func (p *parser) parseAll() ([]*Node, error) {
	var result []*Node
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokenEOF:
			return result, nil
		case tokenLeftParen:
			node, err := p.parseList()
			if err != nil {
				return nil, err
			}
			result = append(result, node)
		case tokenAtom:
			result = append(result, &Node{Atom: tok.value})
		case tokenString:
			result = append(result, &Node{Atom: tok.value, Quoted: true})
		case tokenRightParen:
			return nil, fmt.Errorf("unexpected ')'")
		}
	}
}

// parseList parses the body of a list; the opening paren is already consumed.
func (p *parser) parseList() (*Node, error) {
	node := &Node{List: []*Node{}}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokenRightParen:
			return node, nil
		case tokenEOF:
			return nil, fmt.Errorf("unexpected EOF in list")
		case tokenLeftParen:
			child, err := p.parseList()
			if err != nil {
				return nil, err
			}
			node.List = append(node.List, child)
		case tokenAtom:
			node.List = append(node.List, &Node{Atom: tok.value})
		case tokenString:
			node.List = append(node.List, &Node{Atom: tok.value, Quoted: true})
		}
	}
}
