package sexp

import (
	"strings"
	"testing"
)

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // re-rendered form
	}{
		{"symbol", "foo", "foo"},
		{"number", "42.5", "42.5"},
		{"negative", "-3.2", "-3.2"},
		{"quoted string", `"hello world"`, `"hello world"`},
		{"empty list", "()", "()"},
		{"simple list", "(a b c)", "(a b c)"},
		{"nested list", "(a (b c) d)", "(a (b c) d)"},
		{"mixed quoting", `(net 1 "GND")`, `(net 1 "GND")`},
		{"deep nesting", "(a (b (c (d))))", "(a (b (c (d))))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}
			if len(nodes) != 1 {
				t.Fatalf("expected 1 node, got %d", len(nodes))
			}
			if got := nodes[0].String(); got != tt.want {
				t.Errorf("round-trip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMultipleTopLevel(t *testing.T) {
	nodes, err := ParseString("(a 1) (b 2) (c 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	for i, name := range []string{"a", "b", "c"} {
		if nodes[i].Name() != name {
			t.Errorf("node %d name = %q, want %q", i, nodes[i].Name(), name)
		}
	}
}

func TestParseComments(t *testing.T) {
	input := `# leading comment
(a 1) # trailing comment
# another
(b 2)`
	nodes, err := ParseString(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
}

func TestParseStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"backslash escape", `("a\"b")`, `a"b`},
		{"doubled quote", `("a""b")`, `a"b`},
		{"escaped backslash", `("a\\b")`, `a\b`},
		{"newline escape", `("a\nb")`, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := nodes[0].Str(0)
			if err != nil {
				t.Fatalf("Str(0) error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced open", "(a (b c)"},
		{"unbalanced close", "a) b"},
		{"unterminated string", `("abc`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseString(tt.input); err == nil {
				t.Errorf("ParseString(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestNodeAccessors(t *testing.T) {
	nodes, err := ParseString(`(via (at 12.5 -3.25) (size 0.6) (drill 0.3) (net 1) locked)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	via := nodes[0]

	if via.Name() != "via" {
		t.Errorf("Name() = %q, want \"via\"", via.Name())
	}

	at, found := via.Find("at")
	if !found {
		t.Fatal("Find(\"at\") not found")
	}
	if x, err := at.Float(1); err != nil || x != 12.5 {
		t.Errorf("at.Float(1) = %v, %v; want 12.5", x, err)
	}
	if y, err := at.Float(2); err != nil || y != -3.25 {
		t.Errorf("at.Float(2) = %v, %v; want -3.25", y, err)
	}

	net, _ := via.Find("net")
	if n, err := net.Int(1); err != nil || n != 1 {
		t.Errorf("net.Int(1) = %v, %v; want 1", n, err)
	}

	if !via.Has("locked") {
		t.Error("Has(\"locked\") = false, want true")
	}
	if via.Has("free") {
		t.Error("Has(\"free\") = true, want false")
	}

	if _, found := via.Find("missing"); found {
		t.Error("Find(\"missing\") found a node")
	}
	if _, err := at.Float(9); err == nil {
		t.Error("Float(9) out of bounds, expected error")
	}
}

func TestFindAll(t *testing.T) {
	nodes, err := ParseString(`(pts (xy 0 0) (xy 1 0) (xy 1 1) (other) (xy 0 1))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xys := nodes[0].FindAll("xy")
	if len(xys) != 4 {
		t.Fatalf("FindAll(\"xy\") returned %d nodes, want 4", len(xys))
	}
}

// Zone fills can hold tens of thousands of points; parsing must stay linear
// and not blow the stack on realistic nesting.
func TestParseLargeInput(t *testing.T) {
	var b strings.Builder
	b.WriteString("(pts")
	for i := 0; i < 50000; i++ {
		b.WriteString(" (xy 1.0 2.0)")
	}
	b.WriteString(")")

	nodes, err := ParseString(b.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(nodes[0].FindAll("xy")); got != 50000 {
		t.Errorf("parsed %d points, want 50000", got)
	}
}
