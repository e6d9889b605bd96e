// Package kdl implements a round-trip parser for the KDL subset that
// zellij writes into session layout files: named nodes with ordered
// named/positional entries and brace-delimited child blocks.
//
// Every piece of source text that is not explicitly rewritten is kept
// verbatim. Nodes and documents carry their surrounding whitespace as
// opaque strings, so serializing an unmodified document reproduces the
// input byte for byte.
package kdl

import (
	"strings"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindNumber
	kindNull
)

// value is a single entry value. The raw source text is kept alongside
// the decoded form so untouched values serialize unchanged.
type value struct {
	kind valueKind
	str  string // decoded text, only meaningful for kindString
	raw  string // source text, regenerated when the value is rewritten
}

func newStringValue(s string) value {
	return value{kind: kindString, str: s, raw: quote(s)}
}

// Entry is one attribute of a node: a named property (name=value) or a
// positional argument (value only).
type Entry struct {
	leading string // whitespace before the entry, usually a single space
	name    string // decoded property name, empty for positional entries
	nameRaw string // property name as written in the source
	named   bool
	value   value
}

// Node is a named element with ordered entries and an optional child
// document. The leading field holds the indentation in front of the
// name; trailing holds the node terminator (line end or semicolon).
type Node struct {
	name           string
	nameRaw        string
	entries        []*Entry
	children       *Document
	leading        string
	beforeChildren string // whitespace between the last entry and '{'
	trailing       string
}

// NewNode creates a detached node with no formatting metadata.
func NewNode(name string) *Node {
	return &Node{name: name, nameRaw: name}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Children returns the node's child document, or nil.
func (n *Node) Children() *Document { return n.children }

// EnsureChildren returns the child document, creating an empty one
// (separated from the entries by a single space) if the node has none.
func (n *Node) EnsureChildren() *Document {
	if n.children == nil {
		n.children = &Document{}
		n.beforeChildren = " "
	}
	return n.children
}

// Leading returns the whitespace preceding the node.
func (n *Node) Leading() string { return n.leading }

// SetLeading replaces the whitespace preceding the node.
func (n *Node) SetLeading(s string) { n.leading = s }

// Trailing returns the node terminator text.
func (n *Node) Trailing() string { return n.trailing }

// SetTrailing replaces the node terminator text.
func (n *Node) SetTrailing(s string) { n.trailing = s }

// StringEntry returns the decoded string value of the first named entry
// with the given name. Non-string values report false, matching the
// read-only-strings contract of the layout rewriter.
func (n *Node) StringEntry(name string) (string, bool) {
	for _, e := range n.entries {
		if e.named && e.name == name {
			if e.value.kind != kindString {
				return "", false
			}
			return e.value.str, true
		}
	}
	return "", false
}

// SetStringEntry rewrites the first named entry with the given name to
// a quoted string value, keeping its position, leading whitespace and
// name spelling. A missing entry is appended.
func (n *Node) SetStringEntry(name, value string) {
	for _, e := range n.entries {
		if e.named && e.name == name {
			e.value = newStringValue(value)
			return
		}
	}
	n.entries = append(n.entries, &Entry{
		leading: " ",
		name:    name,
		nameRaw: name,
		named:   true,
		value:   newStringValue(value),
	})
}

// AddString appends a positional quoted-string entry.
func (n *Node) AddString(value string) {
	n.entries = append(n.entries, &Entry{leading: " ", value: newStringValue(value)})
}

// PositionalStrings returns the decoded values of the node's positional
// string entries, in order. Named entries and non-string values are
// skipped.
func (n *Node) PositionalStrings() []string {
	var out []string
	for _, e := range n.entries {
		if e.named || e.value.kind != kindString {
			continue
		}
		out = append(out, e.value.str)
	}
	return out
}

// Document is an ordered sequence of sibling nodes. The leading field
// holds the text between the opening brace (or start of file) and the
// first line carrying a node; trailing holds the text after the last
// node, up to the closing brace or end of file.
type Document struct {
	Nodes    []*Node
	leading  string
	trailing string
}

// Trailing returns the whitespace after the last node.
func (d *Document) Trailing() string { return d.trailing }

// SetTrailing replaces the whitespace after the last node.
func (d *Document) SetTrailing(s string) { d.trailing = s }

// String serializes the document. Content that was not rewritten is
// reproduced exactly as parsed.
func (d *Document) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Document) write(b *strings.Builder) {
	b.WriteString(d.leading)
	for _, n := range d.Nodes {
		n.write(b)
	}
	b.WriteString(d.trailing)
}

func (n *Node) write(b *strings.Builder) {
	b.WriteString(n.leading)
	b.WriteString(n.nameRaw)
	for _, e := range n.entries {
		b.WriteString(e.leading)
		if e.named {
			b.WriteString(e.nameRaw)
			b.WriteByte('=')
		}
		b.WriteString(e.value.raw)
	}
	if n.children != nil {
		b.WriteString(n.beforeChildren)
		b.WriteByte('{')
		n.children.write(b)
		b.WriteByte('}')
	}
	b.WriteString(n.trailing)
}

// quote renders s as a KDL quoted string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
