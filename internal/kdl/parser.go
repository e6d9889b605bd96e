package kdl

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a KDL document, keeping all inter-node whitespace and the
// original spelling of every entry so the document can be serialized
// back byte for byte.
func Parse(src string) (*Document, error) {
	p := &parser{src: src}
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf("unexpected %q at top level", p.peek())
	}
	return doc, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) errorf(format string, a ...interface{}) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("kdl: line %d: %s", line, fmt.Sprintf(format, a...))
}

// document parses sibling nodes until a closing brace or end of input.
// The gap in front of the first node is split at its first newline: the
// part through the newline belongs to the document, the remaining
// indentation to the node. Later gaps belong wholly to the node that
// follows, so blank lines between siblings travel with that node.
func (p *parser) document() (*Document, error) {
	doc := &Document{}
	first := true
	for {
		gap := p.scanGap()
		if p.atEnd() || p.peek() == '}' {
			doc.trailing = gap
			return doc, nil
		}
		lead := gap
		if first {
			if i := strings.IndexByte(gap, '\n'); i >= 0 {
				doc.leading = gap[:i+1]
				lead = gap[i+1:]
			}
			first = false
		}
		n, err := p.node(lead)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, n)
	}
}

func (p *parser) node(leading string) (*Node, error) {
	raw, str, kind, err := p.token()
	if err != nil {
		return nil, err
	}
	name := str
	if kind != kindString {
		name = raw
	}
	n := &Node{name: name, nameRaw: raw, leading: leading}

	for {
		gap := p.scanInline()
		if p.atEnd() {
			n.trailing = gap
			return n, nil
		}
		switch c := p.peek(); {
		case c == '\n':
			p.pos++
			n.trailing = gap + "\n"
			return n, nil
		case c == ';':
			p.pos++
			n.trailing = gap + ";"
			return n, nil
		case c == '}':
			n.trailing = gap
			return n, nil
		case c == '/' && p.peekAt(1) == '/':
			n.trailing = gap + p.scanLineComment() + p.scanNewline()
			return n, nil
		case c == '{':
			p.pos++
			children, err := p.document()
			if err != nil {
				return nil, err
			}
			if p.atEnd() || p.peek() != '}' {
				return nil, p.errorf("unterminated child block")
			}
			p.pos++
			n.beforeChildren = gap
			n.children = children
			return n, p.finishNode(n)
		default:
			e, err := p.entry(gap)
			if err != nil {
				return nil, err
			}
			n.entries = append(n.entries, e)
		}
	}
}

// finishNode consumes the terminator after a child block.
func (p *parser) finishNode(n *Node) error {
	t := p.scanInline()
	if !p.atEnd() && p.peek() == '/' && p.peekAt(1) == '/' {
		t += p.scanLineComment()
	}
	switch {
	case p.atEnd():
	case p.peek() == '\n':
		p.pos++
		t += "\n"
	case p.peek() == ';':
		p.pos++
		t += ";"
	case p.peek() == '}':
	default:
		return p.errorf("unexpected %q after child block", p.peek())
	}
	n.trailing = t
	return nil
}

func (p *parser) entry(leading string) (*Entry, error) {
	raw, str, kind, err := p.token()
	if err != nil {
		return nil, err
	}
	e := &Entry{leading: leading}
	if !p.atEnd() && p.peek() == '=' {
		if kind != kindString {
			return nil, p.errorf("invalid property name %q", raw)
		}
		p.pos++
		vraw, vstr, vkind, err := p.token()
		if err != nil {
			return nil, err
		}
		e.named = true
		e.name = str
		e.nameRaw = raw
		e.value = value{kind: vkind, str: vstr, raw: vraw}
		return e, nil
	}
	e.value = value{kind: kind, str: str, raw: raw}
	return e, nil
}

// token reads a quoted string or a bare word. Bare words are classified
// as bool, null, number, or (permissively) a string.
func (p *parser) token() (raw, str string, kind valueKind, err error) {
	if p.atEnd() {
		return "", "", 0, p.errorf("unexpected end of input")
	}
	if p.peek() == '"' {
		return p.quotedString()
	}
	start := p.pos
	for !p.atEnd() && !isTokenEnd(p.peek()) {
		p.pos++
	}
	raw = p.src[start:p.pos]
	if raw == "" {
		return "", "", 0, p.errorf("unexpected character %q", p.peek())
	}
	switch {
	case raw == "true" || raw == "false":
		return raw, "", kindBool, nil
	case raw == "null":
		return raw, "", kindNull, nil
	default:
		if _, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return raw, "", kindNumber, nil
		}
		return raw, raw, kindString, nil
	}
}

func isTokenEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', ';', '=', '"':
		return true
	}
	return false
}

func (p *parser) quotedString() (raw, str string, kind valueKind, err error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", "", 0, p.errorf("unterminated string")
		}
		c := p.peek()
		if c == '"' {
			p.pos++
			break
		}
		if c != '\\' {
			b.WriteByte(c)
			p.pos++
			continue
		}
		p.pos++
		if p.atEnd() {
			return "", "", 0, p.errorf("unterminated escape")
		}
		esc := p.peek()
		p.pos++
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if p.atEnd() || p.peek() != '{' {
				return "", "", 0, p.errorf("malformed unicode escape")
			}
			p.pos++
			hexStart := p.pos
			for !p.atEnd() && p.peek() != '}' {
				p.pos++
			}
			if p.atEnd() {
				return "", "", 0, p.errorf("malformed unicode escape")
			}
			code, perr := strconv.ParseUint(p.src[hexStart:p.pos], 16, 32)
			if perr != nil {
				return "", "", 0, p.errorf("malformed unicode escape")
			}
			p.pos++
			b.WriteRune(rune(code))
		default:
			return "", "", 0, p.errorf("unsupported escape \\%c", esc)
		}
	}
	return p.src[start:p.pos], b.String(), kindString, nil
}

// scanGap consumes whitespace and full-line comments between nodes.
func (p *parser) scanGap() string {
	start := p.pos
	for !p.atEnd() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '/' && p.peekAt(1) == '/':
			p.scanLineComment()
		default:
			return p.src[start:p.pos]
		}
	}
	return p.src[start:p.pos]
}

// scanInline consumes spaces and tabs within a node line.
func (p *parser) scanInline() string {
	start := p.pos
	for !p.atEnd() {
		c := p.peek()
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) scanLineComment() string {
	start := p.pos
	for !p.atEnd() && p.peek() != '\n' {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) scanNewline() string {
	if !p.atEnd() && p.peek() == '\n' {
		p.pos++
		return "\n"
	}
	return ""
}
