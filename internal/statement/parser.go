package statement

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// signSides is the one place where the sign token's double encoding
// lives: '+' asks for the start of a feature and '-' for its end, on
// both strands. Strand-aware inversion happens in the resolver, never
// here.
var signSides = map[byte]Value[Side]{
	'+': Concrete(SideStart),
	'-': Concrete(SideEnd),
	'*': Glob[Side](),
}

// sideSigns is the inverse mapping, used for rendering.
var sideSigns map[Value[Side]]byte

func init() {
	sideSigns = make(map[Value[Side]]byte, len(signSides))
	for sign, side := range signSides {
		sideSigns[side] = sign
	}
}

// Parse parses a probe statement:
//
//	statement := side1 separator side2 [comment]
//	side      := gene '#' feature sign bases
//	feature   := ('exon'|'intron'|'*') '[' (positive-int | '*') ']'
//	sign      := '+' | '-' | '*'
//	bases     := positive-int | '*'
//	separator := '/' | '->'
//	comment   := '--' rest-of-line
//
// Whitespace between tokens is ignored, so statements differing only in
// layout parse to equal specifications. Returns an
// *InvalidStatementError if the text does not match the grammar.
func Parse(text string) (*Spec, error) {
	p := &parser{input: text}
	spec, err := p.statement()
	if err != nil {
		return nil, &InvalidStatementError{Input: text, Reason: err.Error()}
	}
	return spec, nil
}

// parser is a cursor over the statement text. Each production skips
// leading whitespace itself, which is what makes layout irrelevant.
type parser struct {
	input string
	pos   int
}

func (p *parser) statement() (*Spec, error) {
	side1, err := p.half()
	if err != nil {
		return nil, err
	}
	sep, err := p.separator()
	if err != nil {
		return nil, err
	}
	side2, err := p.half()
	if err != nil {
		return nil, err
	}
	comment, err := p.comment()
	if err != nil {
		return nil, err
	}
	return &Spec{Side1: side1, Side2: side2, Separator: sep, Comment: comment}, nil
}

func (p *parser) half() (Half, error) {
	gene, err := p.gene()
	if err != nil {
		return Half{}, err
	}
	if err := p.expect('#'); err != nil {
		return Half{}, err
	}
	feature, err := p.feature()
	if err != nil {
		return Half{}, err
	}
	side, err := p.sign()
	if err != nil {
		return Half{}, err
	}
	bases, err := p.positiveIntOrGlob("bases")
	if err != nil {
		return Half{}, err
	}
	return Half{Gene: gene, Feature: feature, Side: side, Bases: bases}, nil
}

// gene reads a gene identifier. The glob token is not an identifier,
// so gene names can never be globbed.
func (p *parser) gene() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && isGeneChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected gene name at position %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *parser) feature() (Feature, error) {
	kind, err := p.featureKind()
	if err != nil {
		return Feature{}, err
	}
	if err := p.expect('['); err != nil {
		return Feature{}, err
	}
	index, err := p.positiveIntOrGlob("feature index")
	if err != nil {
		return Feature{}, err
	}
	if err := p.expect(']'); err != nil {
		return Feature{}, err
	}
	return Feature{Kind: kind, Index: index}, nil
}

func (p *parser) featureKind() (Value[Kind], error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '*' {
		p.pos++
		return Glob[Kind](), nil
	}
	start := p.pos
	for p.pos < len(p.input) && isLetter(p.input[p.pos]) {
		p.pos++
	}
	switch word := p.input[start:p.pos]; word {
	case string(KindExon):
		return Concrete(KindExon), nil
	case string(KindIntron):
		return Concrete(KindIntron), nil
	default:
		return Value[Kind]{}, fmt.Errorf("expected 'exon', 'intron', or '*' at position %d", start)
	}
}

func (p *parser) sign() (Value[Side], error) {
	p.skipSpace()
	if p.pos < len(p.input) {
		if side, ok := signSides[p.input[p.pos]]; ok {
			p.pos++
			return side, nil
		}
	}
	return Value[Side]{}, fmt.Errorf("expected '+', '-', or '*' at position %d", p.pos)
}

func (p *parser) positiveIntOrGlob(what string) (Value[int], error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '*' {
		p.pos++
		return Glob[int](), nil
	}
	start := p.pos
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Value[int]{}, fmt.Errorf("expected %s at position %d", what, start)
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return Value[int]{}, fmt.Errorf("invalid %s %q", what, p.input[start:p.pos])
	}
	if n < 1 {
		return Value[int]{}, fmt.Errorf("%s must be positive, got %d", what, n)
	}
	return Concrete(n), nil
}

func (p *parser) separator() (Separator, error) {
	p.skipSpace()
	switch {
	case p.pos < len(p.input) && p.input[p.pos] == '/':
		p.pos++
		return SeparatorPositional, nil
	case strings.HasPrefix(p.input[p.pos:], "->"):
		p.pos += 2
		return SeparatorReadThrough, nil
	default:
		return "", fmt.Errorf("expected '/' or '->' at position %d", p.pos)
	}
}

// comment consumes an optional trailing '--' comment, preserved
// verbatim, and requires end of input afterwards.
func (p *parser) comment() (string, error) {
	p.skipSpace()
	if p.pos == len(p.input) {
		return "", nil
	}
	if strings.HasPrefix(p.input[p.pos:], "--") {
		return p.input[p.pos:], nil
	}
	return "", fmt.Errorf("unexpected trailing input at position %d", p.pos)
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != ch {
		return fmt.Errorf("expected %q at position %d", ch, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isGeneChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '.' || ch == '-'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
