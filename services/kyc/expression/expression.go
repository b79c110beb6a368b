// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package expression implements the user tag expression language.
//
// A term ORG.TAG@`value` holds when the user is tagged value under TAG
// by ORG. Terms combine with !, && and ||, in decreasing precedence,
// and group with parentheses:
//
//	(Huobi.Level@`2` || Huobi.Level@`3`) && !Huobi.Country@`XX`
package expression

import (
	"fmt"
	"slices"
	"strings"

	"github.com/akki2825/huobi-chain/huobi"
)

// MaxLength bounds the length of an expression.
const MaxLength = 1024

// DataFeed provides tag values of users.
type DataFeed interface {
	GetTags(target huobi.Address, kyc, tag string) ([]string, error)
}

// SyntaxError describes a malformed expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Node is a parsed expression.
type Node interface {
	// Eval evaluates the expression for target.
	Eval(feed DataFeed, target huobi.Address) (bool, error)
	String() string
}

// Term is ORG.TAG@`value`.
type Term struct {
	Kyc   string
	Tag   string
	Value string
}

func (t *Term) Eval(feed DataFeed, target huobi.Address) (bool, error) {
	values, err := feed.GetTags(target, t.Kyc, t.Tag)
	if err != nil {
		return false, err
	}
	return slices.Contains(values, t.Value), nil
}

func (t *Term) String() string {
	return fmt.Sprintf("%s.%s@`%s`", t.Kyc, t.Tag, t.Value)
}

// Not negates its operand.
type Not struct {
	X Node
}

func (n *Not) Eval(feed DataFeed, target huobi.Address) (bool, error) {
	v, err := n.X.Eval(feed, target)
	if err != nil {
		return false, err
	}
	return !v, nil
}

func (n *Not) String() string {
	return "!" + n.X.String()
}

// Binary is X && Y or X || Y. Evaluation short-circuits.
type Binary struct {
	Or   bool
	X, Y Node
}

func (b *Binary) Eval(feed DataFeed, target huobi.Address) (bool, error) {
	x, err := b.X.Eval(feed, target)
	if err != nil {
		return false, err
	}
	if x == b.Or {
		return x, nil
	}
	return b.Y.Eval(feed, target)
}

func (b *Binary) String() string {
	op := "&&"
	if b.Or {
		op = "||"
	}
	return "(" + b.X.String() + " " + op + " " + b.Y.String() + ")"
}

// Parse parses the expression.
func Parse(expr string) (Node, error) {
	if len(expr) > MaxLength {
		return nil, &SyntaxError{Pos: MaxLength, Msg: "expression too long"}
	}
	if strings.TrimSpace(expr) == "" {
		return nil, &SyntaxError{Msg: "empty expression"}
	}
	tokens, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected(tok)
	}
	return node, nil
}

// Eval parses and evaluates the expression for target.
func Eval(expr string, feed DataFeed, target huobi.Address) (bool, error) {
	node, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return node.Eval(feed, target)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok token) error {
	return &SyntaxError{Pos: tok.pos, Msg: "unexpected " + tok.kind.String()}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expect %v, got %v", kind, tok.kind)}
	}
	return tok, nil
}

func (p *parser) parseOr() (Node, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &Binary{Or: true, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (Node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &Binary{X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (Node, error) {
	switch tok := p.peek(); tok.kind {
	case tokenNot:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{x}, nil
	case tokenLParen:
		p.next()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return x, nil
	case tokenIdent:
		return p.parseTerm()
	default:
		return nil, p.unexpected(tok)
	}
}

func (p *parser) parseTerm() (Node, error) {
	kyc, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenDot); err != nil {
		return nil, err
	}
	tag, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenAt); err != nil {
		return nil, err
	}
	value, err := p.expect(tokenValue)
	if err != nil {
		return nil, err
	}
	return &Term{Kyc: kyc.text, Tag: tag.text, Value: value.text}, nil
}
