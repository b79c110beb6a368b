// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package expression

import (
	"fmt"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenDot
	tokenAt
	tokenValue
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of expression"
	case tokenIdent:
		return "identifier"
	case tokenDot:
		return "'.'"
	case tokenAt:
		return "'@'"
	case tokenValue:
		return "value"
	case tokenAnd:
		return "'&&'"
	case tokenOr:
		return "'||'"
	case tokenNot:
		return "'!'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return "unknown"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// IsIdent returns whether s can be used as an org or tag name in expressions.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// lex splits the expression into tokens, ending with tokenEOF.
func lex(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '.':
			tokens = append(tokens, token{tokenDot, ".", i})
			i++
		case c == '@':
			tokens = append(tokens, token{tokenAt, "@", i})
			i++
		case c == '!':
			tokens = append(tokens, token{tokenNot, "!", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case c == '&' || c == '|':
			if i+1 >= len(expr) || expr[i+1] != c {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected %q", c)}
			}
			kind := tokenAnd
			if c == '|' {
				kind = tokenOr
			}
			tokens = append(tokens, token{kind, expr[i : i+2], i})
			i += 2
		case c == '`':
			end := i + 1
			for end < len(expr) && expr[end] != '`' {
				end++
			}
			if end >= len(expr) {
				return nil, &SyntaxError{Pos: i, Msg: "unterminated value"}
			}
			tokens = append(tokens, token{tokenValue, expr[i+1 : end], i})
			i = end + 1
		case isIdentChar(c):
			start := i
			for i < len(expr) && isIdentChar(expr[i]) {
				i++
			}
			tokens = append(tokens, token{tokenIdent, expr[start:i], start})
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected %q", c)}
		}
	}
	return append(tokens, token{tokenEOF, "", len(expr)}), nil
}
