package verbalize

import (
	"errors"
	"fmt"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits markup into expression tokens. Anything outside the plain
// expression grammar (markup commands, braces, unknown runes) is rejected so
// the caller falls through to the pattern tier.
func tokenize(s string) ([]token, error) {
	var tokens []token
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[i:j])})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[i:j])})
			i = j
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^' || r == '=' || r == '<' || r == '>':
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i++
		default:
			return nil, fmt.Errorf("unexpected rune %q", r)
		}
	}
	if len(tokens) == 0 {
		return nil, errors.New("no tokens")
	}
	return tokens, nil
}

// exprParser validates a token stream against a standard expression grammar:
//
//	expression := additive { ("="|"<"|">") additive }
//	additive   := multiplicative { ("+"|"-") multiplicative }
//	multiplicative := power { ("*"|"/") power }
//	power      := unary [ "^" power ]
//	unary      := [ "-" ] primary
//	primary    := number | ident [ "(" expression ")" ] | "(" expression ")"
type exprParser struct {
	tokens []token
	pos    int
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) acceptOp(ops string) bool {
	tok, ok := p.peek()
	if !ok || tok.kind != tokOp || !containsOp(ops, tok.text) {
		return false
	}
	p.pos++
	return true
}

func containsOp(ops, op string) bool {
	for _, r := range ops {
		if string(r) == op {
			return true
		}
	}
	return false
}

func (p *exprParser) parseExpression() bool {
	if !p.parseAdditive() {
		return false
	}
	for p.acceptOp("=<>") {
		if !p.parseAdditive() {
			return false
		}
	}
	return true
}

func (p *exprParser) parseAdditive() bool {
	if !p.parseMultiplicative() {
		return false
	}
	for p.acceptOp("+-") {
		if !p.parseMultiplicative() {
			return false
		}
	}
	return true
}

func (p *exprParser) parseMultiplicative() bool {
	if !p.parsePower() {
		return false
	}
	for p.acceptOp("*/") {
		if !p.parsePower() {
			return false
		}
	}
	return true
}

func (p *exprParser) parsePower() bool {
	if !p.parseUnary() {
		return false
	}
	if p.acceptOp("^") {
		return p.parsePower()
	}
	return true
}

func (p *exprParser) parseUnary() bool {
	p.acceptOp("-")
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() bool {
	tok, ok := p.peek()
	if !ok {
		return false
	}
	switch tok.kind {
	case tokNumber:
		p.pos++
		return true
	case tokIdent:
		p.pos++
		if next, ok := p.peek(); ok && next.kind == tokLParen {
			p.pos++
			if !p.parseExpression() {
				return false
			}
			return p.expectRParen()
		}
		return true
	case tokLParen:
		p.pos++
		if !p.parseExpression() {
			return false
		}
		return p.expectRParen()
	default:
		return false
	}
}

func (p *exprParser) expectRParen() bool {
	tok, ok := p.peek()
	if !ok || tok.kind != tokRParen {
		return false
	}
	p.pos++
	return true
}
