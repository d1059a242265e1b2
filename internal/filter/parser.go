package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idotta/jsonb-store/internal/predicate"
)

// Parser converts a token stream into a predicate tree.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses a filter expression into a predicate tree.
func Parse(input string) (predicate.Node, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}
	p := &Parser{tokens: tokens, pos: 0}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenEOF {
		tok := p.peek()
		return nil, fmt.Errorf("unexpected token %s (%q) at position %d", tok.Type, tok.Val, tok.Pos)
	}
	return node, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, fmt.Errorf("expected %s, got %s (%q) at position %d", tt, tok.Type, tok.Val, tok.Pos)
	}
	return tok, nil
}

// parseOr handles the lowest-precedence level: a or b or c.
// Left-associative, so "a or b or c" nests as Or(Or(a, b), c).
func (p *Parser) parseOr() (predicate.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = predicate.Or{Left: left, Right: right}
	}
	return left, nil
}

// parseAnd binds tighter than or: a and b and c.
func (p *Parser) parseAnd() (predicate.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = predicate.And{Left: left, Right: right}
	}
	return left, nil
}

// parseUnary handles parenthesized groups and comparison leaves.
func (p *Parser) parseUnary() (predicate.Node, error) {
	if p.peek().Type == TokenLParen {
		p.advance()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	}
	return p.parseComparison()
}

// parseComparison parses one leaf: either "path op value" or a string
// method call "path.method(\"value\")".
func (p *Parser) parseComparison() (predicate.Node, error) {
	path, method, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	if method != "" {
		return p.parseMethodCall(path, method)
	}

	opTok := p.advance()
	op, ok := comparisonOps[opTok.Type]
	if !ok {
		return nil, fmt.Errorf("expected comparison operator, got %s (%q) at position %d",
			opTok.Type, opTok.Val, opTok.Pos)
	}

	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return predicate.Comparison{Path: path, Op: op, Value: predicate.Literal{Value: val}}, nil
}

var comparisonOps = map[TokenType]predicate.Operator{
	TokenEq:  predicate.OpEq,
	TokenNeq: predicate.OpNe,
	TokenLt:  predicate.OpLt,
	TokenGt:  predicate.OpGt,
	TokenLte: predicate.OpLe,
	TokenGte: predicate.OpGe,
}

var matchMethods = map[string]predicate.MatchKind{
	"contains":   predicate.MatchContains,
	"startswith": predicate.MatchStartsWith,
	"endswith":   predicate.MatchEndsWith,
}

// parsePath parses a member-access chain. If the chain ends in a known
// string-match method (the next token after its name is an opening paren),
// the method name is returned separately and not added to the path.
func (p *Parser) parsePath() (predicate.PathExpr, string, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, "", err
	}
	expr := predicate.PathExpr{predicate.PropertyAccess{Name: tok.Val}}

	for {
		switch p.peek().Type {
		case TokenDot:
			p.advance()
			name, err := p.expect(TokenIdent)
			if err != nil {
				return nil, "", err
			}
			if _, isMethod := matchMethods[strings.ToLower(name.Val)]; isMethod && p.peek().Type == TokenLParen {
				return expr, strings.ToLower(name.Val), nil
			}
			expr = append(expr, predicate.PropertyAccess{Name: name.Val})

		case TokenLBracket:
			p.advance()
			idxTok, err := p.expect(TokenInt)
			if err != nil {
				return nil, "", err
			}
			idx, err := strconv.Atoi(idxTok.Val)
			if err != nil {
				return nil, "", fmt.Errorf("invalid array index %q at position %d", idxTok.Val, idxTok.Pos)
			}
			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, "", err
			}
			expr = append(expr, predicate.IndexAccess{Index: predicate.Literal{Value: idx}})

		default:
			return expr, "", nil
		}
	}
}

// parseMethodCall parses the (single string argument) tail of a
// contains/startswith/endswith call.
func (p *Parser) parseMethodCall(path predicate.PathExpr, method string) (predicate.Node, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	arg, err := p.expect(TokenString)
	if err != nil {
		return nil, fmt.Errorf("%s takes a single string argument: %w", method, err)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return predicate.StringMatch{
		Path:  path,
		Kind:  matchMethods[method],
		Value: predicate.Literal{Value: arg.Val},
	}, nil
}

// parseValue parses a literal comparison value.
func (p *Parser) parseValue() (any, error) {
	tok := p.advance()
	switch tok.Type {
	case TokenString:
		return tok.Val, nil
	case TokenInt:
		n, err := strconv.ParseInt(tok.Val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at position %d", tok.Val, tok.Pos)
		}
		return n, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Val, tok.Pos)
		}
		return f, nil
	case TokenTrue:
		return true, nil
	case TokenFalse:
		return false, nil
	default:
		return nil, fmt.Errorf("expected a value, got %s (%q) at position %d", tok.Type, tok.Val, tok.Pos)
	}
}
