// Package filter parses textual filter expressions into predicate trees.
//
// The language is the CLI-facing surface of the query compiler:
//
//	Age > 18 and (Name == "John" or Tags[2] == "red")
//	Email.endswith("@example.com")
//
// Identifiers address document properties, dots nest, [n] subscripts
// arrays, and the contains/startswith/endswith methods map to the
// predicate string-match nodes. and/or keywords are case-insensitive.
package filter

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Structural
	TokenLParen   TokenType = iota // (
	TokenRParen                    // )
	TokenLBracket                  // [
	TokenRBracket                  // ]
	TokenDot                       // .

	// Operators
	TokenEq  // ==
	TokenNeq // !=
	TokenLt  // <
	TokenGt  // >
	TokenLte // <=
	TokenGte // >=

	// Keywords
	TokenAnd   // and
	TokenOr    // or
	TokenTrue  // true
	TokenFalse // false

	// Literals
	TokenInt    // integer literal
	TokenFloat  // float literal
	TokenString // "string literal"

	// Identifiers
	TokenIdent // property or method name

	// End
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenLParen: "(", TokenRParen: ")", TokenLBracket: "[", TokenRBracket: "]", TokenDot: ".",
	TokenEq: "==", TokenNeq: "!=", TokenLt: "<", TokenGt: ">", TokenLte: "<=", TokenGte: ">=",
	TokenAnd: "and", TokenOr: "or", TokenTrue: "true", TokenFalse: "false",
	TokenInt: "INT", TokenFloat: "FLOAT", TokenString: "STRING",
	TokenIdent: "IDENT", TokenEOF: "EOF",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Token represents a single lexical token.
type Token struct {
	Type TokenType
	Val  string
	Pos  int // byte offset in original input
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Val, t.Pos)
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// Lex tokenizes the input string into a slice of Tokens.
func Lex(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		ch := runes[i]

		// Skip whitespace
		if unicode.IsSpace(ch) {
			i++
			continue
		}

		pos := i
		switch ch {
		case '(':
			tokens = append(tokens, Token{TokenLParen, "(", pos})
			i++
			continue
		case ')':
			tokens = append(tokens, Token{TokenRParen, ")", pos})
			i++
			continue
		case '[':
			tokens = append(tokens, Token{TokenLBracket, "[", pos})
			i++
			continue
		case ']':
			tokens = append(tokens, Token{TokenRBracket, "]", pos})
			i++
			continue
		case '.':
			tokens = append(tokens, Token{TokenDot, ".", pos})
			i++
			continue
		case '=':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{TokenEq, "==", pos})
				i += 2
				continue
			}
			return nil, fmt.Errorf("unexpected character '=' at position %d (did you mean '=='?)", pos)
		case '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{TokenNeq, "!=", pos})
				i += 2
				continue
			}
			return nil, fmt.Errorf("unexpected character '!' at position %d (did you mean '!='?)", pos)
		case '<':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{TokenLte, "<=", pos})
				i += 2
			} else {
				tokens = append(tokens, Token{TokenLt, "<", pos})
				i++
			}
			continue
		case '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{TokenGte, ">=", pos})
				i += 2
			} else {
				tokens = append(tokens, Token{TokenGt, ">", pos})
				i++
			}
			continue
		case '-':
			// Negative number literal
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				tok, newI, err := lexNumber(runes, i)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, tok)
				i = newI
				continue
			}
			return nil, fmt.Errorf("unexpected character '-' at position %d", pos)
		}

		// String literal
		if ch == '"' {
			tok, newI, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = newI
			continue
		}

		// Number
		if unicode.IsDigit(ch) {
			tok, newI, err := lexNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = newI
			continue
		}

		// Identifier or keyword
		if unicode.IsLetter(ch) || ch == '_' {
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			if kw, ok := keywords[strings.ToLower(word)]; ok {
				tokens = append(tokens, Token{kw, word, start})
			} else {
				tokens = append(tokens, Token{TokenIdent, word, start})
			}
			continue
		}

		return nil, fmt.Errorf("unexpected character %q at position %d", ch, pos)
	}

	tokens = append(tokens, Token{TokenEOF, "", len(runes)})
	return tokens, nil
}

// lexString scans a double-quoted string literal with backslash escapes
// for quote and backslash.
func lexString(runes []rune, start int) (Token, int, error) {
	i := start + 1 // skip opening quote
	var sb strings.Builder
	for i < len(runes) {
		ch := runes[i]
		if ch == '"' {
			return Token{TokenString, sb.String(), start}, i + 1, nil
		}
		if ch == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '"' || next == '\\' {
				sb.WriteRune(next)
				i += 2
				continue
			}
		}
		sb.WriteRune(ch)
		i++
	}
	return Token{}, 0, fmt.Errorf("unterminated string literal starting at position %d", start)
}

// lexNumber scans an integer or float literal, optional leading minus.
func lexNumber(runes []rune, start int) (Token, int, error) {
	i := start
	if runes[i] == '-' {
		i++
	}
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}

	isFloat := false
	if i < len(runes) && runes[i] == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
		isFloat = true
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
	}

	val := string(runes[start:i])
	if isFloat {
		return Token{TokenFloat, val, start}, i, nil
	}
	return Token{TokenInt, val, start}, i, nil
}
