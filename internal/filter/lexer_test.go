package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestLex(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "comparison",
			input: `Age > 18`,
			want:  []TokenType{TokenIdent, TokenGt, TokenInt, TokenEOF},
		},
		{
			name:  "string equality",
			input: `Name == "John"`,
			want:  []TokenType{TokenIdent, TokenEq, TokenString, TokenEOF},
		},
		{
			name:  "all operators",
			input: `== != < > <= >=`,
			want:  []TokenType{TokenEq, TokenNeq, TokenLt, TokenGt, TokenLte, TokenGte, TokenEOF},
		},
		{
			name:  "keywords",
			input: `and or true false`,
			want:  []TokenType{TokenAnd, TokenOr, TokenTrue, TokenFalse, TokenEOF},
		},
		{
			name:  "keywords are case-insensitive",
			input: `AND Or TRUE False`,
			want:  []TokenType{TokenAnd, TokenOr, TokenTrue, TokenFalse, TokenEOF},
		},
		{
			name:  "subscript",
			input: `Tags[2] == "red"`,
			want:  []TokenType{TokenIdent, TokenLBracket, TokenInt, TokenRBracket, TokenEq, TokenString, TokenEOF},
		},
		{
			name:  "nested path",
			input: `Address.City`,
			want:  []TokenType{TokenIdent, TokenDot, TokenIdent, TokenEOF},
		},
		{
			name:  "parens",
			input: `(Age > 1)`,
			want:  []TokenType{TokenLParen, TokenIdent, TokenGt, TokenInt, TokenRParen, TokenEOF},
		},
		{
			name:  "method call",
			input: `Name.contains("oh")`,
			want:  []TokenType{TokenIdent, TokenDot, TokenIdent, TokenLParen, TokenString, TokenRParen, TokenEOF},
		},
		{
			name:  "empty input",
			input: ``,
			want:  []TokenType{TokenEOF},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, tokenTypes(tokens))
		})
	}
}

func TestLex_Numbers(t *testing.T) {
	tokens, err := Lex(`42 -7 3.14 -0.5`)
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, Token{TokenInt, "42", 0}, tokens[0])
	assert.Equal(t, Token{TokenInt, "-7", 3}, tokens[1])
	assert.Equal(t, Token{TokenFloat, "3.14", 6}, tokens[2])
	assert.Equal(t, Token{TokenFloat, "-0.5", 11}, tokens[3])
}

func TestLex_StringEscapes(t *testing.T) {
	tokens, err := Lex(`"a \"quoted\" word"`)
	require.NoError(t, err)
	assert.Equal(t, `a "quoted" word`, tokens[0].Val)

	tokens, err = Lex(`"back\\slash"`)
	require.NoError(t, err)
	assert.Equal(t, `back\slash`, tokens[0].Val)
}

func TestLex_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"single equals", `Age = 18`, "did you mean '=='"},
		{"bare bang", `Age ! 18`, "did you mean '!='"},
		{"dangling minus", `Age > -`, "unexpected character '-'"},
		{"unterminated string", `Name == "John`, "unterminated string"},
		{"stray symbol", `Age @ 18`, "unexpected character"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Lex(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
