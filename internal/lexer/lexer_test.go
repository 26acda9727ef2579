package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/token"
)

func kinds(src string) []token.Kind {
	l := New(src)
	var out []token.Kind
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.NEWLINE {
			continue
		}
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexArithmeticLine(t *testing.T) {
	require.Equal(t, []token.Kind{token.FLOAT, token.FLOAT, token.IDENT}, kinds("5 3 +"))
}

func TestLexArrayLiteral(t *testing.T) {
	require.Equal(t, []token.Kind{
		token.LBRACKET, token.FLOAT, token.FLOAT, token.FLOAT, token.RBRACKET,
	}, kinds("[1 2 3]"))
}

func TestLexSymbolAndDef(t *testing.T) {
	toks := kinds("5 'pi def")
	require.Equal(t, []token.Kind{token.FLOAT, token.SYMBOL, token.IDENT}, toks)
}

func TestLexLambdaWithArgs(t *testing.T) {
	toks := kinds("{ |x| x x * }")
	require.Equal(t, []token.Kind{
		token.LBRACE, token.PIPE, token.IDENT, token.PIPE,
		token.IDENT, token.IDENT, token.IDENT, token.RBRACE,
	}, toks)
}

func TestLexDotAndCommaNames(t *testing.T) {
	l := New(".foo ,bar")
	tok1 := l.NextToken()
	require.Equal(t, token.DOT, tok1.Kind)
	require.Equal(t, "foo", tok1.Literal)
	tok2 := l.NextToken()
	require.Equal(t, token.COMMA, tok2.Kind)
	require.Equal(t, "bar", tok2.Literal)
}

func TestLexNegativeAndFloat(t *testing.T) {
	l := New("-3.5")
	tok := l.NextToken()
	require.Equal(t, token.FLOAT, tok.Kind)
	require.Equal(t, -3.5, tok.Literal)
}
