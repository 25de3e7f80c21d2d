package mdhtml

import (
	"strings"
	"unicode/utf8"
)

// Token is a segment of one input line.
type Token struct {
	Value string
	Kind  TokenKind
}

// TokenKind classifies a Token.
type TokenKind uint8

const (
	// TokenLiteral is a run of text that matched no delimiter.
	TokenLiteral TokenKind = iota
	// TokenDelimiter is a configured delimiter.
	TokenDelimiter
	// TokenEscape is the configured escape symbol.
	TokenEscape
)

func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"
	case TokenDelimiter:
		return "delimiter"
	case TokenEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Tokenize splits line into tokens. Delimiters are tried in order at every
// position, so a delimiter must be listed before any shorter delimiter that is
// its prefix. A delimiter equal to escape yields a TokenEscape.
//
// An empty line yields a single empty literal token.
func Tokenize(line string, delimiters []string, escape string) []Token {
	return appendTokens(nil, line, delimiters, escape)
}

func appendTokens(dst []Token, line string, delimiters []string, escape string) []Token {
	if line == "" {
		return append(dst, Token{Kind: TokenLiteral})
	}
	start := 0
	i := 0
	for i < len(line) {
		delim := matchDelimiter(line, i, delimiters)
		if delim == "" {
			_, size := utf8.DecodeRuneInString(line[i:])
			i += size
			continue
		}
		if start < i {
			dst = append(dst, Token{Value: line[start:i], Kind: TokenLiteral})
		}
		kind := TokenDelimiter
		if delim == escape {
			kind = TokenEscape
		}
		dst = append(dst, Token{Value: delim, Kind: kind})
		i += len(delim)
		start = i
	}
	if start < len(line) {
		dst = append(dst, Token{Value: line[start:], Kind: TokenLiteral})
	}
	return dst
}

func matchDelimiter(line string, pos int, delimiters []string) string {
	rest := line[pos:]
	for _, d := range delimiters {
		if d != "" && strings.HasPrefix(rest, d) {
			return d
		}
	}
	return ""
}
