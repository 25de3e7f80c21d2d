package mdhtml

import (
	"net/url"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// fragment is one finalized piece of a line's output.
type fragment struct {
	text string
	// opener is set while the fragment is an unmatched opening delimiter.
	opener string
	// escape marks a pending escape that applies to the next token.
	escape bool
}

type resolver struct {
	r      *Renderer
	tokens []Token
	out    []fragment
	// openers maps a symbol to the output positions of its unmatched
	// openers, innermost last.
	openers map[string][]int
	// polarity is the open (+1) or close (-1) expectation of a symbol.
	polarity map[string]int
	// opened lists symbols in the order they were last opened.
	opened   []string
	inCode   bool
	lastCode int
	sb       strings.Builder
}

var resolverPool = sync.Pool{
	New: func() any {
		return &resolver{
			openers:  make(map[string][]int),
			polarity: make(map[string]int),
		}
	},
}

func (s *resolver) reset(r *Renderer) {
	s.r = r
	s.tokens = s.tokens[:0]
	s.out = s.out[:0]
	for k := range s.openers {
		delete(s.openers, k)
	}
	for k := range s.polarity {
		delete(s.polarity, k)
	}
	s.opened = s.opened[:0]
	s.inCode = false
	s.lastCode = -1
	s.sb.Reset()
}

// ResolveInline converts the inline markup of a single line to HTML.
func (r *Renderer) ResolveInline(line string) string {
	s := resolverPool.Get().(*resolver)
	s.reset(r)
	s.tokens = appendTokens(s.tokens, line, r.dialect.Delimiters, r.dialect.Escape)
	out := s.resolve(s.tokens)
	s.reset(nil)
	resolverPool.Put(s)
	return out
}

// Resolve converts a tokenized line to HTML.
func (r *Renderer) Resolve(tokens []Token) string {
	s := resolverPool.Get().(*resolver)
	s.reset(r)
	out := s.resolve(tokens)
	s.reset(nil)
	resolverPool.Put(s)
	return out
}

func (s *resolver) resolve(tokens []Token) string {
	if s.r.mask != "" {
		for i := len(tokens) - 1; i >= 0; i-- {
			if tokens[i].Kind == TokenDelimiter && tokens[i].Value == s.r.mask {
				s.lastCode = i
				break
			}
		}
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		escaped := s.topIsEscape()
		if !escaped && !s.inCode && s.link(tokens, i) {
			i += 5
			continue
		}
		if escaped {
			s.out = s.out[:len(s.out)-1]
			s.push(fragment{text: tok.Value})
			continue
		}
		tag, isTag := s.r.tags[tok.Value]
		if tok.Kind != TokenDelimiter || !isTag {
			s.push(fragment{text: tok.Value, escape: tok.Kind == TokenEscape})
			continue
		}
		if tag.Masks {
			s.inCode = i < s.lastCode && !s.inCode
		} else if s.inCode {
			s.push(fragment{text: tok.Value})
			continue
		}
		bias := s.bias(tag)
		if bias != 0 {
			if !validDelimiter(tokens, i, bias) {
				s.push(fragment{text: s.r.dialect.Escape + tok.Value})
				continue
			}
			s.polarity[tag.Symbol] = -bias
		}
		if s.close(tag) {
			continue
		}
		s.open(tag, bias)
	}
	for _, f := range s.out {
		s.sb.WriteString(f.text)
	}
	return s.r.unescape.Replace(s.sb.String())
}

func (s *resolver) push(f fragment) {
	s.out = append(s.out, f)
}

func (s *resolver) topIsEscape() bool {
	return len(s.out) > 0 && s.out[len(s.out)-1].escape
}

// bias returns +1 when the delimiter is expected to open, -1 when it is
// expected to close and 0 when another symbol was opened more recently.
func (s *resolver) bias(tag Tag) int {
	p, ok := s.polarity[tag.Symbol]
	if !ok {
		return tag.InitialBias
	}
	if n := len(s.opened); n > 0 && s.opened[n-1] == tag.Symbol {
		return p
	}
	return 0
}

func (s *resolver) open(tag Tag, bias int) {
	s.openers[tag.Symbol] = append(s.openers[tag.Symbol], len(s.out))
	s.push(fragment{text: tag.Symbol, opener: tag.Symbol})
	if bias == 0 {
		s.polarity[tag.Symbol] = -tag.InitialBias
	}
	for i, sym := range s.opened {
		if sym == tag.Symbol {
			s.opened = append(s.opened[:i], s.opened[i+1:]...)
			break
		}
	}
	s.opened = append(s.opened, tag.Symbol)
}

// close pairs the delimiter with its innermost unmatched opener. Openers of
// other symbols inside the span become literal text.
func (s *resolver) close(tag Tag) bool {
	stack := s.openers[tag.Symbol]
	if len(stack) == 0 {
		return false
	}
	pos := stack[len(stack)-1]
	s.openers[tag.Symbol] = stack[:len(stack)-1]
	var body strings.Builder
	for _, f := range s.out[pos+1:] {
		if f.opener != "" {
			inner := s.openers[f.opener]
			s.openers[f.opener] = inner[:len(inner)-1]
		}
		body.WriteString(f.text)
	}
	s.out = s.out[:pos]
	s.push(fragment{text: s.r.wrapSpan(tag, body.String())})
	return true
}

// link recognizes [text](url) starting at tokens[i].
func (s *resolver) link(tokens []Token, i int) bool {
	if i+5 >= len(tokens) {
		return false
	}
	t := tokens[i : i+6]
	if !isDelimiter(t[0], "[") || t[1].Kind != TokenLiteral ||
		!isDelimiter(t[2], "]") || !isDelimiter(t[3], "(") ||
		t[4].Kind != TokenLiteral || !isDelimiter(t[5], ")") {
		return false
	}
	s.push(fragment{text: s.r.link(t[4].Value, t[1].Value)})
	return true
}

func isDelimiter(tok Token, value string) bool {
	return tok.Kind == TokenDelimiter && tok.Value == value
}

// validDelimiter rejects a closer that follows whitespace and an opener that
// precedes whitespace.
func validDelimiter(tokens []Token, i int, bias int) bool {
	if bias < 0 {
		if i == 0 {
			return true
		}
		r, size := utf8.DecodeLastRuneInString(tokens[i-1].Value)
		return size == 0 || !unicode.IsSpace(r)
	}
	if i+1 >= len(tokens) {
		return true
	}
	r, size := utf8.DecodeRuneInString(tokens[i+1].Value)
	return size == 0 || !unicode.IsSpace(r)
}

func (r *Renderer) wrapSpan(tag Tag, body string) string {
	if tag.SuppressDigits && onlyDigits(body) {
		return tag.Symbol + body + tag.Symbol
	}
	return r.openTag(tag.Element) + body + "</" + tag.Element + ">"
}

func onlyDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (r *Renderer) link(target, text string) string {
	href := target
	if !isAbsoluteURI(target) {
		href = r.cfg.baseURL + target
	}
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(strings.ReplaceAll(href, `"`, "&quot;"))
	b.WriteByte('"')
	b.WriteString(r.styleAttr)
	b.WriteByte('>')
	b.WriteString(text)
	b.WriteString("</a>")
	return b.String()
}

func isAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
