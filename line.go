package mdhtml

import (
	"strconv"
	"strings"
	"unicode"
)

// LineKind is the block classification of a line.
type LineKind uint8

const (
	LineBasic LineKind = iota
	LineHeader
	LineCodeBlock
	LineOrderedList
)

func (k LineKind) String() string {
	switch k {
	case LineBasic:
		return "basic"
	case LineHeader:
		return "header"
	case LineCodeBlock:
		return "code-block"
	case LineOrderedList:
		return "ordered-list"
	default:
		return "LineKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Line is a classified input line. Open and Close are the tags of the block
// that wraps consecutive lines of the same kind.
type Line struct {
	Value string
	Kind  LineKind
	Open  string
	Close string
}

const maxHeaderLevel = 6

type lineInput uint8

const (
	rawInput lineInput = iota
	resolvedInput
)

type lineMatcher struct {
	input lineInput
	match func(r *Renderer, text string) (Line, bool)
}

// Matchers run in order; the first match wins and unmatched lines are basic.
var lineMatchers = [...]lineMatcher{
	{input: rawInput, match: (*Renderer).matchCodeBlock},
	{input: rawInput, match: (*Renderer).matchOrderedList},
	{input: resolvedInput, match: (*Renderer).matchHeader},
}

var angleEscaper = strings.NewReplacer(`\<`, "&lt;", `\>`, "&gt;")

// ClassifyLine classifies a raw line and renders its content. Code blocks and
// list items are detected on the raw text; headers on the inline-resolved
// text, which is computed at most once.
func (r *Renderer) ClassifyLine(raw string) Line {
	raw = angleEscaper.Replace(raw)
	resolved, haveResolved := "", false
	for _, m := range lineMatchers {
		text := raw
		if m.input == resolvedInput {
			if !haveResolved {
				resolved, haveResolved = r.ResolveInline(raw), true
			}
			text = resolved
		}
		if line, ok := m.match(r, text); ok {
			return line
		}
	}
	if !haveResolved {
		resolved = r.ResolveInline(raw)
	}
	return Line{Value: resolved, Kind: LineBasic}
}

func (r *Renderer) matchCodeBlock(text string) (Line, bool) {
	var body string
	switch {
	case strings.HasPrefix(text, "\t"):
		body = text[1:]
	case strings.HasPrefix(text, "    "):
		body = text[4:]
	default:
		return Line{}, false
	}
	return Line{
		Value: body,
		Kind:  LineCodeBlock,
		Open:  r.openTag("pre") + r.openTag("code"),
		Close: "</code></pre>",
	}, true
}

// matchOrderedList accepts "<digits>. <item>". The number is not checked
// against the item's position. The item text is kept raw.
func (r *Renderer) matchOrderedList(text string) (Line, bool) {
	dot := strings.IndexByte(text, '.')
	if dot <= 0 || dot+1 >= len(text) || text[dot+1] != ' ' {
		return Line{}, false
	}
	for _, c := range text[:dot] {
		if !unicode.IsDigit(c) {
			return Line{}, false
		}
	}
	item := strings.TrimLeft(text[dot+1:], " ")
	return Line{
		Value: r.openTag("li") + item + "</li>",
		Kind:  LineOrderedList,
		Open:  r.openTag("ol"),
		Close: "</ol>",
	}, true
}

// matchHeader strips up to six leading #. Extra # stay in the text.
func (r *Renderer) matchHeader(text string) (Line, bool) {
	level := 0
	for level < maxHeaderLevel && level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 {
		return Line{}, false
	}
	element := headerElements[level]
	return Line{
		Value: text[level:],
		Kind:  LineHeader,
		Open:  r.openTag(element),
		Close: "</" + element + ">",
	}, true
}

var headerElements = [maxHeaderLevel + 1]string{"", "h1", "h2", "h3", "h4", "h5", "h6"}
