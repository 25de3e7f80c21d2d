// Package textview turns a rendered HTML fragment back into plain text for
// terminal preview.
package textview

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const codeIndent = 4

type view struct {
	out    strings.Builder
	para   strings.Builder
	pre    strings.Builder
	width  int
	inPara bool
	inPre  bool
	hrefs  []string
	item   int
}

// Render converts a fragment to plain text. Headings get back their # markers
// and links are written as "text (url)". Paragraph text is wrapped at width; a
// width <= 0 disables wrapping.
func Render(fragment string, width int) string {
	v := view{width: width}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// The reader is a string, so the only error is io.EOF.
			v.flushPara()
			return v.out.String()
		case html.TextToken:
			v.write(string(z.Text()))
		case html.StartTagToken:
			v.start(z.Token())
		case html.EndTagToken:
			v.end(z.Token())
		}
	}
}

func (v *view) start(tok html.Token) {
	switch tok.DataAtom {
	case atom.P:
		v.flushPara()
		v.inPara = true
	case atom.Pre:
		v.flushPara()
		v.inPre = true
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(tok.Data[1] - '0')
		v.write(strings.Repeat("#", level))
	case atom.Ol:
		v.item = 0
	case atom.Li:
		v.item++
		v.write(strconv.Itoa(v.item) + ". ")
	case atom.A:
		v.hrefs = append(v.hrefs, attr(tok, "href"))
	}
}

func (v *view) end(tok html.Token) {
	switch tok.DataAtom {
	case atom.P:
		v.flushPara()
		v.inPara = false
	case atom.Pre:
		v.inPre = false
		v.out.WriteString(indent.String(v.pre.String(), codeIndent))
		v.pre.Reset()
	case atom.A:
		if n := len(v.hrefs); n > 0 {
			href := v.hrefs[n-1]
			v.hrefs = v.hrefs[:n-1]
			if href != "" {
				v.write(" (" + v.linkTarget(href) + ")")
			}
		}
	}
}

func (v *view) write(s string) {
	switch {
	case v.inPre:
		v.pre.WriteString(s)
	case v.inPara:
		v.para.WriteString(s)
	default:
		v.out.WriteString(s)
	}
}

func (v *view) flushPara() {
	if v.para.Len() == 0 {
		return
	}
	text := v.para.String()
	v.para.Reset()
	if v.width > 0 {
		text = wordwrap.String(text, v.width)
	}
	v.out.WriteString(text)
}

func (v *view) linkTarget(href string) string {
	if v.width <= 0 {
		return href
	}
	// Room for the surrounding parentheses.
	return fitURL(href, v.width-2)
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
