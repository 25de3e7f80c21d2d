package mdhtml

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Tag maps a delimiter symbol to the HTML element it produces.
type Tag struct {
	Symbol  string
	Element string
	// InitialBias is +1 when the first occurrence on a line opens the tag.
	InitialBias int
	// SuppressDigits leaves spans whose body is only digits unwrapped, so
	// that text like 1_2_3 is not read as markup.
	SuppressDigits bool
	// Masks disables all other markup inside the span.
	Masks bool
}

// Dialect is the delimiter and tag table shared by the tokenizer and the
// inline resolver. A Dialect must not be modified after it is handed to
// NewRenderer.
type Dialect struct {
	// Delimiters are tried in order; longer delimiters come first.
	Delimiters []string
	Escape     string
	Tags       []Tag
}

// DefaultDialect returns the standard table: __ strong, _ emphasis, ` code,
// backslash escapes and the bracket pairs used by links.
func DefaultDialect() *Dialect {
	return &Dialect{
		Delimiters: []string{"__", "_", "`", `\`, "[", "]", "(", ")"},
		Escape:     `\`,
		Tags: []Tag{
			{Symbol: "__", Element: "strong", InitialBias: 1, SuppressDigits: true},
			{Symbol: "_", Element: "em", InitialBias: 1, SuppressDigits: true},
			{Symbol: "`", Element: "code", InitialBias: 1, Masks: true},
		},
	}
}

// Validate reports whether the dialect can be used for rendering.
func (d *Dialect) Validate() error {
	if d == nil {
		return errors.New("dialect: nil")
	}
	if len(d.Delimiters) == 0 {
		return errors.New("dialect: no delimiters")
	}
	known := make(map[string]struct{}, len(d.Delimiters))
	for i, delim := range d.Delimiters {
		if delim == "" {
			return errors.Newf("dialect: delimiter %d is empty", i)
		}
		for _, prev := range d.Delimiters[:i] {
			if strings.HasPrefix(delim, prev) {
				return errors.Newf("dialect: delimiter %q is shadowed by earlier %q", delim, prev)
			}
		}
		known[delim] = struct{}{}
	}
	if d.Escape != "" {
		if _, ok := known[d.Escape]; !ok {
			return errors.Newf("dialect: escape %q is not a delimiter", d.Escape)
		}
	}
	seen := make(map[string]struct{}, len(d.Tags))
	masks := 0
	for _, tag := range d.Tags {
		if _, ok := known[tag.Symbol]; !ok {
			return errors.Newf("dialect: tag symbol %q is not a delimiter", tag.Symbol)
		}
		if tag.Symbol == d.Escape {
			return errors.Newf("dialect: tag symbol %q is the escape", tag.Symbol)
		}
		if _, dup := seen[tag.Symbol]; dup {
			return errors.Newf("dialect: duplicate tag %q", tag.Symbol)
		}
		seen[tag.Symbol] = struct{}{}
		if tag.Element == "" {
			return errors.Newf("dialect: tag %q has no element", tag.Symbol)
		}
		if tag.InitialBias != 1 && tag.InitialBias != -1 {
			return errors.Newf("dialect: tag %q has bias %d", tag.Symbol, tag.InitialBias)
		}
		if tag.Masks {
			masks++
		}
	}
	if masks > 1 {
		return errors.New("dialect: more than one masking tag")
	}
	return nil
}

func (d *Dialect) tag(symbol string) (Tag, bool) {
	for _, t := range d.Tags {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Tag{}, false
}

func (d *Dialect) maskSymbol() string {
	for _, t := range d.Tags {
		if t.Masks {
			return t.Symbol
		}
	}
	return ""
}

// unescaper removes an escape in front of any tag symbol. Longer symbols are
// listed first so that an escaped __ keeps both underscores.
func (d *Dialect) unescaper() *strings.Replacer {
	if d.Escape == "" || len(d.Tags) == 0 {
		return strings.NewReplacer()
	}
	symbols := make([]string, 0, len(d.Tags))
	for _, delim := range d.Delimiters {
		if _, ok := d.tag(delim); ok {
			symbols = append(symbols, delim)
		}
	}
	pairs := make([]string, 0, 2*len(symbols))
	for _, s := range symbols {
		pairs = append(pairs, d.Escape+s, s)
	}
	return strings.NewReplacer(pairs...)
}
