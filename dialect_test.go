package mdhtml

import (
	"strings"
	"testing"
)

func TestDefaultDialectIsValid(t *testing.T) {
	if err := DefaultDialect().Validate(); err != nil {
		t.Fatalf("default dialect: %v", err)
	}
}

func TestDialectValidate(t *testing.T) {
	t.Parallel()
	base := func(mutate func(d *Dialect)) *Dialect {
		d := DefaultDialect()
		mutate(d)
		return d
	}
	tests := []struct {
		name string
		d    *Dialect
		want string
	}{
		{name: "nil", d: nil, want: "nil"},
		{name: "no delimiters", d: &Dialect{}, want: "no delimiters"},
		{name: "empty delimiter", d: base(func(d *Dialect) { d.Delimiters = append(d.Delimiters, "") }), want: "is empty"},
		{name: "shadowed", d: base(func(d *Dialect) { d.Delimiters = []string{"_", "__", "`", `\`} }), want: "shadowed"},
		{name: "escape unknown", d: base(func(d *Dialect) { d.Escape = "!" }), want: "escape"},
		{name: "tag unknown", d: base(func(d *Dialect) { d.Tags[0].Symbol = "~" }), want: "not a delimiter"},
		{name: "tag is escape", d: base(func(d *Dialect) { d.Tags[0].Symbol = `\` }), want: "is the escape"},
		{name: "duplicate", d: base(func(d *Dialect) { d.Tags[1].Symbol = "__" }), want: "duplicate"},
		{name: "no element", d: base(func(d *Dialect) { d.Tags[0].Element = "" }), want: "no element"},
		{name: "bias", d: base(func(d *Dialect) { d.Tags[0].InitialBias = 0 }), want: "bias"},
		{name: "two masks", d: base(func(d *Dialect) { d.Tags[0].Masks = true }), want: "masking"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.d.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCustomDialect(t *testing.T) {
	d := &Dialect{
		Delimiters: []string{"**", "*", "~~", `\`, "`"},
		Escape:     `\`,
		Tags: []Tag{
			{Symbol: "**", Element: "strong", InitialBias: 1},
			{Symbol: "*", Element: "em", InitialBias: 1, SuppressDigits: true},
			{Symbol: "~~", Element: "del", InitialBias: 1},
			{Symbol: "`", Element: "code", InitialBias: 1, Masks: true},
		},
	}
	r, err := NewRenderer(d)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	tests := map[string]string{
		"**a** *b* ~~c~~":  "<p><strong>a</strong> <em>b</em> <del>c</del></p>",
		"`*x*` *1* **2**":  "<p><code>*x*</code> *1* <strong>2</strong></p>",
		`\*a\* _plain_`:    "<p>*a* _plain_</p>",
		"[not](a link)":    "<p>[not](a link)</p>",
	}
	for in, want := range tests {
		if got := r.Render(in); got != want {
			t.Fatalf("Render(%q)=%q want %q", in, got, want)
		}
	}
}

func TestDialectWithoutEscape(t *testing.T) {
	d := &Dialect{
		Delimiters: []string{"_"},
		Tags:       []Tag{{Symbol: "_", Element: "em", InitialBias: 1}},
	}
	r, err := NewRenderer(d)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if got := r.ResolveInline(`\_a_ _b _`); got != `\<em>a</em> _b _` {
		t.Fatalf("unexpected output: %q", got)
	}
}
