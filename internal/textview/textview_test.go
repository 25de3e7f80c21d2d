package textview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "heading", in: "<p><h2> Title</h2></p>", want: "## Title"},
		{name: "list", in: "<p><ol><li>one</li>\n<li>two</li></ol></p>", want: "1. one\n2. two"},
		{name: "code", in: "<p><pre><code>x := 1</code></pre></p>", want: "    x := 1"},
		{name: "link", in: `<p>see <a href="https://example.com/x">site</a></p>`, want: "see site (https://example.com/x)"},
		{name: "inline", in: "<p><em>a</em> <strong>b</strong> <code>c</code></p>", want: "a b c"},
		{name: "entities", in: "<p>a &lt;b&gt; &amp;</p>", want: "a <b> &"},
		{name: "blank lines", in: "<p>a</p>\n\n<p>b</p>", want: "a\n\nb"},
		{name: "wrap", in: "<p>aaa bbb ccc</p>", width: 7, want: "aaa bbb\nccc"},
		{name: "mixed kinds", in: "<p><h1> T</h1>\ntext\n<pre><code>code</code></pre></p>", want: "# T\ntext\n    code"},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Render(tc.in, tc.width)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Render(%q, %d) mismatch (-want +got):\n%s", tc.in, tc.width, diff)
			}
		})
	}
}

func TestRenderListNumberingRestarts(t *testing.T) {
	in := "<p><ol><li>a</li>\n<li>b</li></ol></p>\n<p><ol><li>c</li></ol></p>"
	want := "1. a\n2. b\n1. c"
	if got := Render(in, 0); got != want {
		t.Fatalf("unexpected numbering: %q want %q", got, want)
	}
}

func TestFitURL(t *testing.T) {
	cases := []struct {
		url   string
		limit int
		want  string
	}{
		{url: "https://example.com", limit: 40, want: "https://example.com"},
		{url: "https://example.com", limit: 12, want: "example.com"},
		{url: "https://example.com/long", limit: 15, want: "https://exampl…"},
		{url: "https://example.com/long", limit: 1, want: "…"},
		{url: "https://example.com/long", limit: 0, want: ""},
		{url: "mailto:someone@example.com", limit: 10, want: "mailto:so…"},
	}
	for _, tc := range cases {
		if got := fitURL(tc.url, tc.limit); got != tc.want {
			t.Fatalf("fitURL(%q, %d)=%q want %q", tc.url, tc.limit, got, tc.want)
		}
	}
}
