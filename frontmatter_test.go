package mdhtml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderStreamOmitsFrontMatterAtStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		src   string
		want  string
		omits []string
	}{
		{
			name:  "yaml",
			src:   "---\ntitle: Post\ntags: [a, b]\n---\n\n# Hello\n\nBody.\n",
			want:  "\n<p><h1> Hello</h1></p>\n\n<p>Body.</p>\n",
			omits: []string{"title: Post", "tags:"},
		},
		{
			name:  "toml",
			src:   "+++\ntitle = \"Post\"\n+++\n# Hello",
			want:  "<p><h1> Hello</h1></p>",
			omits: []string{"title = "},
		},
		{
			name:  "json",
			src:   ";;;\n{\"title\": \"Post\"}\n;;;\n# Hello",
			want:  "<p><h1> Hello</h1></p>",
			omits: []string{"\"title\""},
		},
		{
			name: "crlf",
			src:  "---\r\ntitle: Post\r\n---\r\nBody",
			want: "<p>Body</p>",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := renderStream(t, tc.src, WithFrontMatter(true))
			if diff := cmp.Diff(tc.want, out); diff != "" {
				t.Fatalf("unexpected output (-want +got):\n%s", diff)
			}
			for _, bad := range tc.omits {
				if strings.Contains(out, bad) {
					t.Fatalf("unexpected %q in output: %q", bad, out)
				}
			}
		})
	}
}

func TestRenderStreamKeepsFrontMatterWhenDisabled(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Post\n---\nBody"
	if got, want := renderStream(t, src), Render(src); got != want {
		t.Fatalf("front matter stripped without option: %q want %q", got, want)
	}
}

func TestRenderFrontMatterIsOnlyCheckedAtStart(t *testing.T) {
	t.Parallel()
	src := "# Intro\n\n+++\ntitle = \"Keep me\"\n+++\n\nTail\n"
	if got, want := renderStream(t, src, WithFrontMatter(true)), Render(src); got != want {
		t.Fatalf("late front matter was touched: %q want %q", got, want)
	}
}

func TestRenderUnclosedFrontMatterIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Post\n\n# Hello\n"
	if got, want := renderStream(t, src, WithFrontMatter(true)), Render(src); got != want {
		t.Fatalf("unclosed front matter was stripped: %q want %q", got, want)
	}
}

func TestRenderStartDelimiterWithoutMetadataIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\n# Keep\n---\n\nTail\n"
	if got, want := renderStream(t, src, WithFrontMatter(true)), Render(src); got != want {
		t.Fatalf("non-metadata block was stripped: %q want %q", got, want)
	}
}

func TestRenderAfterInitialFrontMatterStopsCheckingForMore(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Skip\n---\nBody\n\n---\nkeep: yes\n---\n"
	out := renderStream(t, src, WithFrontMatter(true))
	if strings.Contains(out, "title: Skip") {
		t.Fatalf("unexpected front-matter content in output: %q", out)
	}
	for _, want := range []string{"Body", "keep: yes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestRenderDocument(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		src    string
		format string
		title  string
		meta   map[string]any
		html   string
	}{
		{
			name:   "yaml",
			src:    "---\ntitle: Post\ncount: 3\n---\n_Body_",
			format: "yaml",
			title:  "Post",
			meta:   map[string]any{"title": "Post", "count": 3},
			html:   "<p><em>Body</em></p>",
		},
		{
			name:   "toml",
			src:    "+++\ntitle = \"Post\"\ncount = 3\n+++\n_Body_",
			format: "toml",
			title:  "Post",
			meta:   map[string]any{"title": "Post", "count": int64(3)},
			html:   "<p><em>Body</em></p>",
		},
		{
			name:   "json",
			src:    ";;;\n{\"title\": \"Post\", \"count\": 3}\n;;;\n_Body_",
			format: "json",
			title:  "Post",
			meta:   map[string]any{"title": "Post", "count": float64(3)},
			html:   "<p><em>Body</em></p>",
		},
		{
			name: "none",
			src:  "# Plain",
			html: "<p><h1> Plain</h1></p>",
		},
		{
			name:   "bom",
			src:    "\uFEFF---\ntitle: Post\n---\nx",
			format: "yaml",
			title:  "Post",
			meta:   map[string]any{"title": "Post"},
			html:   "<p>x</p>",
		},
		{
			name:   "non-string title",
			src:    "---\ntitle: 42\n---\nx",
			format: "yaml",
			meta:   map[string]any{"title": 42},
			html:   "<p>x</p>",
		},
		{
			name: "empty",
			src:  "",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := RenderDocument(tc.src)
			if err != nil {
				t.Fatalf("RenderDocument: %v", err)
			}
			want := Document{HTML: tc.html, Format: tc.format, Meta: tc.meta, Title: tc.title}
			if diff := cmp.Diff(want, doc); diff != "" {
				t.Fatalf("RenderDocument(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestRenderDocumentOptions(t *testing.T) {
	doc, err := RenderDocument("---\ntitle: T\n---\n[a](b)", WithBaseURL("http://x/"))
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if want := `<p><a href="http://x/b">a</a></p>`; doc.HTML != want {
		t.Fatalf("unexpected html: %q want %q", doc.HTML, want)
	}
}

func TestRenderDocumentRejectsBadMetadata(t *testing.T) {
	for _, src := range []string{
		"---\ntitle: [unclosed\n---\nbody",
		"+++\ntitle = \n+++\nbody",
		";;;\n{\"title\": }\n;;;\nbody",
	} {
		if _, err := RenderDocument(src); err == nil {
			t.Fatalf("expected error for %q", src)
		} else if !strings.Contains(err.Error(), "front matter") {
			t.Fatalf("unexpected error for %q: %v", src, err)
		}
	}
}

func TestFrontMatterFilterProbeLimit(t *testing.T) {
	var f frontMatterFilter
	if out := f.push("---"); out != nil {
		t.Fatalf("opening delimiter released early: %q", out)
	}
	if out := f.push("key: value"); out != nil {
		t.Fatalf("metadata line released early: %q", out)
	}
	big := strings.Repeat("x", maxFrontMatterProbeBytes)
	out := f.push(big)
	if len(out) != 3 || out[0] != "---" || out[2] != big {
		t.Fatalf("oversized block was not released as content: %d lines", len(out))
	}
	if got := f.push("next"); len(got) != 1 || got[0] != "next" {
		t.Fatalf("filter did not pass through after release: %q", got)
	}
	if got := f.finish(); got != nil {
		t.Fatalf("unexpected lines at finish: %q", got)
	}
}
