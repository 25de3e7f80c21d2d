package mdhtml

import (
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const maxFrontMatterProbeBytes = 64 * 1024

// frontMatterFilter drops a metadata block at the start of a document. Lines
// are held back until the block is either closed or ruled out.
type frontMatterFilter struct {
	decided bool
	delim   string
	held    []string
	size    int
	meta    []string
}

// push returns the lines that can be rendered now.
func (f *frontMatterFilter) push(line string) []string {
	if f.decided {
		return []string{line}
	}
	f.held = append(f.held, line)
	f.size += len(line)
	switch len(f.held) {
	case 1:
		delim, ok := openingFrontMatterDelimiter(line)
		if !ok {
			return f.release()
		}
		f.delim = delim
		return nil
	case 2:
		if !frontMatterMetadataLikely(line) {
			return f.release()
		}
	}
	if len(f.held) > 2 && strings.TrimSpace(line) == f.delim {
		f.meta = append(f.meta[:0], f.held[1:len(f.held)-1]...)
		f.held = f.held[:0]
		f.decided = true
		return nil
	}
	if f.size > maxFrontMatterProbeBytes {
		return f.release()
	}
	return nil
}

// finish releases anything still held back; an unclosed block is content.
func (f *frontMatterFilter) finish() []string {
	if f.decided {
		return nil
	}
	return f.release()
}

func (f *frontMatterFilter) release() []string {
	out := f.held
	f.held = nil
	f.decided = true
	f.delim = ""
	return out
}

func (f *frontMatterFilter) format() string {
	switch f.delim {
	case "---":
		return "yaml"
	case "+++":
		return "toml"
	case ";;;":
		return "json"
	default:
		return ""
	}
}

func openingFrontMatterDelimiter(line string) (string, bool) {
	switch trimmed := strings.TrimSpace(trimBOM(line)); trimmed {
	case "---", "+++", ";;;":
		return trimmed, true
	default:
		return "", false
	}
}

func frontMatterMetadataLikely(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.Contains(trimmed, ":") || strings.Contains(trimmed, "=")
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// Document is a rendered document together with its front matter.
type Document struct {
	HTML string
	// Format is "yaml", "toml" or "json", or empty without front matter.
	Format string
	Meta   map[string]any
	Title  string
}

// RenderDocument strips a leading front matter block, decodes it and renders
// the rest of the text.
func RenderDocument(markdown string, opts ...RenderOption) (Document, error) {
	r := defaultRenderer()
	if len(opts) > 0 {
		r = newRenderer(r.dialect, buildConfig(opts))
	}
	return r.RenderDocument(markdown)
}

// RenderDocument strips a leading front matter block, decodes it and renders
// the rest of the text.
func (r *Renderer) RenderDocument(markdown string) (Document, error) {
	markdown = trimBOM(markdown)
	sep := r.cfg.separator
	if sep == "" {
		sep = detectSeparator(markdown)
	}
	var f frontMatterFilter
	var body []string
	for _, line := range strings.Split(markdown, sep) {
		body = append(body, f.push(line)...)
	}
	body = append(body, f.finish()...)

	doc := Document{Format: f.format()}
	if doc.Format != "" {
		meta, err := decodeFrontMatter(doc.Format, strings.Join(f.meta, "\n"))
		if err != nil {
			return Document{}, errors.Wrap(err, "render document")
		}
		doc.Meta = meta
		if title, ok := meta["title"].(string); ok {
			doc.Title = title
		}
	}
	if markdown != "" {
		doc.HTML = r.Render(strings.Join(body, sep))
	}
	return doc, nil
}

func decodeFrontMatter(format, text string) (map[string]any, error) {
	meta := map[string]any{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal([]byte(text), &meta)
	case "toml":
		_, err = toml.Decode(text, &meta)
	case "json":
		err = json.Unmarshal([]byte(text), &meta)
	default:
		return nil, errors.Newf("front matter: unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "front matter: decode %s", format)
	}
	return meta, nil
}
