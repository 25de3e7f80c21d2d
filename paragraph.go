package mdhtml

import "strings"

// RenderParagraph renders the raw lines of one paragraph. Consecutive lines of
// the same kind share one wrapping block; headers of different levels do not.
// An empty paragraph renders as "".
func (r *Renderer) RenderParagraph(lines []string, sep string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	r.renderLines(&b, make([]Line, 0, len(lines)), lines, sep)
	return b.String()
}

// renderLines classifies raw lines into scratch and writes the assembled
// paragraph to b. It returns scratch for reuse.
func (r *Renderer) renderLines(b *strings.Builder, scratch []Line, lines []string, sep string) []Line {
	scratch = scratch[:0]
	for _, raw := range lines {
		scratch = append(scratch, r.ClassifyLine(raw))
	}
	r.assemble(b, scratch, sep)
	return scratch
}

func (r *Renderer) assemble(b *strings.Builder, lines []Line, sep string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(r.openTag("p"))
	b.WriteString(lines[0].Open)
	for i := 0; i < len(lines)-1; i++ {
		line, next := lines[i], lines[i+1]
		b.WriteString(line.Value)
		if line.Kind != next.Kind || line.Open != next.Open {
			b.WriteString(line.Close)
			b.WriteString(sep)
			b.WriteString(next.Open)
			continue
		}
		b.WriteString(sep)
	}
	last := lines[len(lines)-1]
	b.WriteString(last.Value)
	b.WriteString(last.Close)
	b.WriteString("</p>")
}
