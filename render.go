package mdhtml

import (
	"bufio"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Renderer converts the dialect to HTML. It is immutable once built and safe
// for concurrent use.
type Renderer struct {
	dialect   *Dialect
	cfg       renderConfig
	tags      map[string]Tag
	mask      string
	unescape  *strings.Replacer
	styleAttr string
	openTags  map[string]string
}

// NewRenderer builds a Renderer for a dialect. A nil dialect selects
// DefaultDialect.
func NewRenderer(d *Dialect, opts ...RenderOption) (*Renderer, error) {
	if d == nil {
		d = DefaultDialect()
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(err, "new renderer")
	}
	return newRenderer(d, buildConfig(opts)), nil
}

func newRenderer(d *Dialect, cfg renderConfig) *Renderer {
	// Own copies keep later edits to the caller's dialect from racing with
	// rendering.
	own := &Dialect{
		Delimiters: append([]string(nil), d.Delimiters...),
		Escape:     d.Escape,
		Tags:       append([]Tag(nil), d.Tags...),
	}
	r := &Renderer{
		dialect:  own,
		cfg:      cfg,
		tags:     make(map[string]Tag, len(own.Tags)),
		mask:     own.maskSymbol(),
		unescape: own.unescaper(),
		openTags: make(map[string]string),
	}
	for _, t := range own.Tags {
		r.tags[t.Symbol] = t
	}
	if cfg.style != "" {
		r.styleAttr = ` style="` + html.EscapeString(cfg.style) + `"`
	}
	elements := []string{"p", "pre", "code", "ol", "li"}
	elements = append(elements, headerElements[1:]...)
	for _, t := range own.Tags {
		elements = append(elements, t.Element)
	}
	for _, el := range elements {
		r.openTags[el] = "<" + el + r.styleAttr + ">"
	}
	return r
}

func (r *Renderer) openTag(element string) string {
	if tag, ok := r.openTags[element]; ok {
		return tag
	}
	return "<" + element + r.styleAttr + ">"
}

var defaultRenderer = sync.OnceValue(func() *Renderer {
	return newRenderer(DefaultDialect(), renderConfig{})
})

// Render converts text in the default dialect to an HTML fragment.
// Paragraphs are separated by blank lines and every blank line is kept, so the
// output has the same vertical spacing as the input.
func Render(markdown string, opts ...RenderOption) string {
	r := defaultRenderer()
	if len(opts) > 0 {
		r = newRenderer(r.dialect, buildConfig(opts))
	}
	return r.Render(markdown)
}

// Render converts text to an HTML fragment.
func (r *Renderer) Render(markdown string) string {
	if markdown == "" {
		return ""
	}
	sep := r.cfg.separator
	if sep == "" {
		sep = detectSeparator(markdown)
	}
	var b strings.Builder
	b.Grow(len(markdown) + len(markdown)/2)
	doc := documentWriter{r: r, sep: sep, emit: func(s string) error {
		b.WriteString(s)
		return nil
	}}
	for _, line := range strings.Split(markdown, sep) {
		_ = doc.line(line)
	}
	_ = doc.finish()
	return b.String()
}

// detectSeparator returns the line break used by the first line, defaulting
// to "\n".
func detectSeparator(s string) string {
	i := strings.IndexByte(s, '\n')
	if i > 0 && s[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// documentWriter groups lines into paragraphs and emits each rendered
// paragraph, preceded by the separator for all but the first.
type documentWriter struct {
	r       *Renderer
	sep     string
	emit    func(string) error
	pending []string
	emitted int
	scratch []Line
	b       strings.Builder
}

func (d *documentWriter) line(raw string) error {
	if !isBlankLine(raw) {
		d.pending = append(d.pending, raw)
		return nil
	}
	if err := d.flush(); err != nil {
		return err
	}
	return d.paragraph("")
}

func (d *documentWriter) finish() error {
	return d.flush()
}

func (d *documentWriter) flush() error {
	if len(d.pending) == 0 {
		return nil
	}
	d.b.Reset()
	d.scratch = d.r.renderLines(&d.b, d.scratch, d.pending, d.sep)
	d.pending = d.pending[:0]
	return d.paragraph(d.b.String())
}

func (d *documentWriter) paragraph(rendered string) error {
	if d.emitted > 0 {
		if err := d.emit(d.sep); err != nil {
			return err
		}
	}
	d.emitted++
	return d.emit(rendered)
}

// RenderRequest configures RenderStream.
type RenderRequest struct {
	Reader   io.Reader
	Writer   io.Writer
	Renderer *Renderer
	Options  []RenderOption
}

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// RenderStream reads text from Reader and writes HTML to Writer one paragraph
// at a time. Apart from dropping a leading byte order mark, the output is
// identical to Render on the same input. Input that is not valid UTF-8 or
// looks binary is rejected.
func RenderStream(req RenderRequest) error {
	if req.Reader == nil {
		return errors.New("render stream: reader is nil")
	}
	if req.Writer == nil {
		return errors.New("render stream: writer is nil")
	}
	r := req.Renderer
	if r == nil {
		r = defaultRenderer()
	}
	cfg := r.cfg
	if len(req.Options) > 0 {
		for _, opt := range req.Options {
			if opt != nil {
				opt(&cfg)
			}
		}
		r = newRenderer(r.dialect, cfg)
	}
	br := readerPool.Get().(*bufio.Reader)
	br.Reset(req.Reader)
	defer func() {
		br.Reset(nil)
		readerPool.Put(br)
	}()

	lines := lineReader{br: br, sep: cfg.separator}
	var check validator
	var fm frontMatterFilter
	doc := documentWriter{r: r, emit: func(s string) error {
		_, err := io.WriteString(req.Writer, s)
		return err
	}}
	feed := func(line string) error {
		if err := doc.line(line); err != nil {
			return errors.Wrap(err, "render stream: write")
		}
		return nil
	}
	first := true
	for {
		line, ok, err := lines.next()
		if err != nil {
			return errors.Wrap(err, "render stream: read")
		}
		if !ok {
			break
		}
		if first {
			line = trimBOM(line)
			first = false
		}
		if err := check.addLine(line); err != nil {
			return errors.Wrap(err, "render stream")
		}
		doc.sep = lines.sep
		if !cfg.frontMatter {
			if err := feed(line); err != nil {
				return err
			}
			continue
		}
		for _, l := range fm.push(line) {
			if err := feed(l); err != nil {
				return err
			}
		}
	}
	if cfg.frontMatter {
		for _, l := range fm.finish() {
			if err := feed(l); err != nil {
				return err
			}
		}
	}
	if err := doc.finish(); err != nil {
		return errors.Wrap(err, "render stream: write")
	}
	return nil
}

// lineReader splits a stream on sep. An empty sep is detected from the first
// line break.
type lineReader struct {
	br      *bufio.Reader
	sep     string
	buf     string
	started bool
	eof     bool
	done    bool
}

func (l *lineReader) next() (string, bool, error) {
	if l.done {
		return "", false, nil
	}
	for {
		if l.sep == "" {
			if strings.IndexByte(l.buf, '\n') >= 0 {
				l.sep = detectSeparator(l.buf)
			} else if l.eof {
				l.sep = "\n"
			}
		}
		if l.sep != "" {
			if i := strings.Index(l.buf, l.sep); i >= 0 {
				line := l.buf[:i]
				l.buf = l.buf[i+len(l.sep):]
				return line, true, nil
			}
		}
		if l.eof {
			l.done = true
			if !l.started {
				return "", false, nil
			}
			line := l.buf
			l.buf = ""
			return line, true, nil
		}
		chunk, err := l.br.ReadString('\n')
		if chunk != "" {
			l.started = true
			l.buf += chunk
		}
		if err == io.EOF {
			l.eof = true
		} else if err != nil {
			return "", false, err
		}
	}
}
