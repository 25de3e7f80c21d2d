package mdhtml

import (
	"html"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// PageRequest configures WritePage.
type PageRequest struct {
	Writer io.Writer
	// Title is escaped; an empty title omits the title element.
	Title string
	// Body is a rendered fragment and is written as is.
	Body string
}

// WritePage wraps a rendered fragment in a minimal standalone HTML document.
func WritePage(req PageRequest) error {
	if req.Writer == nil {
		return errors.New("write page: writer is nil")
	}
	var b strings.Builder
	b.Grow(len(req.Body) + 128)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset='utf-8'>\n")
	if req.Title != "" {
		b.WriteString("<title>")
		b.WriteString(html.EscapeString(req.Title))
		b.WriteString("</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(req.Body)
	if req.Body != "" && !strings.HasSuffix(req.Body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")
	if _, err := io.WriteString(req.Writer, b.String()); err != nil {
		return errors.Wrap(err, "write page")
	}
	return nil
}
