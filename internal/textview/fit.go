package textview

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// fitURL shortens a link target wider than limit cells. The scheme is dropped
// first; if that is not enough the target is cut and ends in an ellipsis.
func fitURL(target string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(target) <= limit {
		return target
	}
	if _, rest, ok := strings.Cut(target, "://"); ok && ansi.PrintableRuneWidth(rest) <= limit {
		return rest
	}
	return truncate.StringWithTail(target, uint(limit), ellipsis)
}
