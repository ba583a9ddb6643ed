package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text strips all markup from a free-text field and trims whitespace.
// Every free-text value headed for storage passes through here.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Rich keeps safe user-generated markup (used for narrative fields that
// may carry formatting, e.g. grading rubrics and directives).
func Rich(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// TextSlice sanitizes every element, dropping entries that end up empty.
func TextSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := Text(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
