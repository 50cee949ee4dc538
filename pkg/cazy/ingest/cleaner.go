package ingest

import (
	"regexp"
	"strings"
)

var (
	tagPattern     = regexp.MustCompile(`<.*?>`)
	urlPattern     = regexp.MustCompile(`http\S+`)
	wwwPattern     = regexp.MustCompile(`www\S+`)
	bracePattern   = regexp.MustCompile(`\{[^{}]*\}`)
	numericPattern = regexp.MustCompile(`^\p{Nd}+(?:,\p{Nd}*)?(\n?)$`)
)

// Clean removes markup and boilerplate from a raw document.
// Steps, in order: lowercase, drop the "{html}" marker, strip <...> tags,
// strip http and www links, strip {...} annotations, and blank the
// result if all that remains is a number such as "1234" or "12,5".
func Clean(doc string) string {
	doc = strings.ToLower(doc)
	doc = strings.ReplaceAll(doc, "{html}", "")
	doc = tagPattern.ReplaceAllString(doc, "")
	doc = urlPattern.ReplaceAllString(doc, "")
	doc = wwwPattern.ReplaceAllString(doc, "")
	doc = bracePattern.ReplaceAllString(doc, "")
	return numericPattern.ReplaceAllString(doc, "$1")
}
