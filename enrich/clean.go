package enrich

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// CleanForEmbedding prepares content text for the embedding service.
// URLs are removed, HTML markup is reduced to its text, and runs of
// whitespace are collapsed. Content that is not HTML passes through
// with only the URL and whitespace treatment.
func CleanForEmbedding(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")

	if strings.ContainsAny(text, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	return strings.Join(strings.Fields(text), " ")
}
