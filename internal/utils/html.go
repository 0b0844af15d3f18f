package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText extracts the visible text of an HTML body. Used to build a
// plain-text preview for emails that arrived with only an HTML part.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style,head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
