package omdb

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizePlot turns a plot that may carry markup or entities
// ("Tom &amp; Jerry<br/>...") into a single line of plain text.
func normalizePlot(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(html.UnescapeString(s))
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" || n.Data == "p" {
				buf.WriteByte(' ')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return collapseWhitespace(buf.String())
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
