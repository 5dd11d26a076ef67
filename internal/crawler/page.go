package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements whose text is never rendered
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// ParsePage converts an HTML body into its visible text and the href of
// every anchor, both in document order
func ParsePage(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}

	var b strings.Builder
	for _, n := range doc.Nodes {
		collectText(n, &b)
	}

	page := &Page{Text: b.String()}
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			page.Links = append(page.Links, strings.TrimSpace(href))
		}
	})
	return page, nil
}

// collectText appends the text nodes under n, one space between nodes and
// whitespace inside a node collapsed the way a browser renders it
func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
