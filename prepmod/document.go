package prepmod

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseDocument parses a page body. Malformed markup still produces a
// (possibly empty) document; it never fails.
func ParseDocument(body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		root := &html.Node{Type: html.DocumentNode}
		return goquery.NewDocumentFromNode(root)
	}
	return doc
}

// textNodes returns every descendant text node of n in document order,
// whitespace-only nodes included.
func textNodes(n *html.Node) []string {
	var texts []string
	collectText(n, &texts)
	return texts
}

func collectText(n *html.Node, texts *[]string) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		*texts = append(*texts, n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, texts)
	}
}

// textPart returns the index-th text node under n.
func textPart(n *html.Node, index int) (string, bool) {
	texts := textNodes(n)
	if index < 0 || index >= len(texts) {
		return "", false
	}
	return texts[index], true
}

// joinedText concatenates all descendant text of n with single spaces.
func joinedText(n *html.Node) string {
	return strings.Join(textNodes(n), " ")
}
