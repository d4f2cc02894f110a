package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Small DOM helpers shared by the HTML-based extractors. The markup-specific
// location logic lives here so the extractors stay testable against literal
// HTML fixtures.

func parseHTML(body string) (*html.Node, error) {
	return html.Parse(strings.NewReader(body))
}

// walkNodes visits every element node under root in document order until fn
// returns false.
func walkNodes(root *html.Node, fn func(*html.Node) bool) {
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && !fn(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(root)
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// nodeText concatenates all text content under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// elementsWithAttr returns every element carrying the given attribute, in
// document order.
func elementsWithAttr(root *html.Node, key string) []*html.Node {
	var out []*html.Node
	walkNodes(root, func(n *html.Node) bool {
		if _, ok := attrValue(n, key); ok {
			out = append(out, n)
		}
		return true
	})
	return out
}

// firstByClass returns the first element whose class list contains name.
func firstByClass(root *html.Node, name string) *html.Node {
	var found *html.Node
	walkNodes(root, func(n *html.Node) bool {
		if classes, ok := attrValue(n, "class"); ok {
			for _, c := range strings.Fields(classes) {
				if c == name {
					found = n
					return false
				}
			}
		}
		return true
	})
	return found
}

var embeddedJSONRe = regexp.MustCompile(`\{.*\}`)

// embeddedJSON locates a JSON blob inside an HTML body: find the marker
// tag, cut at the next closing div, and take the outermost braces.
// Returns false when no blob is present.
func embeddedJSON(body, marker string) (string, bool) {
	start := strings.Index(body, marker)
	if start < 0 {
		return "", false
	}
	end := strings.Index(body[start:], "</div>")
	if end < 0 {
		return "", false
	}
	blob := embeddedJSONRe.FindString(body[start : start+end])
	if blob == "" {
		return "", false
	}
	return blob, true
}
