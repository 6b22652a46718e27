package article

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// skipElements are subtrees that never contribute article text.
var skipElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"nav":      {},
	"header":   {},
	"footer":   {},
	"aside":    {},
	"form":     {},
	"iframe":   {},
}

// MainText reduces an HTML document to its main article text. Paragraph and
// heading elements are preferred; when a document carries none, all visible
// text is used as a fallback so unusual markup still resolves.
func MainText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	paragraphs := collectBlocks(root)
	if len(paragraphs) == 0 {
		if fallback := strings.TrimSpace(visibleText(root)); fallback != "" {
			return fallback, nil
		}
		return "", errors.New("document contains no extractable text")
	}
	return strings.Join(paragraphs, "\n"), nil
}

func collectBlocks(node *html.Node) []string {
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
			switch n.Data {
			case "p", "h1", "h2", "h3", "li", "blockquote":
				if text := strings.TrimSpace(visibleText(n)); text != "" {
					blocks = append(blocks, text)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return blocks
}

func visibleText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if builder.Len() > 0 {
					builder.WriteByte(' ')
				}
				builder.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}
