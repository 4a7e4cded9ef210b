package cookienonce

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// findLoginError extracts the text of WordPress's <div id="login_error"> block,
// skipping any links such as "Lost your password?".
func findLoginError(page []byte) (string, bool) {
	if !bytes.Contains(page, []byte("login_error")) {
		return "", false
	}
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false
	}
	node := findByID(doc, "login_error")
	if node == nil {
		return "", false
	}

	var sb strings.Builder
	collectText(node, &sb)
	msg := strings.Join(strings.Fields(sb.String()), " ")
	if msg == "" {
		return "", false
	}
	return msg, true
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && n.Data == "a" {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
