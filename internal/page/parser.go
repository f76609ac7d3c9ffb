package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reference"
)

// Parser parses pages fetched from one address.
type Parser struct {
	// baseURL is the address of the page, used for resolving relative links.
	baseURL *url.URL
}

// NewParser creates a parser for a page fetched from baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &Parser{baseURL: u}, nil
}

// DocumentPage is what the page of a voted document tells about it.
type DocumentPage struct {
	// Procedure is the first procedure reference printed on the page.
	Procedure *string

	// AmendmentPDFs are the tabled-amendment documents linked from the
	// amendments section, resolved against the page address.
	AmendmentPDFs []string
}

// Paragraphs returns the <p> elements of a minutes page in document order.
// Paragraphs with the same parent element share a Block number.
func (p *Parser) Paragraphs(r io.Reader) ([]model.Paragraph, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	blocks := make(map[*html.Node]int)
	var paragraphs []model.Paragraph
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			block, ok := blocks[n.Parent]
			if !ok {
				block = len(blocks)
				blocks[n.Parent] = block
			}
			paragraphs = append(paragraphs, model.Paragraph{
				Block:     block,
				Text:      textContent(n),
				Fragments: fragments(n),
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return paragraphs, nil
}

// ParseDocument reads the page of a voted document.
func (p *Parser) ParseDocument(r io.Reader) (*DocumentPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	result := &DocumentPage{AmendmentPDFs: make([]string, 0)}
	var walk func(n *html.Node, inAmendments bool)
	walk = func(n *html.Node, inAmendments bool) {
		switch n.Type {
		case html.TextNode:
			if result.Procedure == nil {
				result.Procedure = reference.Procedure(n.Data)
			}
		case html.ElementNode:
			if getAttr(n, "id") == "amdData" {
				inAmendments = true
			}
			if inAmendments && n.DataAtom == atom.A && getAttr(n, "aria-label") == "pdf" {
				if link := p.resolveURL(getAttr(n, "href")); link != "" {
					result.AmendmentPDFs = append(result.AmendmentPDFs, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inAmendments)
		}
	}
	walk(doc, false)

	return result, nil
}

// Attendance returns the names listed in the attendance register. Name
// lists are the "contents" paragraphs without a colon, split on ", ".
func (p *Parser) Attendance(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	names := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P && hasClass(n, "contents") {
			text := textContent(n)
			if !strings.Contains(text, ":") {
				for _, name := range strings.Split(text, ", ") {
					if name = strings.TrimSpace(name); name != "" {
						names = append(names, name)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return names, nil
}

// resolveURL resolves a relative link against the page address.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// fragments returns the trimmed non-empty text nodes below n.
func fragments(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
