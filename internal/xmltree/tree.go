package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyDocument is returned when the input holds no root element.
var ErrEmptyDocument = errors.New("xml document has no root element")

// Node is an XML element.
type Node struct {
	// Name is the local element name.
	Name string

	// Attrs maps local attribute names to their values.
	Attrs map[string]string

	// Children are the child elements in document order.
	Children []*Node

	// Text is the character data before the first child element.
	Text string

	// Tail is the character data after this element's end tag and before
	// the next sibling.
	Tail string
}

// Parse reads a whole XML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root  *Node
		stack []*Node
		last  *Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			last = nil
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			last = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case xml.CharData:
			switch {
			case last != nil:
				last.Tail += string(t)
			case len(stack) > 0:
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// Find returns the first element matching path, or nil.
func (n *Node) Find(path string) *Node {
	matches := n.FindAll(path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindAll returns every element matching path in document order.
//
// Segments are separated by "/". A leading "./" is ignored, "." matches the
// current element and an empty segment ("//") descends any number of levels.
// A segment may carry one attribute predicate, e.g. TD[@COLNAME='C1'].
func (n *Node) FindAll(path string) []*Node {
	if n == nil {
		return nil
	}
	path = strings.TrimPrefix(path, "./")
	if strings.HasPrefix(path, "//") {
		path = path[1:]
	}
	current := []*Node{n}
	descend := false
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			descend = true
			continue
		}
		if seg == "." {
			continue
		}
		name, attr, value := parseSegment(seg)
		var next []*Node
		for _, c := range current {
			if descend {
				c.walk(func(d *Node) {
					if d != c && d.matches(name, attr, value) {
						next = append(next, d)
					}
				})
				continue
			}
			for _, child := range c.Children {
				if child.matches(name, attr, value) {
					next = append(next, child)
				}
			}
		}
		current = next
		descend = false
	}
	if len(current) == 1 && current[0] == n {
		return nil
	}
	return current
}

// FindText returns the direct text of the first element matching path.
// The second value is false when no element matched.
func (n *Node) FindText(path string) (string, bool) {
	m := n.Find(path)
	if m == nil {
		return "", false
	}
	return m.Text, true
}

// InnerText concatenates all character data below the element, in document
// order, without separators.
func (n *Node) InnerText() string {
	return strings.Join(n.Texts(), "")
}

// Texts returns the character data chunks below the element in document order.
func (n *Node) Texts() []string {
	if n == nil {
		return nil
	}
	var out []string
	var collect func(*Node)
	collect = func(c *Node) {
		if c.Text != "" {
			out = append(out, c.Text)
		}
		for _, child := range c.Children {
			collect(child)
			if child.Tail != "" {
				out = append(out, child.Tail)
			}
		}
	}
	collect(n)
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func (n *Node) matches(name, attr, value string) bool {
	if name != "*" && n.Name != name {
		return false
	}
	if attr == "" {
		return true
	}
	v, ok := n.Attrs[attr]
	return ok && v == value
}

// parseSegment splits "NAME[@ATTR='VALUE']" into its parts.
func parseSegment(seg string) (name, attr, value string) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, "", ""
	}
	name = seg[:open]
	pred := strings.TrimPrefix(seg[open+1:len(seg)-1], "@")
	eq := strings.IndexByte(pred, '=')
	if eq < 0 {
		return name, "", ""
	}
	attr = pred[:eq]
	value = strings.Trim(pred[eq+1:], `'"`)
	return name, attr, value
}
