// Package xmltree parses XML documents into a navigable element tree.
//
// The vote result exports are deeply nested, attribute-driven documents whose
// element names contain dots (e.g. "Vote.Result.Table.Results"). Decoding them
// into fixed structs would need one struct per schema revision, so the parsers
// walk a generic tree instead, using slash-separated paths:
//
//	root, err := xmltree.Parse(r)
//	for _, v := range root.FindAll("Vote.Results/Vote.Result") {
//	    title := v.FindText("Vote.Result.Text.Title")
//	}
//
// A path segment of "" (as in ".//voting") matches any descendant.
package xmltree
