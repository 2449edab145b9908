// Package htmlutil has small helpers for walking parsed HTML documents.
package htmlutil

import (
	"golang.org/x/net/html"
)

// Visit calls fn for node and each of its descendants, in document order.
// Traversal stops at the first error.
func Visit(node *html.Node, fn func(*html.Node) error) error {
	if err := fn(node); err != nil {
		return err
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := Visit(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Attr returns the value of the named un-namespaced attribute.
func Attr(node *html.Node, name string) (val string, ok bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of node's descendants.
func Text(node *html.Node) string {
	var ret string
	_ = Visit(node, func(n *html.Node) error {
		if n.Type == html.TextNode {
			ret += n.Data
		}
		return nil
	})
	return ret
}
