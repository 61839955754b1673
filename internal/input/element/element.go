// Package element describes the node a key signal originated from.
//
// Signal sources attach an Element to every key-down so the blocking
// predicate can decide whether shortcut handling is suppressed for it
// (for example while focus is inside a text field). Hosts with a real
// widget tree implement Element over their own nodes; Node is a small
// in-memory implementation used by the terminal source and by tests.
package element

import "strings"

// Element is the originating node of a key signal.
type Element interface {
	// LocalName returns the lower-case tag name, e.g. "input".
	LocalName() string

	// HasAttribute reports whether the node carries the named attribute.
	HasAttribute(name string) bool

	// Parent returns the enclosing node, or nil at the document root.
	Parent() Element
}

// Node is a simple Element backed by a tag, an attribute set and a parent.
type Node struct {
	tag    string
	attrs  map[string]string
	parent *Node
}

// New creates a root node with the given tag name.
func New(tag string) *Node {
	return &Node{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
}

// Append creates a child node under n and returns it.
func (n *Node) Append(tag string) *Node {
	child := New(tag)
	child.parent = n
	return child
}

// SetAttribute sets an attribute on the node and returns the node.
func (n *Node) SetAttribute(name, value string) *Node {
	n.attrs[strings.ToLower(name)] = value
	return n
}

// RemoveAttribute deletes an attribute from the node.
func (n *Node) RemoveAttribute(name string) {
	delete(n.attrs, strings.ToLower(name))
}

// Attribute returns an attribute value and whether it is set.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[strings.ToLower(name)]
	return v, ok
}

// LocalName implements Element.
func (n *Node) LocalName() string {
	return n.tag
}

// HasAttribute implements Element.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.attrs[strings.ToLower(name)]
	return ok
}

// Parent implements Element.
// A nil parent is returned as an untyped nil so callers can compare with nil.
func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Ancestors walks from el up to the root, calling fn for each node
// including el itself. Walking stops early when fn returns false.
func Ancestors(el Element, fn func(Element) bool) {
	for cur := el; cur != nil; cur = cur.Parent() {
		if !fn(cur) {
			return
		}
	}
}
