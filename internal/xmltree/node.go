// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package xmltree provides a small navigable element tree for OOXML parts.
// Element names carry the conventional namespace prefix ("w:p", "m:oMath")
// regardless of the prefix used in the source document.
package xmltree

import "strings"

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a single attribute. Attributes keep document order.
type Attr struct {
	Name  string
	Value string
}

// Node is either an element (Name, Attrs, Children) or a text leaf (Value).
type Node struct {
	Type     NodeType
	Name     string
	Attrs    []Attr
	Children []*Node
	Value    string
}

// Element builds an element node.
func Element(name string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Name: name, Attrs: attrs, Children: children}
}

// Text builds a text leaf.
func Text(value string) *Node {
	return &Node{Type: TextNode, Value: value}
}

func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when it is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// First returns the first direct child element with the given name, or nil.
func (n *Node) First(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Type == ElementNode && c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every direct child element with the given name.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode && c.Name == name {
			result = append(result, c)
		}
	}
	return result
}

// Elements returns the element children, skipping text leaves.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	result := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Type == ElementNode {
			result = append(result, c)
		}
	}
	return result
}

// TextOf concatenates, in document order, the text leaves whose parent
// element is named one of parents.
func (n *Node) TextOf(parents ...string) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	type frame struct {
		node   *Node
		parent string
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.Type == TextNode {
			for _, p := range parents {
				if f.parent == p {
					b.WriteString(f.node.Value)
					break
				}
			}
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: f.node.Name})
		}
	}
	return b.String()
}

// LocalName strips a "prefix:" or "{uri}" qualifier from an element name.
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, '}'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
