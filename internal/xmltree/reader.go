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

package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/nicholasgasior/docxtex/internal/ooxml"
)

// prefixes maps namespace URIs to the prefix used in element names.
var prefixes = map[string]string{
	ooxml.NSWordprocessingML: "w",
	ooxml.NSWordML2010:       "wordml",
	ooxml.NSOMML:             "m",
	ooxml.NSRelDoc:           "r",
	ooxml.NSDrawingML:        "a",
	ooxml.NSBibliography:     "b",
	ooxml.NSMarkupCompat:     "mc",
	ooxml.NSXML:              "xml",
}

// preserveSpace lists elements whose whitespace-only text is significant.
// Elsewhere whitespace between elements is dropped.
var preserveSpace = map[string]bool{
	"w:t":         true,
	"w:instrText": true,
	"w:delText":   true,
	"m:t":         true,
}

// ErrNoRoot is returned when the input holds no element at all.
var ErrNoRoot = errors.New("xmltree: no root element")

// ParseError wraps a failure to read a named package part.
type ParseError struct {
	Part string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Part, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Type: ElementNode, Name: qualify(t.Name), Attrs: attrs(t.Attr)}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				appendText(stack[len(stack)-1], string(t))
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// ParsePart parses the bytes of a named package part.
func ParsePart(part string, data []byte) (*Node, error) {
	root, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Part: part, Err: err}
	}
	return root, nil
}

func appendText(parent *Node, s string) {
	if !preserveSpace[parent.Name] && strings.TrimSpace(s) == "" {
		return
	}
	if k := len(parent.Children); k > 0 && parent.Children[k-1].Type == TextNode {
		parent.Children[k-1].Value += s
		return
	}
	parent.Children = append(parent.Children, Text(s))
}

func qualify(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if p, ok := prefixes[name.Space]; ok {
		return p + ":" + name.Local
	}
	// An undeclared prefix is left in Space verbatim by the decoder.
	if !strings.ContainsAny(name.Space, ":/") {
		return name.Space + ":" + name.Local
	}
	return "{" + name.Space + "}" + name.Local
}

func attrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	for _, a := range in {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, Attr{Name: qualify(a.Name), Value: a.Value})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// charsetReader decodes legacy single- and multi-byte declarations. A UTF-16
// declaration can only be read at all once the bytes were already transcoded
// to UTF-8, so those pass through unchanged.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	name, _ := htmlindex.Name(enc)
	if strings.HasPrefix(name, "utf-16") || name == "utf-8" {
		return input, nil
	}
	return enc.NewDecoder().Reader(input), nil
}
