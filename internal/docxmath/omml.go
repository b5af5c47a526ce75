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

// Package docxmath translates Office Math Markup Language (OMML) element
// trees into LaTeX source.
//
// Translation is total: unknown elements are flattened into the
// concatenation of their children and absent properties fall back to fixed
// defaults. The only error is a MalformedInputError for trees nested deeper
// than the configured limit. A Translator holds no mutable state and may be
// shared between goroutines.
package docxmath

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// DefaultMaxDepth is the element nesting limit used unless WithMaxDepth says
// otherwise.
const DefaultMaxDepth = 64

// Translator converts OMML trees to LaTeX.
type Translator struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithMaxDepth sets the element nesting limit. Non-positive values keep the
// default.
func WithMaxDepth(depth int) Option {
	return func(t *Translator) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// New creates a Translator with the given options.
func New(opts ...Option) *Translator {
	t := &Translator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTranslator = New()

// Translate converts an OMML tree to LaTeX using default settings.
func Translate(n *xmltree.Node) (string, error) {
	return defaultTranslator.Translate(n)
}

// IsMathElement reports whether n is an m:oMath element.
func IsMathElement(n *xmltree.Node) bool {
	return n.IsElement() && n.Name == tagMath
}

// MaxDepth returns the nesting limit in effect.
func (t *Translator) MaxDepth() int {
	return t.maxDepth
}

// Translate converts the tree rooted at n to LaTeX. The result carries no
// math-mode delimiters.
func (t *Translator) Translate(n *xmltree.Node) (string, error) {
	return t.translate(n, 1)
}

// TranslateXML parses an XML document or fragment and converts every
// m:oMath element in it, in document order.
func (t *Translator) TranslateXML(r io.Reader) ([]string, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse OMML: %w", err)
	}

	var results []string
	for _, m := range FindMath(root) {
		latex, err := t.Translate(m)
		if err != nil {
			return results, err
		}
		results = append(results, latex)
	}
	return results, nil
}

// FindMath returns the m:oMath elements in the tree in document order. It
// does not look inside a math element once found.
func FindMath(root *xmltree.Node) []*xmltree.Node {
	var found []*xmltree.Node
	stack := []*xmltree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.IsElement() {
			continue
		}
		if IsMathElement(n) {
			found = append(found, n)
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return found
}

func (t *Translator) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// translate dispatches on the construct kind of n. depth counts elements
// from the translation root.
func (t *Translator) translate(n *xmltree.Node, depth int) (string, error) {
	switch {
	case n == nil:
		return "", nil
	case n.Type == xmltree.TextNode:
		return literal(n.Value), nil
	case n.Type != xmltree.ElementNode:
		return "", nil
	}
	if depth > t.maxDepth {
		return "", &MalformedInputError{Tag: n.Name, Depth: depth, Limit: t.maxDepth}
	}

	switch kind := KindOf(n.Name); kind {
	case RootKind, GenericOperandKind:
		return t.flatten(n, depth)
	case RunKind:
		return literal(ExtractText(n)), nil
	case SuperscriptKind:
		return t.doSup(n, depth)
	case SubscriptKind:
		return t.doSub(n, depth)
	case SubSupKind:
		return t.doSubSup(n, depth)
	case PreSubSupKind:
		return t.doPre(n, depth)
	case FractionKind:
		return t.doF(n, depth)
	case RadicalKind:
		return t.doRad(n, depth)
	case DelimiterKind:
		return t.doD(n, depth)
	case NaryKind:
		return t.doNary(n, depth)
	case FunctionKind:
		return t.doFunc(n, depth)
	case AccentKind:
		return t.doAcc(n, depth)
	case BarKind:
		return t.doBar(n, depth)
	case GroupCharKind:
		return t.doGroupChr(n, depth)
	case LowerLimitKind:
		return t.doLimLow(n, depth)
	case UpperLimitKind:
		return t.doLimUpp(n, depth)
	case EquationArrayKind:
		return t.doEqArr(n, depth)
	case MatrixKind:
		return t.doM(n, depth)
	case UnrecognizedKind:
		if !strings.HasSuffix(n.Name, "Pr") {
			t.log().Debug("flattening unrecognized math element", "tag", n.Name, "depth", depth)
		}
		return t.flatten(n, depth)
	default:
		return t.flatten(n, depth)
	}
}

// flatten concatenates the translations of all children of elm.
func (t *Translator) flatten(elm *xmltree.Node, depth int) (string, error) {
	var result strings.Builder
	for _, child := range elm.Children {
		latex, err := t.translate(child, depth+1)
		if err != nil {
			return "", err
		}
		result.WriteString(latex)
	}
	return result.String(), nil
}

// operands translates the first child named by each tag. A missing child
// yields "".
func (t *Translator) operands(elm *xmltree.Node, depth int, tags ...string) ([]string, error) {
	out := make([]string, len(tags))
	for i, tag := range tags {
		latex, err := t.translate(elm.First(tag), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = latex
	}
	return out, nil
}

// hasSlots reports whether elm has a direct child for every tag. It is
// checked before any operand is translated so a malformed construct is
// translated once, by flatten.
func hasSlots(elm *xmltree.Node, tags ...string) bool {
	for _, tag := range tags {
		if elm.First(tag) == nil {
			return false
		}
	}
	return true
}
