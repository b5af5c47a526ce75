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

package docxmath

import (
	"strings"

	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// doSup handles superscript elements.
func (t *Translator) doSup(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase, tagSup) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagSup)
	if err != nil {
		return "", err
	}
	return ops[0] + "^{" + ops[1] + "}", nil
}

// doSub handles subscript elements.
func (t *Translator) doSub(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase, tagSub) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagSub)
	if err != nil {
		return "", err
	}
	return ops[0] + "_{" + ops[1] + "}", nil
}

// doSubSup handles combined subscript-superscript elements.
func (t *Translator) doSubSup(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagSub, tagSup)
	if err != nil {
		return "", err
	}
	return ops[0] + scripts(ops[1], ops[2]), nil
}

// doPre handles pre-sub-superscript elements (scripts to the left).
func (t *Translator) doPre(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagSub, tagSup, tagBase)
	if err != nil {
		return "", err
	}
	pre := scripts(ops[0], ops[1])
	if pre == "" {
		return ops[2], nil
	}
	return "{}" + pre + ops[2], nil
}

// scripts renders the optional "_{sub}^{sup}" suffix.
func scripts(sub, sup string) string {
	var s string
	if sub != "" {
		s += "_{" + sub + "}"
	}
	if sup != "" {
		s += "^{" + sup + "}"
	}
	return s
}

// doF handles fraction elements.
func (t *Translator) doF(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagNum, tagDen) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagNum, tagDen)
	if err != nil {
		return "", err
	}
	num, den := ops[0], ops[1]

	typ, _ := PropertyValue(elm.First(tagFracPr), tagType, attrVal)
	switch typ {
	case fractionLinear:
		return num + "/" + den, nil
	case fractionNoBar:
		return `\binom{` + num + "}{" + den + "}", nil
	default:
		return `\frac{` + num + "}{" + den + "}", nil
	}
}

// doRad handles radical elements.
func (t *Translator) doRad(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagDeg)
	if err != nil {
		return "", err
	}
	text, deg := ops[0], ops[1]
	if deg != "" {
		return `\sqrt[` + deg + "]{" + text + "}", nil
	}
	return `\sqrt{` + text + "}", nil
}

// doD handles delimiter elements. Several m:e operands are joined by the
// separator character.
func (t *Translator) doD(elm *xmltree.Node, depth int) (string, error) {
	bases := elm.All(tagBase)
	if len(bases) == 0 {
		return t.flatten(elm, depth)
	}
	parts := make([]string, 0, len(bases))
	for _, e := range bases {
		latex, err := t.translate(e, depth+1)
		if err != nil {
			return "", err
		}
		parts = append(parts, latex)
	}

	dPr := elm.First(tagDelimPr)
	left := delimChar(dPr, tagBegChr, defaultDelimBegin)
	right := delimChar(dPr, tagEndChr, defaultDelimEnd)
	sep := defaultDelimSep
	if v, ok := PropertyValue(dPr, tagSepChr, attrVal); ok {
		sep = literal(v)
	}
	return `\left` + left + strings.Join(parts, sep) + `\right` + right, nil
}

// delimChar reads a begin or end character. An explicitly empty value means
// "no delimiter", which LaTeX spells as ".".
func delimChar(dPr *xmltree.Node, tag, def string) string {
	v, ok := PropertyValue(dPr, tag, attrVal)
	switch {
	case !ok:
		return def
	case v == "":
		return emptyDelim
	default:
		return literal(v)
	}
}

// doNary handles n-ary operator elements.
func (t *Translator) doNary(elm *xmltree.Node, depth int) (string, error) {
	op := defaultBigOperator
	if chr, ok := PropertyValue(elm.First(tagNaryPr), tagChr, attrVal); ok && chr != "" {
		if mapped, ok := bigOperators[chr]; ok {
			op = mapped
		} else {
			op = literal(chr)
		}
	}

	ops, err := t.operands(elm, depth, tagSub, tagSup, tagBase)
	if err != nil {
		return "", err
	}
	s := op + scripts(ops[0], ops[1])
	if base := ops[2]; base != "" {
		s += " " + base
	}
	return s, nil
}

// doFunc handles function-apply elements.
func (t *Translator) doFunc(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagFName, tagBase) {
		return t.flatten(elm, depth)
	}
	fName := elm.First(tagFName)
	arg, err := t.translate(elm.First(tagBase), depth+1)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(ExtractText(fName))
	if knownFunctions[name] {
		return `\` + name + "(" + arg + ")", nil
	}
	// Names may themselves be structured (a lower limit, a script).
	display, err := t.translate(fName, depth+1)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(display) + "(" + arg + ")", nil
}

// doAcc handles accent elements.
func (t *Translator) doAcc(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	base, err := t.translate(elm.First(tagBase), depth+1)
	if err != nil {
		return "", err
	}
	accent := defaultAccent
	if chr, ok := PropertyValue(elm.First(tagAccPr), tagChr, attrVal); ok {
		if mapped, ok := accentToLatex[chr]; ok {
			accent = mapped
		}
	}
	return accent + "{" + base + "}", nil
}

// doBar handles bar elements.
func (t *Translator) doBar(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	base, err := t.translate(elm.First(tagBase), depth+1)
	if err != nil {
		return "", err
	}
	if pos, _ := PropertyValue(elm.First(tagBarPr), tagPos, attrVal); pos == positionBottom {
		return `\underline{` + base + "}", nil
	}
	return `\overline{` + base + "}", nil
}

// doGroupChr handles group-character elements (braces over or under).
func (t *Translator) doGroupChr(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase) {
		return t.flatten(elm, depth)
	}
	base, err := t.translate(elm.First(tagBase), depth+1)
	if err != nil {
		return "", err
	}
	groupPr := elm.First(tagGroupPr)
	cmd := defaultGroupBottom
	if pos, _ := PropertyValue(groupPr, tagPos, attrVal); pos == positionTop {
		cmd = defaultGroupTop
	}
	if chr, ok := PropertyValue(groupPr, tagChr, attrVal); ok {
		if mapped, ok := accentToLatex[chr]; ok {
			cmd = mapped
		}
	}
	return cmd + "{" + base + "}", nil
}

// doLimLow handles lower-limit elements.
func (t *Translator) doLimLow(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase, tagLim) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagLim)
	if err != nil {
		return "", err
	}
	lim := strings.ReplaceAll(ops[1], `\rightarrow`, `\to`)
	if fn, ok := limitFunctions[strings.TrimSpace(ExtractText(elm.First(tagBase)))]; ok {
		return fn + "_{" + lim + "}", nil
	}
	return ops[0] + "_{" + lim + "}", nil
}

// doLimUpp handles upper-limit elements.
func (t *Translator) doLimUpp(elm *xmltree.Node, depth int) (string, error) {
	if !hasSlots(elm, tagBase, tagLim) {
		return t.flatten(elm, depth)
	}
	ops, err := t.operands(elm, depth, tagBase, tagLim)
	if err != nil {
		return "", err
	}
	return `\overset{` + ops[1] + "}{" + ops[0] + "}", nil
}

// doEqArr handles equation array elements.
func (t *Translator) doEqArr(elm *xmltree.Node, depth int) (string, error) {
	rows, err := t.translateAll(elm.All(tagBase), depth+1)
	if err != nil {
		return "", err
	}
	return `\begin{array}{c}` + strings.Join(rows, lineBreak) + `\end{array}`, nil
}

// doM handles matrix elements.
func (t *Translator) doM(elm *xmltree.Node, depth int) (string, error) {
	var rows []string
	for _, mr := range elm.All(tagMatrixRow) {
		cells, err := t.translateAll(mr.All(tagBase), depth+2)
		if err != nil {
			return "", err
		}
		rows = append(rows, strings.Join(cells, cellSep))
	}
	return `\begin{matrix}` + strings.Join(rows, lineBreak) + `\end{matrix}`, nil
}

func (t *Translator) translateAll(nodes []*xmltree.Node, depth int) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		latex, err := t.translate(n, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, latex)
	}
	return out, nil
}
