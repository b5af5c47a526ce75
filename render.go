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

package docxtex

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nicholasgasior/docxtex/internal/bibliography"
	"github.com/nicholasgasior/docxtex/internal/citation"
	"github.com/nicholasgasior/docxtex/internal/docxmath"
	"github.com/nicholasgasior/docxtex/internal/ooxml"
	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// CSS classes marking semantic content in the HTML output.
const (
	ClassMath                = "docx-math"
	ClassMathBlock           = "docx-math-block"
	ClassCitation            = "docx-citation"
	ClassBibliography        = "docx-bibliography"
	ClassBibliographySection = "docx-bibliography-section"
	ClassBibliographyHeader  = "docx-bibliography-header"
)

var headingAtoms = [...]atom.Atom{atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// mathText is a rendered equation text node and its Markdown form.
type mathText struct {
	node     *html.Node
	markdown string
}

// field tracks a complex field (w:fldChar begin/separate/end) while its
// runs are rendered. Fields may span runs and paragraphs.
type field struct {
	instr        strings.Builder
	separated    bool
	parsed       citation.Field
	ok           bool
	bibliography bool
	span         *html.Node
	owner        *html.Node
	text         strings.Builder
}

type runFormat struct {
	bold, italic, strike, hidden bool
}

// renderer turns a parsed document.xml into an HTML body. It is used once.
type renderer struct {
	logger     *slog.Logger
	translator *docxmath.Translator
	rels       map[string]ooxml.Relationship
	styles     map[string]string
	numbering  map[string]string
	sources    bibliography.Sources

	result *Result
	math   []mathText
	fields []*field
	// para is the block element inline content is appended to.
	para *html.Node
	// bibDepth counts enclosing bibliography controls and fields.
	bibDepth int
	bibSeen  bool
}

func newRenderer(c *Converter, zr *zip.Reader, rels map[string]ooxml.Relationship, sources bibliography.Sources) *renderer {
	return &renderer{
		logger:     c.logger,
		translator: c.translator,
		rels:       rels,
		styles:     parseStyles(zr, c.logger),
		numbering:  parseNumbering(zr, c.logger),
		sources:    sources,
		result:     &Result{},
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// document renders w:document/w:body.
func (r *renderer) document(doc *xmltree.Node) *html.Node {
	body := element(atom.Body)
	r.blocks(body, doc.First("w:body").Elements())
	return body
}

// blocks renders block-level content. Consecutive list paragraphs with the
// same numbering share one list.
func (r *renderer) blocks(parent *html.Node, nodes []*xmltree.Node) {
	var list *html.Node
	var listID string
	for _, n := range nodes {
		if n.Name == "w:p" {
			numID := listNumID(n.First("w:pPr"))
			for _, b := range r.paragraph(n) {
				if b.DataAtom != atom.Li {
					list = nil
					parent.AppendChild(b)
					continue
				}
				if list == nil || listID != numID {
					list, listID = r.list(numID), numID
					parent.AppendChild(list)
				}
				list.AppendChild(b)
			}
			continue
		}

		list = nil
		switch n.Name {
		case "w:tbl":
			parent.AppendChild(r.table(n))
		case "w:sdt":
			r.blockSdt(parent, n)
		case "w:customXml", "w:ins", "w:smartTag":
			r.blocks(parent, n.Elements())
		}
	}
}

// paragraph renders one w:p. Display math splits the paragraph, so the
// result may hold several blocks; empty paragraphs yield none.
func (r *renderer) paragraph(p *xmltree.Node) []*html.Node {
	pPr := p.First("w:pPr")
	level := headingLevel(pPr.First("w:pStyle").AttrOr("w:val", ""), r.styles)
	listItem := level == 0 && isListItem(pPr)
	newBlock := func() *html.Node {
		if listItem {
			return element(atom.Li)
		}
		return element(headingAtoms[level])
	}

	r.bibSeen = r.bibDepth > 0
	var out []*html.Node
	flush := func() {
		if r.para.FirstChild != nil {
			r.markBibliography(r.para, level)
			out = append(out, r.para)
		}
		r.para = newBlock()
	}

	r.para = newBlock()
	for _, child := range p.Children {
		if child.Name == "m:oMathPara" {
			flush()
			out = append(out, r.mathBlocks(child)...)
			continue
		}
		r.inline(r.para, child)
	}
	flush()
	return out
}

// list returns an empty <ol> or <ul> for a numbering instance.
func (r *renderer) list(numID string) *html.Node {
	switch r.numbering[numID] {
	case "", "bullet", "none":
		return element(atom.Ul)
	}
	return element(atom.Ol)
}

func (r *renderer) markBibliography(block *html.Node, level int) {
	if !r.bibSeen {
		return
	}
	class := ClassBibliographySection
	if level > 0 {
		class = ClassBibliographyHeader
	}
	block.Attr = append(block.Attr, attr("class", class))
}

// inline renders paragraph-level content into parent.
func (r *renderer) inline(parent *html.Node, n *xmltree.Node) {
	switch n.Name {
	case "w:r":
		r.run(parent, n)
	case "w:hyperlink":
		r.hyperlink(parent, n)
	case "m:oMath":
		r.appendInline(parent, r.mathSpan(n))
	case "m:oMathPara":
		for _, m := range docxmath.FindMath(n) {
			r.appendInline(parent, r.mathSpan(m))
		}
	case "w:sdt":
		r.inlineSdt(parent, n)
	case "w:fldSimple":
		r.simpleField(parent, n)
	case "w:ins", "w:smartTag", "w:customXml", "w:dir", "w:bdo":
		for _, c := range n.Elements() {
			r.inline(parent, c)
		}
	}
}

// appendInline adds node to parent, or to the open citation span of the
// current block.
func (r *renderer) appendInline(parent, node *html.Node) {
	if f := r.openCitation(); f != nil {
		f.span.AppendChild(node)
		return
	}
	parent.AppendChild(node)
}

func (r *renderer) run(parent *html.Node, rn *xmltree.Node) {
	format := formatOf(rn.First("w:rPr"))
	for _, c := range rn.Elements() {
		switch c.Name {
		case "w:t":
			r.text(parent, c.TextOf("w:t"), format)
		case "w:tab":
			r.text(parent, "\t", format)
		case "w:noBreakHyphen":
			r.text(parent, "-", format)
		case "w:br", "w:cr":
			if !format.hidden && !r.inInstruction() {
				r.appendInline(parent, element(atom.Br))
			}
		case "w:fldChar":
			r.fieldChar(parent, c.AttrOr("w:fldCharType", ""))
		case "w:instrText":
			if f := r.topField(); f != nil && !f.separated {
				f.instr.WriteString(c.TextOf("w:instrText"))
			}
		}
	}
}

func (r *renderer) text(parent *html.Node, s string, format runFormat) {
	if s == "" || format.hidden || r.inInstruction() {
		return
	}
	node := textNode(s)
	for _, wrap := range []struct {
		on bool
		a  atom.Atom
	}{{format.strike, atom.S}, {format.italic, atom.I}, {format.bold, atom.B}} {
		if wrap.on {
			el := element(wrap.a)
			el.AppendChild(node)
			node = el
		}
	}
	r.appendInline(parent, node)
	if f := r.openCitation(); f != nil {
		f.text.WriteString(s)
	}
}

func (r *renderer) hyperlink(parent *html.Node, n *xmltree.Node) {
	var href string
	if id, ok := n.Attr("r:id"); ok {
		// Internal relationships point at package parts, which have no URL.
		if rel := r.rels[id]; rel.External() {
			href = rel.Target
		}
	} else if anchor, ok := n.Attr("w:anchor"); ok {
		href = "#" + anchor
	}
	if href == "" {
		for _, c := range n.Elements() {
			r.inline(parent, c)
		}
		return
	}

	a := element(atom.A, attr("href", href))
	for _, c := range n.Elements() {
		r.inline(a, c)
	}
	if a.FirstChild != nil {
		r.appendInline(parent, a)
	}
}

func formatOf(rPr *xmltree.Node) runFormat {
	return runFormat{
		bold:   toggle(rPr.First("w:b")),
		italic: toggle(rPr.First("w:i")),
		strike: toggle(rPr.First("w:strike")),
		hidden: toggle(rPr.First("w:vanish")),
	}
}

// toggle reads an OOXML on/off property; a bare element means on.
func toggle(prop *xmltree.Node) bool {
	if prop == nil {
		return false
	}
	switch prop.AttrOr("w:val", "true") {
	case "0", "false", "off":
		return false
	}
	return true
}

func isListItem(pPr *xmltree.Node) bool {
	return listNumID(pPr) != ""
}

// listNumID returns the numbering instance of a list paragraph, or "".
// numId 0 removes numbering.
func listNumID(pPr *xmltree.Node) string {
	id := pPr.First("w:numPr").First("w:numId").AttrOr("w:val", "0")
	if id == "0" {
		return ""
	}
	return id
}

// headingLevel returns the heading level (1-6) for a style, or 0 if not a heading.
func headingLevel(styleID string, styles map[string]string) int {
	if styleID == "" {
		return 0
	}
	for _, name := range []string{styleID, styles[styleID]} {
		lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		if lower == "title" {
			return 1
		}
		if rest, ok := strings.CutPrefix(lower, "heading"); ok {
			if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 6 {
				return n
			}
		}
	}
	return 0
}

// parseStyles maps style IDs to display names from word/styles.xml.
func parseStyles(zr *zip.Reader, logger *slog.Logger) map[string]string {
	styles := make(map[string]string)
	if !ooxml.FileExists(zr, ooxml.PartStyles) {
		return styles
	}
	data, err := ooxml.ReadFileFromZip(zr, ooxml.PartStyles)
	if err != nil {
		logger.Warn("ignoring styles", "error", err)
		return styles
	}
	root, err := xmltree.ParsePart(ooxml.PartStyles, data)
	if err != nil {
		logger.Warn("ignoring styles", "error", err)
		return styles
	}
	for _, st := range root.All("w:style") {
		if id, ok := st.Attr("w:styleId"); ok {
			styles[id] = st.First("w:name").AttrOr("w:val", "")
		}
	}
	return styles
}

// parseNumbering maps numbering instances (w:num) to the number format of
// their first level, from word/numbering.xml.
func parseNumbering(zr *zip.Reader, logger *slog.Logger) map[string]string {
	formats := make(map[string]string)
	if !ooxml.FileExists(zr, ooxml.PartNumbering) {
		return formats
	}
	data, err := ooxml.ReadFileFromZip(zr, ooxml.PartNumbering)
	if err != nil {
		logger.Warn("ignoring numbering", "error", err)
		return formats
	}
	root, err := xmltree.ParsePart(ooxml.PartNumbering, data)
	if err != nil {
		logger.Warn("ignoring numbering", "error", err)
		return formats
	}

	abstract := make(map[string]string)
	for _, an := range root.All("w:abstractNum") {
		id, _ := an.Attr("w:abstractNumId")
		for _, lvl := range an.All("w:lvl") {
			if lvl.AttrOr("w:ilvl", "0") == "0" {
				abstract[id] = lvl.First("w:numFmt").AttrOr("w:val", "")
				break
			}
		}
	}
	for _, num := range root.All("w:num") {
		id, ok := num.Attr("w:numId")
		if !ok {
			continue
		}
		formats[id] = abstract[num.First("w:abstractNumId").AttrOr("w:val", "")]
	}
	return formats
}

// table renders w:tbl. The first row becomes the header row.
func (r *renderer) table(tbl *xmltree.Node) *html.Node {
	table := element(atom.Table)
	for i, tr := range tbl.All("w:tr") {
		cellAtom := atom.Td
		if i == 0 {
			cellAtom = atom.Th
		}
		row := element(atom.Tr)
		for _, tc := range tr.All("w:tc") {
			row.AppendChild(r.cell(element(cellAtom), tc))
		}
		table.AppendChild(row)
	}
	return table
}

// cell flattens the paragraphs of a table cell into inline content
// separated by line breaks.
func (r *renderer) cell(cell *html.Node, tc *xmltree.Node) *html.Node {
	for _, n := range tc.Elements() {
		var blocks []*html.Node
		switch n.Name {
		case "w:p":
			blocks = r.paragraph(n)
		case "w:tbl":
			cell.AppendChild(r.table(n))
			continue
		}
		for _, b := range blocks {
			if cell.FirstChild != nil {
				cell.AppendChild(element(atom.Br))
			}
			for c := b.FirstChild; c != nil; {
				next := c.NextSibling
				b.RemoveChild(c)
				cell.AppendChild(c)
				c = next
			}
		}
	}
	return cell
}

// translate converts an m:oMath element. On failure the equation's plain
// text is used instead.
func (r *renderer) translate(m *xmltree.Node) (latex string, fallback bool) {
	latex, err := r.translator.Translate(m)
	switch {
	case err == nil:
		return latex, false
	case docxmath.IsMalformedInput(err):
		r.logger.Warn("equation nested too deeply, using plain text", "error", err)
	default:
		r.logger.Warn("equation translation failed, using plain text", "error", err)
	}
	return docxmath.ExtractText(m), true
}

func (r *renderer) mathSpan(m *xmltree.Node) *html.Node {
	latex, fallback := r.translate(m)
	r.result.Equations = append(r.result.Equations, Equation{LaTeX: latex, Fallback: fallback})

	span := element(atom.Span, attr("class", ClassMath), attr("data-math-text", latex))
	if fallback {
		span.AppendChild(textNode(latex))
		return span
	}
	text := textNode("$" + latex + "$")
	span.AppendChild(text)
	r.math = append(r.math, mathText{node: text, markdown: text.Data})
	return span
}

// mathBlocks renders the equations of an m:oMathPara as display math.
func (r *renderer) mathBlocks(para *xmltree.Node) []*html.Node {
	var out []*html.Node
	for _, m := range docxmath.FindMath(para) {
		latex, fallback := r.translate(m)
		r.result.Equations = append(r.result.Equations, Equation{LaTeX: latex, Block: true, Fallback: fallback})

		p := element(atom.P, attr("class", ClassMathBlock), attr("data-math-text", latex))
		if fallback {
			p.AppendChild(textNode(latex))
		} else {
			text := textNode("$$" + latex + "$$")
			p.AppendChild(text)
			r.math = append(r.math, mathText{node: text, markdown: text.Data})
		}
		out = append(out, p)
	}
	return out
}

func (r *renderer) topField() *field {
	if len(r.fields) == 0 {
		return nil
	}
	return r.fields[len(r.fields)-1]
}

// inInstruction reports whether rendering is between a field's begin and
// separate marks, where runs hold field codes rather than visible text.
func (r *renderer) inInstruction() bool {
	for _, f := range r.fields {
		if !f.separated {
			return true
		}
	}
	return false
}

// openCitation returns the innermost citation field whose span lives in the
// current block.
func (r *renderer) openCitation() *field {
	for i := len(r.fields) - 1; i >= 0; i-- {
		if f := r.fields[i]; f.span != nil {
			if f.owner == r.para {
				return f
			}
			return nil
		}
	}
	return nil
}

func (r *renderer) fieldChar(parent *html.Node, typ string) {
	switch typ {
	case "begin":
		r.fields = append(r.fields, &field{})

	case "separate":
		f := r.topField()
		if f == nil || f.separated {
			return
		}
		f.separated = true
		f.parsed, f.ok = citation.ParseInstrText(f.instr.String())
		if !f.ok {
			return
		}
		switch f.parsed.Kind {
		case citation.CitationKind:
			if r.bibDepth > 0 {
				return
			}
			span := element(atom.Span, attr("class", ClassCitation))
			r.appendInline(parent, span)
			f.span, f.owner = span, r.para
		case citation.BibliographyKind:
			f.bibliography = true
			r.bibDepth++
			r.bibSeen = true
		}

	case "end":
		f := r.topField()
		if f == nil {
			return
		}
		r.fields = r.fields[:len(r.fields)-1]
		if f.bibliography {
			r.bibDepth--
		}
		if f.span != nil {
			r.finishCitation(f.span, f.parsed, f.text.String(), "")
			return
		}
		// A citation field without a cached result still gets a marker.
		if !f.separated && r.bibDepth == 0 {
			if fld, ok := citation.ParseInstrText(f.instr.String()); ok && fld.Kind == citation.CitationKind {
				span := element(atom.Span, attr("class", ClassCitation))
				r.appendInline(parent, span)
				r.finishCitation(span, fld, "", "")
			}
		}
	}
}

// simpleField renders w:fldSimple, whose instruction is an attribute and
// whose children are the cached result.
func (r *renderer) simpleField(parent *html.Node, n *xmltree.Node) {
	fld, ok := citation.ParseInstrText(n.AttrOr("w:instr", ""))
	if !ok || fld.Kind != citation.CitationKind || r.bibDepth > 0 {
		if ok && fld.Kind == citation.BibliographyKind {
			r.bibSeen = true
		}
		for _, c := range n.Elements() {
			r.inline(parent, c)
		}
		return
	}

	span := element(atom.Span, attr("class", ClassCitation))
	for _, c := range n.Elements() {
		r.inline(span, c)
	}
	r.appendInline(parent, span)
	r.finishCitation(span, fld, n.TextOf("w:t"), "")
}

// inlineSdt renders an inline content control. Citation controls become a
// single citation span holding their visible text followed by any equations.
func (r *renderer) inlineSdt(parent *html.Node, sdt *xmltree.Node) {
	content := sdt.First("w:sdtContent")
	if !citation.IsCitationSdt(sdt) || r.bibDepth > 0 {
		for _, c := range content.Elements() {
			r.inline(parent, c)
		}
		return
	}
	md, _ := citation.ExtractMetadata(sdt)

	fld, _ := citation.ParseInstrText(content.TextOf("w:instrText"))
	fld.Kind = citation.CitationKind
	span := element(atom.Span, attr("class", ClassCitation))
	if md.Text != "" {
		span.AppendChild(textNode(md.Text))
	}
	for _, m := range docxmath.FindMath(content) {
		span.AppendChild(r.mathSpan(m))
	}
	if links := content.All("w:hyperlink"); len(links) > 0 {
		r.logger.Debug("citation hyperlinks rendered as text", "sdtID", md.ID, "count", len(links))
	}
	r.appendInline(parent, span)
	r.finishCitation(span, fld, md.Text, md.ID)
}

// blockSdt renders a block-level content control. Bibliography controls are
// wrapped in a bibliography div; an empty one lists the document's sources.
func (r *renderer) blockSdt(parent *html.Node, sdt *xmltree.Node) {
	content := sdt.First("w:sdtContent")
	if !citation.IsBibliographySdt(sdt) {
		r.blocks(parent, content.Elements())
		return
	}

	div := element(atom.Div, attr("class", ClassBibliography))
	r.bibDepth++
	r.blocks(div, content.Elements())
	r.bibDepth--
	if div.FirstChild == nil && len(r.sources) > 0 {
		div.AppendChild(sourceList(r.sources.Sorted()))
	}
	parent.AppendChild(div)
}

// finishCitation completes a citation span and records the citation.
func (r *renderer) finishCitation(span *html.Node, fld citation.Field, text, sdtID string) {
	c := Citation{
		Kind:      citation.CitationKind,
		Tag:       fld.Tag,
		Tags:      fld.Tags,
		Text:      strings.TrimSpace(text),
		Arguments: fld.Arguments,
		SdtID:     sdtID,
	}
	if src, ok := r.sources[c.Tag]; ok {
		c.BibliographyData = &src
	}
	if span.FirstChild == nil {
		span.AppendChild(textNode(citationFallback(c.Tags)))
	}
	if data, err := json.Marshal(c); err == nil {
		span.Attr = append(span.Attr, attr("data-citation", string(data)))
	}
	r.result.Citations = append(r.result.Citations, c)
}

// citationFallback is shown for a citation without visible text.
func citationFallback(tags []string) string {
	if len(tags) == 0 {
		return "[citation]"
	}
	return "[" + strings.Join(tags, "; ") + "]"
}

func sourceList(sources []bibliography.Source) *html.Node {
	ol := element(atom.Ol)
	for _, src := range sources {
		li := element(atom.Li, attr("data-source-tag", src.Tag))
		li.AppendChild(textNode(formatSource(src)))
		ol.AppendChild(li)
	}
	return ol
}

// formatSource renders a source as "Authors (Year). Title. Container."
func formatSource(src bibliography.Source) string {
	names := make([]string, 0, len(src.Authors))
	for _, p := range src.Authors {
		names = append(names, p.String())
	}
	head := strings.Join(names, "; ")
	if src.Year != "" {
		head = strings.TrimSpace(head + " (" + src.Year + ")")
	}

	var parts []string
	for _, s := range []string{head, src.Title, src.JournalName, src.BookTitle, src.Publisher} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return src.Tag
	}
	return strings.Join(parts, ". ") + "."
}

// renderHTML serializes the children of body.
func renderHTML(body *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}
