// Package citation recognises Word citation and bibliography markers: content
// controls (w:sdt) carrying w:citation or w:bibliography properties, and
// CITATION / BIBLIOGRAPHY field codes.
//
// Nothing here interprets citation styles. Callers get the raw tag, switches
// and visible text and decide how to present them.
package citation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// Kind distinguishes in-text citations from bibliography blocks.
type Kind int

const (
	CitationKind Kind = iota + 1
	BibliographyKind
)

func (k Kind) String() string {
	switch k {
	case CitationKind:
		return "citation"
	case BibliographyKind:
		return "bibliography"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classify reports which kind of marker an SDT is. Checkbox controls never
// match. A bibliography marker wins over a citation marker.
func Classify(sdt *xmltree.Node) (Kind, bool) {
	sdtPr := sdt.First("w:sdtPr")
	if sdtPr == nil {
		return 0, false
	}
	if sdtPr.First("w:checkbox") != nil || sdtPr.First("wordml:checkbox") != nil {
		return 0, false
	}

	tag := strings.ToLower(sdtPr.First("w:tag").AttrOr("w:val", ""))
	switch {
	case sdtPr.First("w:bibliography") != nil, strings.Contains(tag, "bibliography"):
		return BibliographyKind, true
	case sdtPr.First("w:citation") != nil, strings.Contains(tag, "citation"):
		return CitationKind, true
	}
	return 0, false
}

// IsCitationSdt reports whether sdt is an in-text citation control.
func IsCitationSdt(sdt *xmltree.Node) bool {
	kind, ok := Classify(sdt)
	return ok && kind == CitationKind
}

// IsBibliographySdt reports whether sdt is a bibliography control.
func IsBibliographySdt(sdt *xmltree.Node) bool {
	kind, ok := Classify(sdt)
	return ok && kind == BibliographyKind
}

// DataBinding links a content control to a custom XML part.
type DataBinding struct {
	XPath       string `json:"xpath,omitempty"`
	StoreItemID string `json:"storeItemId,omitempty"`
}

// Metadata is what a citation or bibliography control exposes about itself.
type Metadata struct {
	Kind        Kind         `json:"type"`
	Text        string       `json:"text"`
	Alias       string       `json:"alias,omitempty"`
	Tag         string       `json:"tag,omitempty"`
	ID          string       `json:"id,omitempty"`
	DataBinding *DataBinding `json:"dataBinding,omitempty"`
}

// ExtractMetadata collects the properties and visible text of a citation
// or bibliography control. ok is false for any other SDT.
func ExtractMetadata(sdt *xmltree.Node) (md Metadata, ok bool) {
	kind, ok := Classify(sdt)
	if !ok {
		return Metadata{}, false
	}
	sdtPr := sdt.First("w:sdtPr")
	md = Metadata{
		Kind:  kind,
		Text:  sdt.First("w:sdtContent").TextOf("w:t"),
		Alias: sdtPr.First("w:alias").AttrOr("w:val", ""),
		Tag:   sdtPr.First("w:tag").AttrOr("w:val", ""),
		ID:    sdtPr.First("w:id").AttrOr("w:val", ""),
	}
	if db := sdtPr.First("w:dataBinding"); db != nil {
		md.DataBinding = &DataBinding{
			XPath:       db.AttrOr("w:xpath", ""),
			StoreItemID: db.AttrOr("w:storeItemID", ""),
		}
	}
	return md, true
}

// Field is a parsed CITATION or BIBLIOGRAPHY field instruction.
type Field struct {
	Kind Kind `json:"type"`
	// Tag is the first source tag of a citation.
	Tag string `json:"tag,omitempty"`
	// Tags lists Tag followed by every source added with \m.
	Tags      []string `json:"tags,omitempty"`
	Arguments string   `json:"arguments,omitempty"`
	Raw       string   `json:"raw"`
}

var (
	citationField     = regexp.MustCompile(`(?is)^CITATION\s+(\S+)(.*)$`)
	bibliographyField = regexp.MustCompile(`(?is)^BIBLIOGRAPHY\b(.*)$`)
	multiSource       = regexp.MustCompile(`\\m\s+(\S+)`)
)

// ParseInstrText parses field instruction text such as
// `CITATION WuJ24 \l 1033 \m Smi20`. ok is false for any other field.
func ParseInstrText(instr string) (f Field, ok bool) {
	trimmed := strings.TrimSpace(instr)

	if m := bibliographyField.FindStringSubmatch(trimmed); m != nil {
		return Field{Kind: BibliographyKind, Arguments: strings.TrimSpace(m[1]), Raw: trimmed}, true
	}

	m := citationField.FindStringSubmatch(trimmed)
	if m == nil {
		return Field{}, false
	}
	f = Field{Kind: CitationKind, Tag: m[1], Tags: []string{m[1]}, Arguments: strings.TrimSpace(m[2]), Raw: trimmed}
	for _, sm := range multiSource.FindAllStringSubmatch(f.Arguments, -1) {
		f.Tags = append(f.Tags, sm[1])
	}
	return f, true
}
