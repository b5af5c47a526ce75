// Package bibliography reads the source list Word keeps in a custom XML part
// (b:Sources) so citations can be resolved to titles, authors and years.
package bibliography

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/nicholasgasior/docxtex/internal/ooxml"
	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// maxCustomParts bounds the customXml/itemN.xml parts probed by Read.
const maxCustomParts = 10

// ErrNotSources is returned by Parse for XML that is not a b:Sources list.
var ErrNotSources = errors.New("bibliography: not a sources part")

// Person is one author name.
type Person struct {
	Last   string `json:"last,omitempty"`
	First  string `json:"first,omitempty"`
	Middle string `json:"middle,omitempty"`
}

// String formats the name as "Last, First Middle".
func (p Person) String() string {
	given := strings.TrimSpace(p.First + " " + p.Middle)
	switch {
	case p.Last == "":
		return given
	case given == "":
		return p.Last
	}
	return p.Last + ", " + given
}

// Source is a single bibliography entry.
type Source struct {
	Tag         string   `json:"tag"`
	SourceType  string   `json:"sourceType,omitempty"`
	GUID        string   `json:"guid,omitempty"`
	Title       string   `json:"title,omitempty"`
	Year        string   `json:"year,omitempty"`
	JournalName string   `json:"journalName,omitempty"`
	BookTitle   string   `json:"bookTitle,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	City        string   `json:"city,omitempty"`
	Pages       string   `json:"pages,omitempty"`
	Volume      string   `json:"volume,omitempty"`
	Issue       string   `json:"issue,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	URL         string   `json:"url,omitempty"`
	RefOrder    string   `json:"refOrder,omitempty"`
	Authors     []Person `json:"authors,omitempty"`
}

// Sources maps source tags to entries.
type Sources map[string]Source

// Sorted returns the sources ordered by RefOrder, then Tag. Sources without a
// numeric RefOrder come last.
func (s Sources) Sorted() []Source {
	out := make([]Source, 0, len(s))
	for _, src := range s {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := refOrder(out[i])
		oj, jok := refOrder(out[j])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func refOrder(s Source) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s.RefOrder))
	return n, err == nil
}

// Read probes customXml/item1.xml through item10.xml and returns the first
// non-empty source list. Unreadable parts are skipped.
func Read(zr *zip.Reader, logger *slog.Logger) Sources {
	if logger == nil {
		logger = slog.Default()
	}
	for i := 1; i <= maxCustomParts; i++ {
		part := fmt.Sprintf("customXml/item%d.xml", i)
		if !ooxml.FileExists(zr, part) {
			continue
		}
		data, err := ooxml.ReadFileFromZip(zr, part)
		if err != nil {
			logger.Debug("skipping custom XML part", "part", part, "error", err)
			continue
		}
		sources, err := Parse(data)
		if err != nil {
			if !errors.Is(err, ErrNotSources) {
				logger.Debug("skipping custom XML part", "part", part, "error", err)
			}
			continue
		}
		if len(sources) > 0 {
			logger.Debug("read bibliography", "part", part, "sources", len(sources))
			return sources
		}
	}
	return nil
}

// Parse decodes a b:Sources document. Sources without a tag are dropped.
func Parse(data []byte) (Sources, error) {
	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	root, err := xmltree.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if xmltree.LocalName(root.Name) != "Sources" {
		return nil, ErrNotSources
	}

	sources := make(Sources)
	for _, el := range root.Elements() {
		if xmltree.LocalName(el.Name) != "Source" {
			continue
		}
		if src := parseSource(el); src.Tag != "" {
			sources[src.Tag] = src
		}
	}
	return sources, nil
}

func parseSource(el *xmltree.Node) Source {
	return Source{
		Tag:         childText(el, "Tag"),
		SourceType:  childText(el, "SourceType"),
		GUID:        childText(el, "Guid"),
		Title:       childText(el, "Title"),
		Year:        childText(el, "Year"),
		JournalName: childText(el, "JournalName"),
		BookTitle:   childText(el, "BookTitle"),
		Publisher:   childText(el, "Publisher"),
		City:        childText(el, "City"),
		Pages:       childText(el, "Pages"),
		Volume:      childText(el, "Volume"),
		Issue:       childText(el, "Issue"),
		DOI:         childText(el, "DOI"),
		URL:         childText(el, "URL"),
		RefOrder:    childText(el, "RefOrder"),
		Authors:     parseAuthors(el),
	}
}

// parseAuthors reads b:Author/b:Author/b:NameList/b:Person entries. A
// corporate author becomes a Person with only Last set.
func parseAuthors(source *xmltree.Node) []Person {
	author := child(child(source, "Author"), "Author")
	if author == nil {
		return nil
	}
	if corporate := childText(author, "Corporate"); corporate != "" {
		return []Person{{Last: corporate}}
	}

	var authors []Person
	for _, el := range child(author, "NameList").Elements() {
		if xmltree.LocalName(el.Name) != "Person" {
			continue
		}
		p := Person{
			Last:   childText(el, "Last"),
			First:  childText(el, "First"),
			Middle: childText(el, "Middle"),
		}
		if p.Last != "" || p.First != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// child returns the first element child with the given local name.
func child(n *xmltree.Node, local string) *xmltree.Node {
	for _, el := range n.Elements() {
		if xmltree.LocalName(el.Name) == local {
			return el
		}
	}
	return nil
}

func childText(n *xmltree.Node, local string) string {
	el := child(n, local)
	if el == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range el.Children {
		if c.IsText() {
			b.WriteString(c.Value)
		}
	}
	return strings.TrimSpace(b.String())
}
