package docxmath

import "github.com/nicholasgasior/docxtex/internal/xmltree"

// ExtractText concatenates the literal text of every m:t leaf under n, in
// document order. No symbol substitution is applied.
func ExtractText(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	return n.TextOf(tagText)
}

// PropertyValue returns attr of the first direct child of n named
// propertyTag. ok is false when either is missing; callers pick the default.
func PropertyValue(n *xmltree.Node, propertyTag, attr string) (value string, ok bool) {
	return n.First(propertyTag).Attr(attr)
}
