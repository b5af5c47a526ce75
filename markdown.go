package docxtex

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// markdown converts the rendered body to Markdown. Equations are swapped for
// opaque tokens during conversion so their LaTeX is not escaped, then put
// back as $...$ and $$...$$.
func (r *renderer) markdown(body *html.Node) (string, error) {
	pairs := make([]string, 0, 2*len(r.math))
	saved := make([]string, len(r.math))
	for i, m := range r.math {
		token := fmt.Sprintf("DOCXTEXMATH%dX", i)
		pairs = append(pairs, token, m.markdown)
		saved[i] = m.node.Data
		m.node.Data = token
	}
	defer func() {
		for i, m := range r.math {
			m.node.Data = saved[i]
		}
	}()

	src, err := renderHTML(body)
	if err != nil {
		return "", err
	}
	md, err := convertHTMLToMarkdown(src)
	if err != nil {
		return "", err
	}
	md = normalizeOutput(md)
	if len(pairs) == 0 {
		return md, nil
	}
	return strings.NewReplacer(pairs...).Replace(md), nil
}

// convertHTMLToMarkdown converts HTML to markdown using html-to-markdown.
func convertHTMLToMarkdown(htmlStr string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(htmlStr)
	if err != nil {
		return "", err
	}

	return md, nil
}
