package render

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// NotebookHTML renders the diagram as a sanitized HTML fragment: a
// heading plus a fenced Mermaid code block, the way a notebook cell
// would embed it for a front end that post-processes ```mermaid```
// fences into rendered diagrams client-side. The Markdown is run
// through bluemonday's UGC policy before being returned, since the
// task names driving the diagram may originate from untrusted graph
// definitions.
func (d *Diagram[N]) NotebookHTML(title string) string {
	md := fmt.Sprintf("## %s\n\n```mermaid\n%s```\n", title, d.Mermaid())

	extensions := parser.CommonExtensions
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	unsafe := markdown.ToHTML([]byte(md), p, renderer)

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("pre", "code")
	policy.AllowAttrs("class").OnElements("code")
	return string(policy.SanitizeBytes(unsafe))
}
