// Package mdhtml renders a small Markdown-like markup language to HTML.
//
// The dialect is deliberately narrow: __strong__, _emphasis_, `code`,
// [links](target), backslash escapes, # headers up to level six, indented code
// blocks and numbered lists. Text is split into paragraphs on blank lines and
// every blank line is carried into the output, so the rendered fragment keeps
// the vertical layout of the source.
//
// Rendering is line oriented. Each line is tokenized against the dialect's
// delimiter table, inline markup is resolved on a small delimiter stack, and
// the line is then classified as basic text, header, code block or list item.
// Consecutive lines of the same kind share one wrapping block inside the
// paragraph's <p> element.
//
// Core properties:
//   - Pure functions over strings; a Renderer is safe for concurrent use
//   - Streaming through RenderStream with output identical to Render
//   - Optional base URL for relative links and inline style on every tag
//   - YAML, TOML or JSON front matter via RenderDocument
//
// Example:
//
//	out := mdhtml.Render("# Hello\n\n_Markup_ in, HTML out.")
//	fmt.Println(out)
//
// Streaming from a reader:
//
//	err := mdhtml.RenderStream(mdhtml.RenderRequest{
//		Reader:  os.Stdin,
//		Writer:  os.Stdout,
//		Options: []mdhtml.RenderOption{mdhtml.WithBaseURL("https://example.com/")},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
package mdhtml
