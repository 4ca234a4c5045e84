//
//
// HTML rendering backend
//
//

package blackfriday

import (
	"bytes"
	"fmt"
	"strings"
)

// HTML rendering flags, combined with |.
const (
	HTML_SKIP_HTML = 1 << iota
	HTML_SKIP_STYLE
	HTML_SKIP_LINKS
	HTML_SKIP_IMAGES
	HTML_EXPAND_TABS
	HTML_SAFELINK
	HTML_TOC
	HTML_HARD_WRAP
	HTML_USE_XHTML
	HTML_ESCAPE
	HTML_OUTLINE

	HTML_GITHUB_BLOCKCODE = HTML_SKIP_HTML // retained alias, unused by this renderer
)

// Html is the bundled reference renderer: it implements the full
// Renderer capability set of markdown.go and serialises to (X)HTML.
// Callers needing a different output format write their own Renderer
// instead of extending this one.
type Html struct {
	flags    int
	closeTag string // " />" for XHTML, ">" otherwise

	// headerCount/currentLevel/toc track the outline when HTML_TOC or
	// HTML_OUTLINE is set; they are meaningless otherwise.
	headerCount   int
	currentLevel  int
	toc           *bytes.Buffer
	lastOutputLen int
}

// NewHtmlRenderer builds an Html renderer with the given option flags
// and returns it wrapped in a *Renderer ready to pass to Markdown.
func NewHtmlRenderer(flags int) *Renderer {
	closeTag := ">"
	if flags&HTML_USE_XHTML != 0 {
		closeTag = " />"
	}
	r := &Html{flags: flags, closeTag: closeTag}
	if flags&HTML_TOC != 0 {
		r.toc = new(bytes.Buffer)
	}

	return &Renderer{
		BlockCode:    r.BlockCode,
		BlockQuote:   r.BlockQuote,
		BlockHtml:    r.BlockHtml,
		Header:       r.Header,
		HRule:        r.HRule,
		List:         r.List,
		ListItem:     r.ListItem,
		Paragraph:    r.Paragraph,
		Table:        r.Table,
		TableRow:     r.TableRow,
		TableCell:    r.TableCell,
		Footnotes:    r.Footnotes,
		FootnoteItem: r.FootnoteItem,

		AutoLink:       r.AutoLink,
		CodeSpan:       r.CodeSpan,
		DoubleEmphasis: r.DoubleEmphasis,
		Emphasis:       r.Emphasis,
		Image:          r.Image,
		LineBreak:      r.LineBreak,
		Link:           r.Link,
		RawHtmlTag:     r.RawHtmlTag,
		TripleEmphasis: r.TripleEmphasis,
		StrikeThrough:  r.StrikeThrough,
		Insert:         r.Insert,
		Superscript:    r.Superscript,
		FootnoteRef:    r.FootnoteRef,

		Entity:     r.Entity,
		NormalText: r.NormalText,

		DocumentHeader:  r.DocumentHeader,
		DocumentFooter:  r.DocumentFooter,
		DocumentOutline: r.DocumentOutline,

		Opaque: r,
	}
}

func attrEscape(out *bytes.Buffer, src []byte) {
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"':
			out.WriteString("&quot;")
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteByte(src[i])
		}
	}
}

func entityEscapeWithSkip(out *bytes.Buffer, src []byte) {
	for i := 0; i < len(src); {
		if src[i] == '&' {
			// don't double-escape a well-formed entity reference
			end := bytes.IndexByte(src[i:], ';')
			if end >= 0 && end <= 10 {
				out.Write(src[i : i+end+1])
				i += end + 1
				continue
			}
		}
		attrEscape(out, src[i:i+1])
		i++
	}
}

func (r *Html) ensureBlankLine(out *bytes.Buffer) {
	if out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n' {
		out.WriteByte('\n')
	}
}

func (r *Html) BlockCode(out *bytes.Buffer, text []byte, lang string, opaque interface{}) {
	r.ensureBlankLine(out)

	if lang == "" {
		out.WriteString("<pre><code>")
	} else {
		out.WriteString("<pre><code class=\"")
		attrEscape(out, []byte(lang))
		out.WriteString("\">")
	}
	attrEscape(out, text)
	out.WriteString("</code></pre>\n")
}

func (r *Html) BlockQuote(out *bytes.Buffer, text []byte, opaque interface{}) {
	r.ensureBlankLine(out)
	out.WriteString("<blockquote>\n")
	out.Write(text)
	out.WriteString("</blockquote>\n")
}

func (r *Html) BlockHtml(out *bytes.Buffer, text []byte, opaque interface{}) {
	if r.flags&HTML_ESCAPE != 0 {
		r.ensureBlankLine(out)
		attrEscape(out, text)
		out.WriteByte('\n')
		return
	}
	if r.flags&HTML_SKIP_HTML != 0 {
		return
	}
	r.ensureBlankLine(out)
	out.Write(text)
	out.WriteByte('\n')
}

func (r *Html) Header(out *bytes.Buffer, text []byte, level int, opaque interface{}) {
	r.ensureBlankLine(out)

	var id string
	if r.flags&(HTML_TOC|HTML_OUTLINE) != 0 {
		r.headerCount++
		id = fmt.Sprintf("toc_%d", r.headerCount)
	}

	if r.flags&HTML_OUTLINE != 0 {
		for level > r.currentLevel {
			out.WriteString("<section>\n")
			r.currentLevel++
		}
		for level < r.currentLevel {
			out.WriteString("</section>\n")
			r.currentLevel--
		}
	}

	if id != "" {
		fmt.Fprintf(out, "<h%d id=\"%s\">", level, id)
	} else {
		fmt.Fprintf(out, "<h%d>", level)
	}
	out.Write(text)
	fmt.Fprintf(out, "</h%d>\n", level)

	if r.toc != nil {
		fmt.Fprintf(r.toc, "<li><a href=\"#%s\">", id)
		r.toc.Write(text)
		r.toc.WriteString("</a></li>\n")
	}
}

func (r *Html) HRule(out *bytes.Buffer, opaque interface{}) {
	r.ensureBlankLine(out)
	out.WriteString("<hr")
	out.WriteString(r.closeTag)
	out.WriteByte('\n')
}

func (r *Html) List(out *bytes.Buffer, text []byte, flags int, opaque interface{}) {
	r.ensureBlankLine(out)
	tag := "ul"
	if flags&LIST_TYPE_ORDERED != 0 {
		tag = "ol"
	}
	fmt.Fprintf(out, "<%s>\n", tag)
	out.Write(text)
	fmt.Fprintf(out, "</%s>\n", tag)
}

func (r *Html) ListItem(out *bytes.Buffer, text []byte, flags int, opaque interface{}) {
	out.WriteString("<li>")
	out.Write(bytes.TrimRight(text, "\n"))
	out.WriteString("</li>\n")
}

func (r *Html) Paragraph(out *bytes.Buffer, text []byte, opaque interface{}) {
	r.ensureBlankLine(out)
	out.WriteString("<p>")
	out.Write(text)
	out.WriteString("</p>\n")
}

func (r *Html) Table(out *bytes.Buffer, header []byte, body []byte, columns []int, opaque interface{}) {
	r.ensureBlankLine(out)
	out.WriteString("<table>\n<thead>\n")
	out.Write(header)
	out.WriteString("</thead>\n\n<tbody>\n")
	out.Write(body)
	out.WriteString("</tbody>\n</table>\n")
}

func (r *Html) TableRow(out *bytes.Buffer, text []byte, opaque interface{}) {
	out.WriteString("<tr>\n")
	out.Write(text)
	out.WriteString("</tr>\n")
}

func (r *Html) TableCell(out *bytes.Buffer, text []byte, flags int, opaque interface{}) {
	tag := "td"
	if flags&tableCellHeaderFlag != 0 {
		tag = "th"
	}
	out.WriteByte('<')
	out.WriteString(tag)
	switch {
	case flags&TABLE_ALIGNMENT_CENTER == TABLE_ALIGNMENT_CENTER:
		out.WriteString(" align=\"center\"")
	case flags&TABLE_ALIGNMENT_LEFT != 0:
		out.WriteString(" align=\"left\"")
	case flags&TABLE_ALIGNMENT_RIGHT != 0:
		out.WriteString(" align=\"right\"")
	}
	out.WriteString(">")
	out.Write(text)
	fmt.Fprintf(out, "</%s>\n", tag)
}

func (r *Html) Footnotes(out *bytes.Buffer, text func() bool, opaque interface{}) {
	r.ensureBlankLine(out)
	out.WriteString("<div class=\"footnotes\">\n<hr")
	out.WriteString(r.closeTag)
	out.WriteString("\n<ol>\n")
	for text() {
	}
	out.WriteString("</ol>\n</div>\n")
}

func (r *Html) FootnoteItem(out *bytes.Buffer, name []byte, text []byte, flags int, opaque interface{}) {
	fmt.Fprintf(out, "<li id=\"fn%s\">", name)
	out.Write(bytes.TrimRight(text, "\n"))
	fmt.Fprintf(out, "&nbsp;<a href=\"#fnref%s\" rev=\"footnote\">&#8617;</a></li>\n", name)
}

func (r *Html) AutoLink(out *bytes.Buffer, link []byte, kind int, opaque interface{}) bool {
	if r.flags&HTML_SKIP_LINKS != 0 {
		return false
	}
	if r.flags&HTML_SAFELINK != 0 && !IsSafeURL(link) && kind != linkEmail {
		return false
	}

	out.WriteString("<a href=\"")
	if kind == linkEmail {
		out.WriteString("mailto:")
	}
	attrEscape(out, link)
	out.WriteString("\">")

	switch {
	case kind == linkEmail && r.flags&HTML_SAFELINK != 0:
		attrEscape(out, link)
	default:
		attrEscape(out, link)
	}
	out.WriteString("</a>")
	return true
}

func (r *Html) CodeSpan(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<code>")
	attrEscape(out, text)
	out.WriteString("</code>")
	return true
}

func (r *Html) DoubleEmphasis(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<strong>")
	out.Write(text)
	out.WriteString("</strong>")
	return true
}

func (r *Html) Emphasis(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	if len(text) == 0 {
		return false
	}
	out.WriteString("<em>")
	out.Write(text)
	out.WriteString("</em>")
	return true
}

func (r *Html) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte, opaque interface{}) bool {
	if r.flags&HTML_SKIP_IMAGES != 0 {
		return false
	}
	out.WriteString("<img src=\"")
	attrEscape(out, link)
	out.WriteString("\" alt=\"")
	attrEscape(out, alt)
	out.WriteByte('"')
	if len(title) > 0 {
		out.WriteString(" title=\"")
		attrEscape(out, title)
		out.WriteByte('"')
	}
	out.WriteString(r.closeTag)
	return true
}

func (r *Html) LineBreak(out *bytes.Buffer, opaque interface{}) bool {
	out.WriteString("<br")
	out.WriteString(r.closeTag)
	out.WriteByte('\n')
	return true
}

func (r *Html) Link(out *bytes.Buffer, link []byte, title []byte, content []byte, opaque interface{}) bool {
	if r.flags&HTML_SKIP_LINKS != 0 {
		return false
	}
	if r.flags&HTML_SAFELINK != 0 && !IsSafeURL(link) {
		return false
	}

	out.WriteString("<a href=\"")
	attrEscape(out, link)
	if len(title) > 0 {
		out.WriteString("\" title=\"")
		attrEscape(out, title)
	}
	out.WriteString("\">")
	out.Write(content)
	out.WriteString("</a>")
	return true
}

func (r *Html) RawHtmlTag(out *bytes.Buffer, tag []byte, opaque interface{}) bool {
	if r.flags&HTML_ESCAPE != 0 {
		attrEscape(out, tag)
		return true
	}
	if r.flags&HTML_SKIP_HTML != 0 {
		return false
	}
	if r.flags&HTML_SKIP_STYLE != 0 && strings.HasPrefix(string(bytes.ToLower(tag)), "<style") {
		return false
	}
	if r.flags&HTML_SKIP_LINKS != 0 && strings.HasPrefix(string(bytes.ToLower(tag)), "<a") {
		return false
	}
	if r.flags&HTML_SKIP_IMAGES != 0 && strings.HasPrefix(string(bytes.ToLower(tag)), "<img") {
		return false
	}
	out.Write(tag)
	return true
}

func (r *Html) TripleEmphasis(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<strong><em>")
	out.Write(text)
	out.WriteString("</em></strong>")
	return true
}

func (r *Html) StrikeThrough(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<del>")
	out.Write(text)
	out.WriteString("</del>")
	return true
}

func (r *Html) Insert(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<ins>")
	out.Write(text)
	out.WriteString("</ins>")
	return true
}

func (r *Html) Superscript(out *bytes.Buffer, text []byte, opaque interface{}) bool {
	out.WriteString("<sup>")
	out.Write(text)
	out.WriteString("</sup>")
	return true
}

func (r *Html) FootnoteRef(out *bytes.Buffer, ref []byte, id int, opaque interface{}) bool {
	fmt.Fprintf(out, "<sup id=\"fnref%d\"><a href=\"#fn%d\" rel=\"footnote\">%d</a></sup>", id, id, id)
	return true
}

func (r *Html) Entity(out *bytes.Buffer, entity []byte, opaque interface{}) {
	out.Write(entity)
}

func (r *Html) NormalText(out *bytes.Buffer, text []byte, opaque interface{}) {
	if r.flags&HTML_ESCAPE != 0 {
		entityEscapeWithSkip(out, text)
		return
	}
	attrEscape(out, text)
}

func (r *Html) DocumentHeader(out *bytes.Buffer, opaque interface{}) {}

func (r *Html) DocumentFooter(out *bytes.Buffer, opaque interface{}) {
	if r.toc != nil {
		out.WriteString("<nav>\n<ul>\n")
		out.Write(r.toc.Bytes())
		out.WriteString("</ul>\n</nav>\n")
	}
}

func (r *Html) DocumentOutline(out *bytes.Buffer, opaque interface{}) {
	for r.currentLevel > 0 {
		out.WriteString("</section>\n")
		r.currentLevel--
	}
}
