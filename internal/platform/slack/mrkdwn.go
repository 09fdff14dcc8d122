package slack

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// ToMrkdwn converts CommonMark text into Slack's mrkdwn dialect.
// Bold and headings become *x*, italics _x_, strikethrough ~x~, list items
// use bullets, links become <url|label>, and &, < and > are escaped.
func ToMrkdwn(md string) string {
	src := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(src))

	r := mrkdwnRenderer{src: src}
	return strings.TrimSpace(r.blocks(doc, "\n\n"))
}

type mrkdwnRenderer struct {
	src []byte
}

// blocks renders every block child of parent, joined by sep.
func (r *mrkdwnRenderer) blocks(parent ast.Node, sep string) string {
	var parts []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (r *mrkdwnRenderer) block(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return r.inlines(node)
	case *ast.Heading:
		inner := r.inlines(node)
		if inner == "" {
			return ""
		}
		return "*" + inner + "*"
	case *ast.List:
		return r.list(node)
	case *ast.Blockquote:
		inner := r.blocks(node, "\n")
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return "```\n" + strings.TrimRight(r.rawLines(node), "\n") + "\n```"
	case *ast.HTMLBlock:
		return mrkdwnEscaper.Replace(strings.TrimRight(r.rawLines(node), "\n"))
	case *ast.ThematicBreak:
		return "---"
	default:
		if n.Type() == ast.TypeInline {
			return r.inline(n)
		}
		return r.blocks(n, "\n")
	}
}

func (r *mrkdwnRenderer) list(l *ast.List) string {
	number := l.Start
	if number == 0 {
		number = 1
	}

	var items []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if l.IsOrdered() {
			marker = strconv.Itoa(number) + "."
			number++
		}

		content := r.blocks(item, "\n")
		lines := strings.Split(content, "\n")
		for i := 1; i < len(lines); i++ {
			if lines[i] != "" {
				lines[i] = "    " + lines[i]
			}
		}
		items = append(items, marker+" "+strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func (r *mrkdwnRenderer) rawLines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.src))
	}
	return b.String()
}

func (r *mrkdwnRenderer) inlines(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.inline(c))
	}
	return strings.TrimSpace(b.String())
}

func (r *mrkdwnRenderer) inline(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Text:
		s := mrkdwnEscaper.Replace(string(plainText(node.Segment.Value(r.src))))
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += "\n"
		}
		return s
	case *ast.String:
		return mrkdwnEscaper.Replace(string(node.Value))
	case *ast.Emphasis:
		inner := r.inlines(node)
		if node.Level >= 2 {
			return "*" + inner + "*"
		}
		return "_" + inner + "_"
	case *extast.Strikethrough:
		return "~" + r.inlines(node) + "~"
	case *ast.CodeSpan:
		var b strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(r.src))
			}
		}
		return "`" + mrkdwnEscaper.Replace(b.String()) + "`"
	case *ast.Link:
		return formatLink(string(node.Destination), r.inlines(node))
	case *ast.Image:
		return formatLink(string(node.Destination), r.inlines(node))
	case *ast.AutoLink:
		return "<" + string(node.URL(r.src)) + ">"
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(r.src))
		}
		return mrkdwnEscaper.Replace(b.String())
	default:
		return r.inlines(n)
	}
}

// plainText drops backslash escapes and resolves character references,
// leaving the literal characters the Markdown source stood for.
func plainText(value []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
}

func formatLink(dest, label string) string {
	if label == "" || label == dest {
		return "<" + dest + ">"
	}
	return "<" + dest + "|" + label + ">"
}
