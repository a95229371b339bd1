package notion

import (
	"strings"

	"github.com/jomei/notionapi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ConvertMarkdown parses Markdown and renders the top-level nodes as
// Notion blocks. Headings, paragraphs, lists, fenced code, quotes,
// thematic breaks and $$-delimited display equations are mapped;
// anything else is flattened to a paragraph of its text content.
func ConvertMarkdown(source []byte) []notionapi.Block {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []notionapi.Block
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		blocks = append(blocks, renderNode(node, source)...)
	}
	return blocks
}

func renderNode(node ast.Node, source []byte) []notionapi.Block {
	switch n := node.(type) {
	case *ast.Heading:
		return []notionapi.Block{renderHeading(n, source)}
	case *ast.Paragraph:
		content := nodeText(n, source)
		if expr, ok := displayEquation(content); ok {
			return []notionapi.Block{equationBlock(expr)}
		}
		return []notionapi.Block{paragraphBlock(content)}
	case *ast.List:
		return renderList(n, source)
	case *ast.FencedCodeBlock:
		return []notionapi.Block{renderCode(n, source)}
	case *ast.Blockquote:
		return []notionapi.Block{quoteBlock(nodeText(n, source))}
	case *ast.ThematicBreak:
		return []notionapi.Block{dividerBlock()}
	default:
		content := nodeText(node, source)
		if content == "" {
			return nil
		}
		return []notionapi.Block{paragraphBlock(content)}
	}
}

func renderHeading(h *ast.Heading, source []byte) notionapi.Block {
	rich := []notionapi.RichText{richText(nodeText(h, source))}
	heading := notionapi.Heading{RichText: rich}

	switch h.Level {
	case 1:
		return &notionapi.Heading1Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
			Heading1:   heading,
		}
	case 2:
		return &notionapi.Heading2Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
			Heading2:   heading,
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
			Heading3:   heading,
		}
	}
}

func renderList(list *ast.List, source []byte) []notionapi.Block {
	var blocks []notionapi.Block
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		rich := []notionapi.RichText{richText(listItemText(item, source))}
		if list.IsOrdered() {
			blocks = append(blocks, &notionapi.NumberedListItemBlock{
				BasicBlock:       basicBlock(notionapi.BlockTypeNumberedListItem),
				NumberedListItem: notionapi.ListItem{RichText: rich},
			})
		} else {
			blocks = append(blocks, &notionapi.BulletedListItemBlock{
				BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
				BulletedListItem: notionapi.ListItem{RichText: rich},
			})
		}
	}
	return blocks
}

func renderCode(code *ast.FencedCodeBlock, source []byte) notionapi.Block {
	var content strings.Builder
	lines := code.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		content.Write(segment.Value(source))
	}

	language := string(code.Language(source))
	if language == "" {
		language = "plain text"
	}

	return &notionapi.CodeBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeCode),
		Code: notionapi.Code{
			RichText: []notionapi.RichText{richText(content.String())},
			Language: language,
		},
	}
}

// displayEquation detects a paragraph that is exactly one $$...$$ block
// and extracts the LaTeX expression.
func displayEquation(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < 5 || !strings.HasPrefix(trimmed, "$$") || !strings.HasSuffix(trimmed, "$$") {
		return "", false
	}
	expr := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
	if expr == "" || strings.Contains(expr, "$$") {
		return "", false
	}
	return expr, true
}

// listItemText extracts the text of a list item's first text block,
// ignoring nested lists.
func listItemText(item ast.Node, source []byte) string {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			return nodeText(child, source)
		}
	}
	return ""
}

// nodeText flattens a node's inline content to plain text.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func basicBlock(blockType notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   blockType,
	}
}

func paragraphBlock(content string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
		Paragraph: notionapi.Paragraph{
			RichText: []notionapi.RichText{richText(content)},
		},
	}
}

func quoteBlock(content string) notionapi.Block {
	return &notionapi.QuoteBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeQuote),
		Quote: notionapi.Quote{
			RichText: []notionapi.RichText{richText(content)},
		},
	}
}

func equationBlock(expression string) notionapi.Block {
	return &notionapi.EquationBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeEquation),
		Equation: notionapi.Equation{
			Expression: expression,
		},
	}
}

func dividerBlock() notionapi.Block {
	return &notionapi.DividerBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeDivider),
		Divider:    notionapi.Divider{},
	}
}

func richText(content string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}
}
