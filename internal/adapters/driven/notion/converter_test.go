package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdown_Headings(t *testing.T) {
	blocks := ConvertMarkdown([]byte("# Title\n\n## Section\n\n### Detail\n"))
	require.Len(t, blocks, 3)

	h1, ok := blocks[0].(*notionapi.Heading1Block)
	require.True(t, ok)
	assert.Equal(t, "Title", h1.Heading1.RichText[0].Text.Content)

	h2, ok := blocks[1].(*notionapi.Heading2Block)
	require.True(t, ok)
	assert.Equal(t, "Section", h2.Heading2.RichText[0].Text.Content)

	h3, ok := blocks[2].(*notionapi.Heading3Block)
	require.True(t, ok)
	assert.Equal(t, "Detail", h3.Heading3.RichText[0].Text.Content)
}

func TestConvertMarkdown_DeepHeadingClampsToHeading3(t *testing.T) {
	blocks := ConvertMarkdown([]byte("##### Tiny\n"))
	require.Len(t, blocks, 1)

	h3, ok := blocks[0].(*notionapi.Heading3Block)
	require.True(t, ok)
	assert.Equal(t, "Tiny", h3.Heading3.RichText[0].Text.Content)
}

func TestConvertMarkdown_Paragraph(t *testing.T) {
	blocks := ConvertMarkdown([]byte("Plain text with some words.\n"))
	require.Len(t, blocks, 1)

	para, ok := blocks[0].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.Equal(t, "Plain text with some words.", para.Paragraph.RichText[0].Text.Content)
}

func TestConvertMarkdown_Lists(t *testing.T) {
	blocks := ConvertMarkdown([]byte("- alpha\n- beta\n\n1. first\n2. second\n"))
	require.Len(t, blocks, 4)

	bullet, ok := blocks[0].(*notionapi.BulletedListItemBlock)
	require.True(t, ok)
	assert.Equal(t, "alpha", bullet.BulletedListItem.RichText[0].Text.Content)

	numbered, ok := blocks[2].(*notionapi.NumberedListItemBlock)
	require.True(t, ok)
	assert.Equal(t, "first", numbered.NumberedListItem.RichText[0].Text.Content)
}

func TestConvertMarkdown_FencedCode(t *testing.T) {
	blocks := ConvertMarkdown([]byte("```go\nfmt.Println(\"hi\")\n```\n"))
	require.Len(t, blocks, 1)

	code, ok := blocks[0].(*notionapi.CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "go", code.Code.Language)
	assert.Equal(t, "fmt.Println(\"hi\")\n", code.Code.RichText[0].Text.Content)
}

func TestConvertMarkdown_FencedCodeWithoutLanguage(t *testing.T) {
	blocks := ConvertMarkdown([]byte("```\nraw\n```\n"))
	require.Len(t, blocks, 1)

	code, ok := blocks[0].(*notionapi.CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "plain text", code.Code.Language)
}

func TestConvertMarkdown_DisplayEquation(t *testing.T) {
	blocks := ConvertMarkdown([]byte("$$E = mc^2$$\n"))
	require.Len(t, blocks, 1)

	eq, ok := blocks[0].(*notionapi.EquationBlock)
	require.True(t, ok)
	assert.Equal(t, "E = mc^2", eq.Equation.Expression)
}

func TestConvertMarkdown_DollarInsideTextStaysParagraph(t *testing.T) {
	blocks := ConvertMarkdown([]byte("This costs $$ a lot.\n"))
	require.Len(t, blocks, 1)

	_, ok := blocks[0].(*notionapi.ParagraphBlock)
	assert.True(t, ok)
}

func TestConvertMarkdown_QuoteAndDivider(t *testing.T) {
	blocks := ConvertMarkdown([]byte("> wise words\n\n---\n"))
	require.Len(t, blocks, 2)

	quote, ok := blocks[0].(*notionapi.QuoteBlock)
	require.True(t, ok)
	assert.Equal(t, "wise words", quote.Quote.RichText[0].Text.Content)

	_, ok = blocks[1].(*notionapi.DividerBlock)
	assert.True(t, ok)
}

func TestConvertMarkdown_Empty(t *testing.T) {
	assert.Empty(t, ConvertMarkdown(nil))
	assert.Empty(t, ConvertMarkdown([]byte("")))
}
