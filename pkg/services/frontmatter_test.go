package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newspage/pkg/models"
)

func TestSerializeArticle_RoundTripsKnownAndExtraFields(t *testing.T) {
	meta := models.Metadata{
		ID:          "breaking-news",
		Title:       "Breaking: markets [update]",
		Date:        "2024-03-15",
		Description: `She said "hi" \ then left`,
		Thumbnail:   "/uploads/abc.png",
		Extra: []models.Field{
			{Key: "author", Value: "Alex"},
			{Key: "tags", Value: "news, markets"},
		},
	}

	content := SerializeArticle(meta, "\n\n# Body\n\nText.\n")
	got, body := ParseMetadata(content)

	assert.Equal(t, meta, got)
	assert.Equal(t, "# Body\n\nText.\n", body[1:])
}

func TestSerializeArticle_Format(t *testing.T) {
	content := SerializeArticle(models.Metadata{
		ID:    "plain",
		Title: "Plain title",
		Date:  "2024-01-01",
	}, "Body\n")

	assert.Equal(t, "---\nid: plain\ntitle: Plain title\ndate: 2024-01-01\n---\n\nBody\n", content)
}

func TestSerializeArticle_QuotesSignificantCharacters(t *testing.T) {
	content := SerializeArticle(models.Metadata{Title: "a: b", Description: " padded "}, "")
	assert.Contains(t, content, "title: \"a: b\"\n")
	assert.Contains(t, content, "description: \" padded \"\n")
}

func TestSerializeArticle_OmitsEmptyFields(t *testing.T) {
	content := SerializeArticle(models.Metadata{
		ID:    "x",
		Extra: []models.Field{{Key: "empty", Value: ""}, {Key: "kept", Value: "yes"}},
	}, "")
	assert.Equal(t, "---\nid: x\nkept: yes\n---\n\n", content)
}

func TestParseMetadata_PreservesExtraOrder(t *testing.T) {
	meta, _ := ParseMetadata("---\nzeta: 1\nid: a\nalpha: 2\nmid: 'single'\n---\nbody")
	require.Len(t, meta.Extra, 3)
	assert.Equal(t, []models.Field{
		{Key: "zeta", Value: "1"},
		{Key: "alpha", Value: "2"},
		{Key: "mid", Value: "single"},
	}, meta.Extra)
	v, ok := meta.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestParseMetadata_WithoutBlock(t *testing.T) {
	meta, body := ParseMetadata("# Just a body\n")
	assert.Equal(t, models.Metadata{}, meta)
	assert.Equal(t, "# Just a body\n", body)
}

func TestParseMetadata_CRLF(t *testing.T) {
	meta, body := ParseMetadata("---\r\nid: win\r\ntitle: Windows\r\n---\r\nbody\r\n")
	assert.Equal(t, "win", meta.ID)
	assert.Equal(t, "Windows", meta.Title)
	assert.Equal(t, "body\r\n", body)
}

func TestSplitMetadata_UnclosedBlockIsBody(t *testing.T) {
	block, body, had := SplitMetadata("---\nid: open\nno closing line\n")
	assert.False(t, had)
	assert.Empty(t, block)
	assert.Equal(t, "---\nid: open\nno closing line\n", body)
}

func TestSplitMetadata_ClosingDelimiterAtEOF(t *testing.T) {
	block, body, had := SplitMetadata("---\nid: a\n---")
	assert.True(t, had)
	assert.Equal(t, "id: a\n", block)
	assert.Empty(t, body)
}
