package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags_LowercasesAndDedupes(t *testing.T) {
	tags := ExtractHashtags("Loving the #GoLang and #golang community, also #WebDev")
	assert.ElementsMatch(t, []string{"golang", "webdev"}, tags)
}

func TestExtractHashtags_NoHashtags(t *testing.T) {
	tags := ExtractHashtags("just a plain post with no tags")
	assert.Empty(t, tags)
}

func TestExtractHashtags_WordBoundary(t *testing.T) {
	tags := ExtractHashtags("price is $5 not a tag, but #deal_of_the_day is")
	assert.Equal(t, []string{"deal_of_the_day"}, tags)
}
