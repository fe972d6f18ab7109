package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_PageURL(t *testing.T) {
	listing, err := NewListing("https://example.com/category/fintech/page/{page}/")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/category/fintech/page/1/", listing.PageURL(1))
	assert.Equal(t, "https://example.com/category/fintech/page/12/", listing.PageURL(12))
}

func TestNewListing_NoPlaceholder(t *testing.T) {
	_, err := NewListing("https://example.com/category/fintech/")
	assert.Error(t, err)
}

// TestCursor_Sequence verifies pages advance one at a time from 1
func TestCursor_Sequence(t *testing.T) {
	listing, err := NewListing("https://example.com/category/fintech/page/{page}/")
	require.NoError(t, err)
	cursor := listing.Cursor()

	n, url := cursor.Next()
	assert.Equal(t, 1, n)
	assert.Equal(t, "https://example.com/category/fintech/page/1/", url)

	n, url = cursor.Next()
	assert.Equal(t, 2, n)
	assert.Equal(t, "https://example.com/category/fintech/page/2/", url)
	assert.Equal(t, 3, cursor.Page())

	cursor.Reset()
	n, _ = cursor.Next()
	assert.Equal(t, 1, n, "reset restarts at page 1")
}

func TestCursor_All(t *testing.T) {
	listing, err := NewListing("https://example.com/p/{page}")
	require.NoError(t, err)
	cursor := listing.Cursor()

	var pages []int
	var urls []string
	for n, url := range cursor.All() {
		pages = append(pages, n)
		urls = append(urls, url)
		if n == 3 {
			break
		}
	}

	assert.Equal(t, []int{1, 2, 3}, pages)
	assert.Equal(t, "https://example.com/p/3", urls[2])

	// The sequence resumes where the consumer stopped
	for n := range cursor.All() {
		assert.Equal(t, 4, n)
		break
	}
}
