package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benri/internal/amazon"
)

func TestBuildRowsHeaderFirst(t *testing.T) {
	rows := BuildRows([]amazon.Product{
		{
			Title:       "テスト商品A",
			Price:       "￥1,000",
			Rating:      "4.5",
			ReviewCount: "120",
			URL:         "https://example.com/a",
		},
		{
			Title: "テスト商品B",
			Price: "￥2,000",
		},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, []any{
		"title", "price", "rating", "review_count",
		"availability", "image_url", "url", "description",
	}, rows[0])

	assert.Equal(t, "テスト商品A", rows[1][0])
	assert.Equal(t, "￥1,000", rows[1][1])
	assert.Equal(t, "https://example.com/a", rows[1][6])

	// Missing fields become empty cells, every row the same width.
	assert.Len(t, rows[2], len(rows[0]))
	assert.Equal(t, "", rows[2][2])
}

func TestBuildRowsEmpty(t *testing.T) {
	rows := BuildRows(nil)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 8)
}
