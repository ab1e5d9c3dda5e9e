package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDetectsColumns(t *testing.T) {
	csv := strings.Join([]string{
		"id,review_text,rating",
		"1,Great camera,5",
		"2,Bad battery,2",
	}, "\n")

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "review_text", table.TextColumn)
	assert.Equal(t, "rating", table.RatingColumn)
	assert.True(t, table.HasRatings())
	require.Len(t, table.Reviews, 2)
	assert.Equal(t, "Great camera", table.Reviews[0].Text)
	require.NotNil(t, table.Reviews[0].Rating)
	assert.Equal(t, 5.0, *table.Reviews[0].Rating)
}

func TestReadColumnOrderWins(t *testing.T) {
	// Both columns match a keyword; the first in table order is chosen.
	csv := "review_text,comments\nfrom review col,from comments col\n"

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "review_text", table.TextColumn)

	csv = "comments,review_text\nfrom comments col,from review col\n"
	table, err = Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "comments", table.TextColumn)
}

func TestReadNoTextColumn(t *testing.T) {
	csv := "id,rating\n1,5\n"

	_, err := Read(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrNoTextColumn)
}

func TestReadRatingColumnOptional(t *testing.T) {
	csv := "review\nDecent product\n"

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, table.HasRatings())
	require.Len(t, table.Reviews, 1)
	assert.Nil(t, table.Reviews[0].Rating)
}

func TestReadDropsEmptyText(t *testing.T) {
	csv := strings.Join([]string{
		"review,score",
		"Solid screen,4",
		",3",
		"   ,2",
		"Great sound,5",
	}, "\n")

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, table.TotalRows)
	require.Len(t, table.Reviews, 2)
	assert.Equal(t, "Solid screen", table.Reviews[0].Text)
	assert.Equal(t, "Great sound", table.Reviews[1].Text)
}

func TestReadUnparseableRatingIsMissing(t *testing.T) {
	csv := "review,stars\nNice display,five\nAverage display,3\n"

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, table.Reviews, 2)
	assert.Nil(t, table.Reviews[0].Rating)
	require.NotNil(t, table.Reviews[1].Rating)
	assert.Equal(t, 3.0, *table.Reviews[1].Rating)
}

func TestReadStripsHTML(t *testing.T) {
	csv := `review
"<p>Great <b>camera</b> quality</p><script>alert(1)</script>"
`

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, table.Reviews, 1)
	assert.Equal(t, "Great camera quality", table.Reviews[0].Text)
}

func TestReadPlainTextWithAngleBracketsUntouched(t *testing.T) {
	csv := "review\nvalue < quality but > price\n"

	table, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, table.Reviews, 1)
	assert.Equal(t, "value < quality but > price", table.Reviews[0].Text)
}
