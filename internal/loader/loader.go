package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/pkg/logger"
)

var ErrNoTextColumn = errors.New("no review text column found, expected a column like 'review', 'text' or 'comment'")

var (
	textColumnKeywords   = []string{"review", "text", "comment", "feedback"}
	ratingColumnKeywords = []string{"rating", "score", "stars"}

	htmlTagPattern    = regexp.MustCompile(`(?i)<[a-z][^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

type Review struct {
	Text   string
	Rating *float64
}

type Table struct {
	Reviews      []Review
	TextColumn   string
	RatingColumn string
	TotalRows    int
}

func (t *Table) HasRatings() bool {
	return t.RatingColumn != ""
}

func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reviews file: %w", err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, err
	}

	logger.Info("Reviews loaded",
		zap.String("path", path),
		zap.Int("rows", table.TotalRows),
		zap.Int("reviews", len(table.Reviews)),
		zap.String("text_column", table.TextColumn),
		zap.String("rating_column", table.RatingColumn),
	)

	return table, nil
}

func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	textIdx := findColumn(header, textColumnKeywords)
	if textIdx < 0 {
		return nil, ErrNoTextColumn
	}

	ratingIdx := findColumn(header, ratingColumnKeywords)

	table := &Table{
		TextColumn: header[textIdx],
	}
	if ratingIdx >= 0 {
		table.RatingColumn = header[ratingIdx]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		table.TotalRows++

		if textIdx >= len(record) {
			continue
		}
		text := cleanText(record[textIdx])
		if text == "" {
			continue
		}

		review := Review{Text: text}
		if ratingIdx >= 0 && ratingIdx < len(record) {
			if rating, err := strconv.ParseFloat(strings.TrimSpace(record[ratingIdx]), 64); err == nil {
				review.Rating = &rating
			}
		}

		table.Reviews = append(table.Reviews, review)
	}

	return table, nil
}

// findColumn returns the index of the first column, in table order, whose
// lowercased name contains any of the keywords.
func findColumn(header []string, keywords []string) int {
	for i, col := range header {
		lower := strings.ToLower(col)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return i
			}
		}
	}
	return -1
}

func cleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if htmlTagPattern.MatchString(text) {
		text = stripHTML(text)
	}
	return text
}

func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	plain := doc.Text()
	plain = whitespacePattern.ReplaceAllString(plain, " ")

	return strings.TrimSpace(plain)
}
