package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const officialHTML = `
<html><body>
  <section class="game-header">
    <h1>Fantasy 5</h1>
  </section>
  <div class="winning-numbers-result">
    <p>Draw for Tuesday, Aug 18, 2026</p>
    <ul>
      <li>23</li>
      <li>7</li>
      <li>39</li>
      <li>12</li>
      <li>31</li>
    </ul>
  </div>
</body></html>`

func TestParseOfficial(t *testing.T) {
	target := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	record, err := parseOfficial(mustDoc(t, officialHTML), target)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 12, 23, 31, 39}, record.Numbers)
	assert.Equal(t, target, record.DrawDate)
}

func TestParseOfficial_NoResultForDate(t *testing.T) {
	// Page still shows the previous draw.
	target := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)

	_, err := parseOfficial(mustDoc(t, officialHTML), target)
	assert.ErrorIs(t, err, ErrNoResult)
}

const lotteryUSAHTML = `
<html><body>
  <table class="results">
    <tr><th>Date</th><th>Numbers</th></tr>
    <tr>
      <td>Aug 18, 2026</td>
      <td>7</td> <td>12</td> <td>23</td> <td>31</td> <td>39</td>
    </tr>
    <tr>
      <td>Aug 17, 2026</td>
      <td>2</td> <td>9</td> <td>15</td> <td>28</td> <td>33</td>
    </tr>
  </table>
</body></html>`

func TestParseLotteryUSA(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want []int
	}{
		{"latest row", time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), []int{7, 12, 23, 31, 39}},
		{"older row", time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), []int{2, 9, 15, 28, 33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := parseLotteryUSA(mustDoc(t, lotteryUSAHTML), tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.Numbers)
		})
	}
}

const twLotteryHTML = `
<html><body>
  <table>
    <tr>
      <td>2026-08-18</td>
      <td>07 12 23 31 39</td>
    </tr>
  </table>
</body></html>`

func TestParseTWLottery_ISODates(t *testing.T) {
	target := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	record, err := parseTWLottery(mustDoc(t, twLotteryHTML), target)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 12, 23, 31, 39}, record.Numbers)
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []int
		wantErr bool
	}{
		{"plain", "7 12 23 31 39", []int{7, 12, 23, 31, 39}, false},
		{"skips out of range", "5 12 40 23 31 39", []int{5, 12, 23, 31, 39}, false},
		{"skips duplicates", "7 7 12 23 31 39", []int{7, 12, 23, 31, 39}, false},
		{"date digits stripped", "08/18/2026: 7 12 23 31 39", []int{7, 12, 23, 31, 39}, false},
		{"iso date stripped", "2026-08-18 7 12 23 31 39", []int{7, 12, 23, 31, 39}, false},
		{"too few", "7 12 23", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractNumbers(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
