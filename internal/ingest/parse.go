package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// A parseFunc reads one source's page and returns the draw for the target
// date, or ErrNoResult when the page carries no result for it yet.
type parseFunc func(doc *goquery.Document, target time.Time) (*contracts.DrawRecord, error)

var (
	numberRe = regexp.MustCompile(`\b\d{1,2}\b`)
	// Date spellings that appear in result markup. Stripped before number
	// extraction so date digits never leak into the number set.
	dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}|[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4}|\d{4}`)
)

// dateSpellings returns the textual forms a source may print the target
// date in.
func dateSpellings(target time.Time) []string {
	return []string{
		target.Format("2006-01-02"),
		target.Format("01/02/2006"),
		target.Format("1/2/2006"),
		target.Format("Jan 2, 2006"),
		target.Format("January 2, 2006"),
	}
}

// mentionsDate reports whether the text contains the target date in any
// known spelling.
func mentionsDate(text string, target time.Time) bool {
	for _, s := range dateSpellings(target) {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// extractNumbers pulls the first PickCount distinct in-range numbers from
// free text, date digits excluded.
func extractNumbers(text string) ([]int, error) {
	cleaned := dateRe.ReplaceAllString(text, " ")

	seen := make(map[int]bool, contracts.PickCount)
	numbers := make([]int, 0, contracts.PickCount)
	for _, tok := range numberRe.FindAllString(cleaned, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || n < contracts.MinNumber || n > contracts.MaxNumber {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
		if len(numbers) == contracts.PickCount {
			return numbers, nil
		}
	}

	return nil, fmt.Errorf("found %d usable numbers, need %d", len(numbers), contracts.PickCount)
}

// containerClassRe matches the markup classes the official site uses around
// draw results. The page layout shifts between releases, so matching is
// loose and the extracted numbers are validated afterwards.
var containerClassRe = regexp.MustCompile(`(?i)result|draw|winning|number|game`)

// parseOfficial reads the calottery.com game page: the draw result sits in
// a container whose class mentions the result, alongside the draw date.
func parseOfficial(doc *goquery.Document, target time.Time) (*contracts.DrawRecord, error) {
	var record *contracts.DrawRecord
	var parseErr error

	doc.Find("div, section").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if !containerClassRe.MatchString(class) {
			return true
		}

		text := sel.Text()
		if !mentionsDate(text, target) {
			return true
		}

		numbers, err := extractNumbers(text)
		if err != nil {
			// A matching container without a full number set is usually a
			// header block; keep scanning.
			return true
		}

		record, parseErr = contracts.NewDrawRecord(target, numbers)
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if record == nil {
		return nil, ErrNoResult
	}
	return record, nil
}

// parseTableRows is the shared shape of the mirror sites: one table row per
// draw, date and numbers in the row text.
func parseTableRows(doc *goquery.Document, target time.Time) (*contracts.DrawRecord, error) {
	var record *contracts.DrawRecord
	var parseErr error

	doc.Find("table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		text := row.Text()
		if !mentionsDate(text, target) {
			return true
		}

		numbers, err := extractNumbers(text)
		if err != nil {
			return true
		}

		record, parseErr = contracts.NewDrawRecord(target, numbers)
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if record == nil {
		return nil, ErrNoResult
	}
	return record, nil
}

// parseLotteryUSA reads the lotteryusa.com California mirror.
func parseLotteryUSA(doc *goquery.Document, target time.Time) (*contracts.DrawRecord, error) {
	return parseTableRows(doc, target)
}

// parseTWLottery reads the twlottery.in mirror.
func parseTWLottery(doc *goquery.Document, target time.Time) (*contracts.DrawRecord, error) {
	return parseTableRows(doc, target)
}
