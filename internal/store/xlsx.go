package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/pkg/config"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// Sheet layouts. The column order is the interchange contract; spreadsheets
// produced here round-trip losslessly through Load.
var (
	historyHeader = []string{
		"draw_date", "number_1", "number_2", "number_3", "number_4", "number_5",
		"source", "fetched_at",
	}
	ledgerHeader = []string{
		"draw_date", "strategy_id",
		"picked_1", "picked_2", "picked_3", "picked_4", "picked_5",
		"seed", "low_confidence", "created_at",
		"match_count", "match_detail",
		"superseded", "superseded_reason",
	}
)

const (
	historySheet = "History"
	ledgerSheet  = "Ledger"
)

// XLSXStore persists the full snapshot as two workbooks: draw history in
// one, the prediction ledger (superseded rows included) in the other.
// ⭐ SSOT: xlsx 파일 입출력은 여기서만
type XLSXStore struct {
	historyPath string
	ledgerPath  string
	logger      *logger.Logger
}

// NewXLSXStore creates a store over the configured interchange paths.
func NewXLSXStore(cfg *config.Config, log *logger.Logger) *XLSXStore {
	return &XLSXStore{
		historyPath: cfg.Export.HistoryPath,
		ledgerPath:  cfg.Export.LedgerPath,
		logger:      log.WithComponent("store.xlsx"),
	}
}

// Load reads both workbooks into a Snapshot. A missing file contributes an
// empty section, so first runs start from nothing.
func (s *XLSXStore) Load(ctx context.Context) (*contracts.Snapshot, error) {
	snap := &contracts.Snapshot{}

	draws, err := s.loadHistory()
	if err != nil {
		return nil, err
	}
	snap.Draws = draws

	preds, err := s.loadLedger()
	if err != nil {
		return nil, err
	}
	snap.Predictions = preds

	s.logger.WithFields(map[string]interface{}{
		"draws":       len(snap.Draws),
		"predictions": len(snap.Predictions),
	}).Info("snapshot loaded")
	return snap, nil
}

// Save writes both workbooks. Each file is written to a temp sibling and
// renamed into place, so a failed save never clobbers the previous state.
func (s *XLSXStore) Save(ctx context.Context, snap *contracts.Snapshot) error {
	if err := s.saveHistory(snap.Draws); err != nil {
		return err
	}
	if err := s.saveLedger(snap.Predictions); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"draws":       len(snap.Draws),
		"predictions": len(snap.Predictions),
	}).Info("snapshot saved")
	return nil
}

func (s *XLSXStore) loadHistory() ([]contracts.DrawRecord, error) {
	rows, err := readSheet(s.historyPath, historySheet)
	if err != nil {
		return nil, err
	}

	var draws []contracts.DrawRecord
	for i, row := range rows {
		draw, err := parseHistoryRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.historyPath, i+2, err)
		}
		draws = append(draws, *draw)
	}
	return draws, nil
}

func (s *XLSXStore) loadLedger() ([]contracts.PredictionRecord, error) {
	rows, err := readSheet(s.ledgerPath, ledgerSheet)
	if err != nil {
		return nil, err
	}

	var preds []contracts.PredictionRecord
	for i, row := range rows {
		pred, err := parseLedgerRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.ledgerPath, i+2, err)
		}
		preds = append(preds, *pred)
	}
	return preds, nil
}

// readSheet returns the data rows of a sheet, header skipped. A missing
// file yields no rows.
func readSheet(path, sheetName string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, fmt.Errorf("%s: sheet %q not found", path, sheetName)
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if isEmptyRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func (s *XLSXStore) saveHistory(draws []contracts.DrawRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(historySheet)
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", historySheet, err)
	}

	writeRow(sheet, historyHeader)
	for _, d := range draws {
		row := []string{contracts.DateKey(d.DrawDate)}
		for _, n := range d.Numbers {
			row = append(row, strconv.Itoa(n))
		}
		row = append(row, d.Source, formatTime(d.FetchedAt))
		writeRow(sheet, row)
	}

	return saveAtomic(f, s.historyPath)
}

func (s *XLSXStore) saveLedger(preds []contracts.PredictionRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(ledgerSheet)
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", ledgerSheet, err)
	}

	writeRow(sheet, ledgerHeader)
	for _, p := range preds {
		row := []string{contracts.DateKey(p.DrawDate), string(p.Strategy)}
		for _, n := range p.Picks {
			row = append(row, strconv.Itoa(n))
		}
		row = append(row,
			strconv.FormatInt(p.Seed, 10),
			strconv.FormatBool(p.LowConfidence),
			formatTime(p.CreatedAt),
			formatMatchCount(p.MatchCount),
			joinInts(p.MatchDetail),
			strconv.FormatBool(p.Superseded),
			p.SupersededReason,
		)
		writeRow(sheet, row)
	}

	return saveAtomic(f, s.ledgerPath)
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func saveAtomic(f *xlsx.File, path string) error {
	tmp := path + ".tmp"
	if err := f.Save(tmp); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func parseHistoryRow(cells []string) (*contracts.DrawRecord, error) {
	if len(cells) < 1+contracts.PickCount {
		return nil, fmt.Errorf("expected at least %d cells, got %d", 1+contracts.PickCount, len(cells))
	}

	date, err := parseDate(cells[0])
	if err != nil {
		return nil, err
	}

	numbers, err := parseInts(cells[1 : 1+contracts.PickCount])
	if err != nil {
		return nil, err
	}

	draw, err := contracts.NewDrawRecord(date, numbers)
	if err != nil {
		return nil, err
	}
	if len(cells) > 6 {
		draw.Source = cells[6]
	}
	if len(cells) > 7 && cells[7] != "" {
		if draw.FetchedAt, err = time.Parse(time.RFC3339, cells[7]); err != nil {
			return nil, fmt.Errorf("fetched_at: %w", err)
		}
	}
	return draw, nil
}

func parseLedgerRow(cells []string) (*contracts.PredictionRecord, error) {
	if len(cells) < 10 {
		return nil, fmt.Errorf("expected at least 10 cells, got %d", len(cells))
	}

	date, err := parseDate(cells[0])
	if err != nil {
		return nil, err
	}

	strategy := contracts.StrategyID(cells[1])
	if !strategy.Valid() {
		return nil, fmt.Errorf("unknown strategy %q", cells[1])
	}

	picks, err := parseInts(cells[2 : 2+contracts.PickCount])
	if err != nil {
		return nil, err
	}
	nums, err := contracts.NewNumberSet(picks)
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseInt(cells[7], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	lowConfidence, err := strconv.ParseBool(cells[8])
	if err != nil {
		return nil, fmt.Errorf("low_confidence: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339, cells[9])
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	pred := &contracts.PredictionRecord{
		DrawDate:      contracts.Midnight(date),
		Strategy:      strategy,
		Picks:         nums,
		Seed:          seed,
		LowConfidence: lowConfidence,
		CreatedAt:     createdAt,
	}

	if len(cells) > 10 && cells[10] != "" {
		count, err := strconv.Atoi(cells[10])
		if err != nil {
			return nil, fmt.Errorf("match_count: %w", err)
		}
		pred.MatchCount = &count
		if len(cells) > 11 && cells[11] != "" {
			if pred.MatchDetail, err = parseInts(strings.Fields(cells[11])); err != nil {
				return nil, fmt.Errorf("match_detail: %w", err)
			}
		} else {
			pred.MatchDetail = []int{}
		}
	}

	if len(cells) > 12 && cells[12] != "" {
		if pred.Superseded, err = strconv.ParseBool(cells[12]); err != nil {
			return nil, fmt.Errorf("superseded: %w", err)
		}
	}
	if len(cells) > 13 {
		pred.SupersededReason = cells[13]
	}

	return pred, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("draw_date: %w", err)
	}
	return t, nil
}

func parseInts(cells []string) ([]int, error) {
	out := make([]int, 0, len(cells))
	for _, c := range cells {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", c, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatMatchCount(count *int) string {
	if count == nil {
		return ""
	}
	return strconv.Itoa(*count)
}
