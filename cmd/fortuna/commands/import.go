package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "xlsx 스냅샷 가져오기",
	Long: `xlsx 스냅샷을 읽어 데이터베이스에 적재합니다.

적재 규칙:
- 이미 기록된 날짜/키는 건너뜀 (기존 데이터 보존)
- superseded 행 포함 전체 원장 복원
- 빈 데이터베이스 초기 적재 용도

Example:
  go run ./cmd/fortuna import`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Import ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	snap, err := app.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	drawsAdded, drawsSkipped := 0, 0
	for _, draw := range snap.Draws {
		err := app.history.Append(ctx, draw)
		switch {
		case err == nil:
			drawsAdded++
		case errors.Is(err, contracts.ErrDuplicateDate):
			drawsSkipped++
		default:
			return fmt.Errorf("import draw %s: %w", draw.Key(), err)
		}
	}

	predsAdded, predsSkipped := 0, 0
	for _, pred := range snap.Predictions {
		inserted, err := app.ledger.Restore(ctx, pred)
		if err != nil {
			return fmt.Errorf("import prediction %s: %w", pred.Key(), err)
		}
		if inserted {
			predsAdded++
		} else {
			predsSkipped++
		}
	}

	fmt.Printf("\n✅ Import complete\n")
	fmt.Printf("   draws:       %d added, %d skipped\n", drawsAdded, drawsSkipped)
	fmt.Printf("   predictions: %d added, %d skipped\n", predsAdded, predsSkipped)

	return nil
}
