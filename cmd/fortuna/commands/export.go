package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "xlsx 스냅샷 내보내기",
	Long: `전체 상태를 xlsx 워크북으로 내보냅니다.

내보내는 데이터:
- 개표 히스토리 (History 시트)
- 예측 원장 전체, superseded 행 포함 (Ledger 시트)

저장은 임시 파일에 쓴 뒤 교체하므로 실패해도 기존 파일은 유지됩니다.

Example:
  go run ./cmd/fortuna export`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Export ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	draws, err := app.history.All(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	preds, err := app.ledger.AllIncludingSuperseded(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	snap := &contracts.Snapshot{Draws: draws, Predictions: preds}
	if err := app.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	fmt.Printf("\n✅ Exported %d draws, %d predictions\n", len(snap.Draws), len(snap.Predictions))
	fmt.Printf("   history: %s\n", app.cfg.Export.HistoryPath)
	fmt.Printf("   ledger:  %s\n", app.cfg.Export.LedgerPath)

	return nil
}
