package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "시스템 현재 상태",
	Long: `시스템의 현재 상태를 한눈에 보여줍니다.

표시 정보:
- 최신 개표 결과
- 오늘의 예측 기록 여부
- 미채점 예측 수

Example:
  go run ./cmd/fortuna status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Status ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	latest, err := app.history.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load latest draw: %w", err)
	}
	if latest != nil {
		fmt.Printf("\nLatest draw:  %s  %v  (source: %s)\n", latest.Key(), latest.Numbers, latest.Source)
	} else {
		fmt.Println("\nLatest draw:  none recorded")
	}

	today := app.today()
	fmt.Printf("Today (%s):   %s\n", app.loc, contracts.DateKey(today))
	for _, id := range contracts.AllStrategies() {
		pred, err := app.ledger.Get(ctx, today, id)
		switch {
		case err == nil && pred.Scored():
			fmt.Printf("  %-9s %v  scored: %d matches\n", id, pred.Picks, *pred.MatchCount)
		case err == nil:
			fmt.Printf("  %-9s %v\n", id, pred.Picks)
		case errors.Is(err, contracts.ErrNotFound):
			fmt.Printf("  %-9s not predicted yet\n", id)
		default:
			return fmt.Errorf("load prediction %s: %w", id, err)
		}
	}

	unscored, err := app.ledger.GetUnscored(ctx)
	if err != nil {
		return fmt.Errorf("load unscored: %w", err)
	}
	fmt.Printf("\nUnscored predictions: %d\n", len(unscored))

	return nil
}
