package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "개표 결과 수집",
	Long: `공개된 개표 결과를 수집하여 히스토리에 기록합니다.

데이터 소스 (순서대로 시도):
- calottery.com (공식)
- lotteryusa.com (미러)
- twlottery.in (미러)

이미 기록된 날짜는 변경 없이 유지됩니다.

Example:
  go run ./cmd/fortuna ingest
  go run ./cmd/fortuna ingest --date 2026-08-18`,
	RunE: runIngest,
}

var ingestDate string

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Flags
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "draw date (YYYY-MM-DD, default today)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Ingest ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	if ingestDate != "" {
		date, err := app.parseDateFlag(ingestDate)
		if err != nil {
			return err
		}

		draw, err := app.fetcher.FetchFor(ctx, date)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		if draw == nil {
			fmt.Printf("\n⚠️  No result published for %s yet\n", date.Format("2006-01-02"))
			return nil
		}
		if err := app.history.Append(ctx, *draw); err != nil {
			return fmt.Errorf("append: %w", err)
		}
		fmt.Printf("\n✅ Recorded %s: %v (source: %s)\n", draw.Key(), draw.Numbers, draw.Source)
		return nil
	}

	draw, appended, err := app.runner.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if draw == nil {
		fmt.Println("\n⚠️  No result published yet")
		return nil
	}
	if appended {
		fmt.Printf("\n✅ Recorded %s: %v (source: %s)\n", draw.Key(), draw.Numbers, draw.Source)
	} else {
		fmt.Printf("\n✅ Already recorded %s: %v\n", draw.Key(), draw.Numbers)
	}

	return nil
}
