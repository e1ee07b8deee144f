package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/pipeline"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "오늘의 예측 번호 생성",
	Long: `등록된 모든 전략으로 예측 번호를 생성하고 원장에 기록합니다.

이 명령어는:
- 전략별 번호 생성 (random, hot, cold, balanced, smart)
- 원장 기록 (이미 기록된 키는 유지)
- --force 시 기존 예측 교체 (감사 사유 필수)

Example:
  go run ./cmd/fortuna predict
  go run ./cmd/fortuna predict --date 2026-08-18
  go run ./cmd/fortuna predict --force --reason "source correction"`,
	RunE: runPredict,
}

var (
	predictDate   string
	predictForce  bool
	predictReason string
)

func init() {
	rootCmd.AddCommand(predictCmd)

	// Flags
	predictCmd.Flags().StringVar(&predictDate, "date", "", "draw date (YYYY-MM-DD, default today)")
	predictCmd.Flags().BoolVar(&predictForce, "force", false, "overwrite existing predictions")
	predictCmd.Flags().StringVar(&predictReason, "reason", "", "audit reason (required with --force)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Predict ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	date, err := app.parseDateFlag(predictDate)
	if err != nil {
		return err
	}

	report, err := app.runner.Predict(cmd.Context(), pipeline.RunConfig{
		Date:        date,
		Force:       predictForce,
		ForceReason: predictReason,
	})
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	fmt.Printf("\n✅ Predictions for %s\n\n", date.Format("2006-01-02"))
	for _, rec := range report.Records {
		marker := ""
		if rec.LowConfidence {
			marker = "  (low confidence)"
		}
		fmt.Printf("  %-9s %v%s\n", rec.Strategy, rec.Picks, marker)
	}
	fmt.Printf("\ncreated=%d existing=%d overwritten=%d failed=%d\n",
		report.Created, report.Existing, report.Overwritten, report.Failed)

	return nil
}
