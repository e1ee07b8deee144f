package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "일일 사이클 전체 실행",
	Long: `예측 → 수집 → 채점의 일일 사이클을 한 번에 실행합니다.

각 단계는 순서대로 실행되며, 실패 시 이후 단계는 건너뜁니다.
개표 결과가 아직 공개되지 않았으면 채점은 다음 실행으로 미뤄집니다.

Example:
  go run ./cmd/fortuna run
  go run ./cmd/fortuna run --date 2026-08-18
  go run ./cmd/fortuna run --force --reason "regenerate after source fix"`,
	RunE: runCycle,
}

var (
	runDate   string
	runForce  bool
	runReason string
)

func init() {
	rootCmd.AddCommand(runCmd)

	// Flags
	runCmd.Flags().StringVar(&runDate, "date", "", "draw date (YYYY-MM-DD, default today)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "overwrite existing predictions")
	runCmd.Flags().StringVar(&runReason, "reason", "", "audit reason (required with --force)")
}

func runCycle(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Daily Cycle ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	date, err := app.parseDateFlag(runDate)
	if err != nil {
		return err
	}

	result, err := app.runner.Run(cmd.Context(), pipeline.RunConfig{
		Date:        date,
		Force:       runForce,
		ForceReason: runReason,
	})
	if err != nil {
		fmt.Printf("\n❌ Cycle failed after %v: %v\n", result.CompletedPhases, err)
		return err
	}

	fmt.Printf("\n✅ Cycle for %s completed in %s\n", contracts.DateKey(result.Date), result.Duration.Round(time.Millisecond))
	fmt.Printf("\n[predict] created=%d existing=%d overwritten=%d failed=%d\n",
		result.Predict.Created, result.Predict.Existing, result.Predict.Overwritten, result.Predict.Failed)

	if result.Draw != nil {
		fmt.Printf("[ingest]  %s: %v (source: %s, appended: %t)\n",
			result.Draw.Key(), result.Draw.Numbers, result.Draw.Source, result.DrawAppended)
	} else {
		fmt.Println("[ingest]  no result published yet")
	}

	scored, deferred := 0, 0
	for _, o := range result.Scoring {
		switch o.Status {
		case contracts.ScoringScored:
			scored++
		case contracts.ScoringDeferred:
			deferred++
		}
	}
	fmt.Printf("[verify]  scored=%d deferred=%d\n", scored, deferred)

	return nil
}
