package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "미채점 예측 채점",
	Long: `기록된 개표 결과와 대조하여 미채점 예측을 채점합니다.

채점 결과:
- scored: 일치 개수 기록 완료
- deferred: 해당 날짜의 개표 결과 미기록 (다음 실행에서 재시도)
- skipped: 이미 채점됨 (동시 실행)

Example:
  go run ./cmd/fortuna verify`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Verify ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	outcomes, err := app.runner.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if len(outcomes) == 0 {
		fmt.Println("\n✅ Nothing to score")
		return nil
	}

	counts := map[contracts.ScoringStatus]int{}
	fmt.Println()
	for _, o := range outcomes {
		counts[o.Status]++
		switch o.Status {
		case contracts.ScoringScored:
			fmt.Printf("  ✅ %s/%-9s %d matches %v\n",
				contracts.DateKey(o.DrawDate), o.Strategy, o.MatchCount, o.MatchDetail)
		case contracts.ScoringDeferred:
			fmt.Printf("  ⏳ %s/%-9s deferred (no draw yet)\n",
				contracts.DateKey(o.DrawDate), o.Strategy)
		case contracts.ScoringSkipped:
			fmt.Printf("  ⏭️  %s/%-9s already scored\n",
				contracts.DateKey(o.DrawDate), o.Strategy)
		}
	}
	fmt.Printf("\nscored=%d deferred=%d skipped=%d\n",
		counts[contracts.ScoringScored], counts[contracts.ScoringDeferred], counts[contracts.ScoringSkipped])

	return nil
}
