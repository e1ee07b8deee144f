package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/contracts"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "전략별 정확도 통계",
	Long: `채점 완료된 예측에서 전략별 정확도를 집계합니다.

집계 항목:
- 평균 일치 개수, 최고 일치 개수, 일치 분포
- random 전략 대비 엣지
- 무작위 기대값 (5*5/39 ≈ 0.641) 대비 엣지

Example:
  go run ./cmd/fortuna stats
  go run ./cmd/fortuna stats --window 90
  go run ./cmd/fortuna stats --window 0   # 전체 기간`,
	RunE: runStats,
}

var statsWindow int

func init() {
	rootCmd.AddCommand(statsCmd)

	// Flags
	statsCmd.Flags().IntVar(&statsWindow, "window", 30, "trailing window in days (0 = all time)")
}

func runStats(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna Stats ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.runner.Accuracy(cmd.Context(), app.today(), statsWindow)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if statsWindow > 0 {
		fmt.Printf("\nWindow: trailing %d days\n", statsWindow)
	} else {
		fmt.Println("\nWindow: all time")
	}
	fmt.Printf("Chance expectation: %.3f matches per draw\n\n", contracts.ChanceExpectation())

	fmt.Printf("%-9s %7s %7s %5s %9s %9s  %s\n",
		"strategy", "scored", "mean", "best", "vs rand", "vs chance", "histogram")
	for _, s := range stats {
		fmt.Printf("%-9s %7d %7.3f %5d %+9.3f %+9.3f  %s\n",
			s.Strategy, s.ScoredCount, s.MeanMatches, s.BestMatches,
			s.EdgeVsRandom, s.EdgeVsChance, formatHistogram(s.Histogram))
	}

	return nil
}

// formatHistogram renders a match-count histogram as "0:12 1:8 3:1".
func formatHistogram(hist map[int]int) string {
	if len(hist) == 0 {
		return "-"
	}

	counts := make([]int, 0, len(hist))
	for n := range hist {
		counts = append(counts, n)
	}
	sort.Ints(counts)

	out := ""
	for i, n := range counts {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d:%d", n, hist[n])
	}
	return out
}
