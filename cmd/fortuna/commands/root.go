package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fortuna",
	Short: "Fortuna - 캘리포니아 Fantasy 5 예측/검증 시스템",
	Long: `Fortuna Unified CLI

캘리포니아 Fantasy 5 일일 사이클 시스템.
전략별 번호 예측 → 개표 결과 수집 → 자동 채점까지.

Usage:
  go run ./cmd/fortuna [command]

Examples:
  go run ./cmd/fortuna run
  go run ./cmd/fortuna predict --date 2026-08-18
  go run ./cmd/fortuna stats --window 30
  go run ./cmd/fortuna scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
