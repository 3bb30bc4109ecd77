package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "horizon",
	Short: "Horizon - 그룹 시계열 예측 엔진",
	Long: `Horizon Unified CLI

그룹별 시계열 예측 오케스트레이션 엔진.
관측 데이터 적재부터 모델 탐색, 적합, 예측 API까지.

Usage:
  go run ./cmd/horizon [command]

Examples:
  go run ./cmd/horizon fit
  go run ./cmd/horizon forecast --input rows.json
  go run ./cmd/horizon serve
  go run ./cmd/horizon status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
