package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "전략 설정 및 최근 적합 이력 조회",
	Long: `전략 YAML 요약과 데이터베이스의 최근 적합 실행을 출력합니다.

Example:
  go run ./cmd/horizon status
  go run ./cmd/horizon status --limit 5`,
	RunE: runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of recent runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horizon Status ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	cfg := d.strategy.EngineConfig()

	fmt.Printf("\nStrategy: %s\n", d.strategy.Meta.StrategyID)
	fmt.Printf("  config hash: %s\n", d.configHash[:12])
	fmt.Printf("  dataset:     %s\n", d.strategy.Data.Dataset)
	fmt.Printf("  target:      %s (horizon %d)\n", cfg.TargetColumn, cfg.Horizon)
	if len(cfg.GroupBy) > 0 {
		fmt.Printf("  group by:    %v\n", cfg.GroupBy)
	}
	fmt.Printf("  candidates:  %v\n", cfg.FamilyCandidates())

	runs, err := d.runRepo.GetRecentRuns(cmd.Context(), statusLimit)
	if err != nil {
		return fmt.Errorf("get recent runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("\nNo fit runs recorded yet")
		return nil
	}

	fmt.Printf("\nRecent fit runs (%d):\n", len(runs))
	for _, run := range runs {
		fmt.Printf("  #%-4d %s  family=%-16s groups=%-4d skipped=%-3d %6.1fs  %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Family,
			run.GroupCount,
			run.SkipCount,
			run.Duration.Seconds(),
			run.ConfigHash[:12],
		)
	}

	return nil
}
