package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/horizon/backend/internal/api/handlers"
	"github.com/wonny/horizon/backend/internal/contracts"
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "입력 행에 대한 예측 윈도우 생성",
	Long: `적합 후 입력 파일의 각 행에 대해 길이 H 예측 윈도우를 생성합니다.

입력은 JSON 배열입니다:
  [{"order": 1700000000, "target": 42.0, "labels": {"region": "A"}}, ...]

학습 시점에 없던 그룹은 naive fallback으로 처리됩니다.

Example:
  go run ./cmd/horizon forecast --input rows.json
  go run ./cmd/horizon forecast --input rows.json --output windows.json`,
	RunE: runForecast,
}

var (
	forecastInput  string
	forecastOutput string
	forecastSave   bool
)

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().StringVar(&forecastInput, "input", "", "JSON file with input rows (required)")
	forecastCmd.Flags().StringVar(&forecastOutput, "output", "", "write windows to file instead of stdout")
	forecastCmd.Flags().BoolVar(&forecastSave, "save", false, "persist windows to the database")
	_ = forecastCmd.MarkFlagRequired("input")
}

func runForecast(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horizon Forecast ===")

	data, err := os.ReadFile(forecastInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var inputs []handlers.RowInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("input file has no rows")
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	// The engine holds models in memory only, so every forecast run
	// starts with a fresh fit over the strategy dataset
	runID, status, err := executeFit(ctx, d)
	if err != nil {
		return err
	}
	d.log.WithField("family", string(status.Family)).Info("Fit committed, forecasting")

	rows := make([]contracts.Row, len(inputs))
	for i, in := range inputs {
		rows[i] = toRow(in)
	}

	forecasts, err := d.engine.Predict(ctx, rows)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	if forecastSave {
		if err := d.forecastRepo.SaveForecasts(ctx, runID, forecasts); err != nil {
			return fmt.Errorf("save forecasts: %w", err)
		}
		d.log.WithFields(map[string]interface{}{
			"run_id": runID,
			"rows":   len(forecasts),
		}).Info("Forecast windows persisted")
	}

	out, err := json.MarshalIndent(forecasts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if forecastOutput != "" {
		if err := os.WriteFile(forecastOutput, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("\n✅ %d windows written to %s\n", len(forecasts), forecastOutput)
		return nil
	}

	fmt.Println(string(out))
	return nil
}

func toRow(in handlers.RowInput) contracts.Row {
	row := contracts.Row{Order: in.Order, Labels: in.Labels}
	if in.Target != nil {
		row.Target = *in.Target
		row.Valid = true
	}
	return row
}
