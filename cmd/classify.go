package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
)

var (
	classifyDescription string
	classifyMode        string
	classifySave        bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single product description",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode := model.Mode(classifyMode)
		if !mode.Valid() {
			return eris.Errorf("invalid mode %q (want single or multi)", classifyMode)
		}
		if classifyDescription == "" {
			return eris.New("--description is required")
		}

		env, err := initClassifier(ctx, "classify", classifySave)
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, runID, err := classifyAndRecord(ctx, env.Engine, env.Store, classifyDescription, mode)
		if err != nil {
			return eris.Wrap(err, "classify")
		}

		zap.L().Info("classification complete",
			zap.String("final_code", outcome.FinalCode),
			zap.Float64("confidence", outcome.Confidence),
			zap.Int("oracle_calls", outcome.Usage.Calls),
			zap.Float64("cost_usd", outcome.Usage.Cost),
			zap.String("run_id", runID),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyDescription, "description", "", "product description to classify")
	classifyCmd.Flags().StringVar(&classifyMode, "mode", string(model.ModeSingle), "workflow: single or multi")
	classifyCmd.Flags().BoolVar(&classifySave, "save", false, "record the classification as a run")
	rootCmd.AddCommand(classifyCmd)
}
