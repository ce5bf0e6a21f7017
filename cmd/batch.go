package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hs-classifier/internal/fetcher"
	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/store"
)

var (
	batchInput  string
	batchOutput string
	batchMode   string
	batchLimit  int
	batchSave   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify every description in a CSV or XLSX file",
	Long:  "Reads descriptions from --input and writes one JSON line per input row. A row that fails is recorded with its error and does not stop the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode := model.Mode(batchMode)
		if !mode.Valid() {
			return eris.Errorf("invalid mode %q (want single or multi)", batchMode)
		}
		if batchInput == "" {
			return eris.New("--input is required")
		}

		items, err := readBatchInput(ctx, batchInput)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(items) > batchLimit {
			items = items[:batchLimit]
		}

		env, err := initClassifier(ctx, "batch", batchSave)
		if err != nil {
			return err
		}
		defer env.Close()

		out := io.Writer(os.Stdout)
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "batch: create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		_, err = processBatch(ctx, items, batchJob{
			Engine:      env.Engine,
			Store:       env.Store,
			Mode:        mode,
			Concurrency: cfg.Batch.MaxConcurrent,
		}, out)
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "CSV or XLSX file of descriptions")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "JSONL output file (default stdout)")
	batchCmd.Flags().StringVar(&batchMode, "mode", string(model.ModeSingle), "workflow: single or multi")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of rows to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "record each classification as a run")
	rootCmd.AddCommand(batchCmd)
}

// batchItem is one input row.
type batchItem struct {
	Line        int
	ID          string
	Description string
}

// batchLine is one JSONL output record.
type batchLine struct {
	Line        int            `json:"line"`
	ID          string         `json:"id,omitempty"`
	Description string         `json:"description"`
	RunID       string         `json:"run_id,omitempty"`
	FinalCode   string         `json:"final_code,omitempty"`
	Confidence  float64        `json:"confidence"`
	Result      *model.Outcome `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// batchJob carries the per-batch collaborators and limits.
type batchJob struct {
	Engine      classifier
	Store       store.Store
	Mode        model.Mode
	Concurrency int
}

// batchSummary counts batch outcomes.
type batchSummary struct {
	Succeeded int64
	Failed    int64
}

// readBatchInput loads descriptions from a CSV or XLSX file. When the first
// row has a "description" cell it is a header and an optional "id" column is
// honored; otherwise column 0 is the description.
func readBatchInput(ctx context.Context, path string) ([]batchItem, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	default:
		rows, err = fetcher.ReadCSVFile(ctx, path, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
	}
	if err != nil {
		return nil, eris.Wrap(err, "batch: read input")
	}
	return itemsFromRows(rows), nil
}

func itemsFromRows(rows [][]string) []batchItem {
	if len(rows) == 0 {
		return nil
	}

	descCol, idCol, start := 0, -1, 0
	for i, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "description":
			descCol, start = i, 1
		case "id":
			idCol = i
		}
	}
	if start == 0 {
		idCol = -1
	}

	items := make([]batchItem, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if descCol >= len(row) {
			continue
		}
		desc := strings.TrimSpace(row[descCol])
		if desc == "" {
			continue
		}
		item := batchItem{Line: i + 1, Description: desc}
		if idCol >= 0 && idCol < len(row) {
			item.ID = strings.TrimSpace(row[idCol])
		}
		items = append(items, item)
	}
	return items
}

// processBatch classifies items concurrently and writes one JSON line per
// item to out in input order. Item failures are recorded on their line.
func processBatch(ctx context.Context, items []batchItem, job batchJob, out io.Writer) (batchSummary, error) {
	var summary batchSummary
	if len(items) == 0 {
		zap.L().Info("no descriptions to classify")
		return summary, nil
	}

	concurrency := job.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("items", len(items)),
		zap.Int("concurrency", concurrency),
		zap.String("mode", string(job.Mode)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64
	lines := make([]batchLine, len(items))

	for i, item := range items {
		g.Go(func() error {
			log := zap.L().With(zap.Int("line", item.Line))
			line := batchLine{Line: item.Line, ID: item.ID, Description: item.Description}

			outcome, runID, err := classifyAndRecord(gctx, job.Engine, job.Store, item.Description, job.Mode)
			line.RunID = runID
			if err != nil {
				failed.Add(1)
				line.Error = err.Error()
				log.Error("classification failed", zap.Error(err))
			} else {
				succeeded.Add(1)
				line.FinalCode = outcome.FinalCode
				line.Confidence = outcome.Confidence
				line.Result = outcome
			}
			lines[i] = line
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		return summary, eris.Wrap(err, "batch processing")
	}

	enc := json.NewEncoder(out)
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return summary, eris.Wrap(err, "batch: write output")
		}
	}

	summary = batchSummary{Succeeded: succeeded.Load(), Failed: failed.Load()}
	zap.L().Info("batch complete",
		zap.Int64("succeeded", summary.Succeeded),
		zap.Int64("failed", summary.Failed),
	)
	return summary, nil
}
