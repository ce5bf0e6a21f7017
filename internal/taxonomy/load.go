package taxonomy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/fetcher"
	"github.com/sells-group/hs-classifier/internal/model"
)

// Load reads a taxonomy file. The format follows the extension: .csv, .xlsx
// or .json. CSV and XLSX rows are code,description; a first row without
// digits in its code column is treated as a header.
func Load(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = fetcher.ReadCSVFile(ctx, path, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
	case ".xlsx":
		rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	case ".json":
		rows, err = readJSON(path)
	default:
		return nil, eris.Errorf("taxonomy: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: load %s", path)
	}

	codes := FromRows(rows, log)
	store := New(codes)
	counts := store.Counts()
	log.Info("taxonomy loaded",
		zap.String("path", path),
		zap.Int("chapters", counts[model.LevelChapter]),
		zap.Int("headings", counts[model.LevelHeading]),
		zap.Int("subheadings", counts[model.LevelSubheading]),
	)
	if store.Len() == 0 {
		return nil, eris.Errorf("taxonomy: %s contains no valid codes", path)
	}
	return store, nil
}

// FromRows converts code,description rows into taxonomy codes. Rows whose
// code is not 2, 4 or 6 digits are skipped with a warning.
func FromRows(rows [][]string, log *zap.Logger) []model.TaxonomyCode {
	if log == nil {
		log = zap.NewNop()
	}
	codes := make([]model.TaxonomyCode, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		code := normalizeCode(row[0])
		level, ok := model.LevelOf(code)
		if !ok {
			if i == 0 && !strings.ContainsAny(code, "0123456789") {
				continue // header
			}
			log.Warn("skipping invalid taxonomy code", zap.Int("row", i+1), zap.String("code", row[0]))
			continue
		}
		var desc string
		if len(row) > 1 {
			desc = normalizeDescription(row[1])
		}
		codes = append(codes, model.TaxonomyCode{Code: code, Description: desc, Level: level})
	}
	return codes
}

type jsonCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func readJSON(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: read json")
	}
	var entries []jsonCode
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "taxonomy: decode json")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Code, e.Description})
	}
	return rows, nil
}
