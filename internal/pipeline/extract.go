// Package pipeline wires the extraction stages together: it turns weekly
// menu images into per-day item lists, assembles dated Menu records, and
// drives the bulletin board crawl that feeds them.
package pipeline

import (
	"context"
	"image"
	"log/slog"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menutext"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/ocr"
)

// ModeText is the OCR output of one column in one layout mode.
type ModeText struct {
	Mode  string   `json:"mode"`
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
	Score int      `json:"score"`
	Error string   `json:"error,omitempty"`
}

// ColumnResult is the extraction result for one weekday column.
type ColumnResult struct {
	Index  int        `json:"index"`
	Modes  []ModeText `json:"modes"`
	Chosen string     `json:"chosen,omitempty"`
	Items  []string   `json:"items"`
}

// Extractor runs OCR over the columns of one menu image and finalizes each
// column into a day's items.
type Extractor struct {
	engine  ocr.Engine
	locator imaging.ColumnLocator
	scorer  menutext.Scorer
	logger  *slog.Logger
}

// NewExtractor creates an Extractor. A nil engine means no OCR backend is
// available; every column then yields menu.NoLunchInfo. A nil locator uses
// imaging.DefaultLocator.
func NewExtractor(engine ocr.Engine, locator imaging.ColumnLocator, logger *slog.Logger) *Extractor {
	if locator == nil {
		locator = imaging.DefaultLocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{engine: engine, locator: locator, scorer: menutext.Score, logger: logger}
}

// Columns extracts every column of img with full diagnostics.
func (e *Extractor) Columns(ctx context.Context, img image.Image) []ColumnResult {
	if e.engine == nil {
		e.logger.Warn("no OCR backend available, columns resolve to sentinel")
		n := len(e.locator.Locate(img))
		out := make([]ColumnResult, n)
		for i := range out {
			out[i] = ColumnResult{Index: i, Items: []string{menu.NoLunchInfo}}
		}
		return out
	}

	crops := imaging.Columns(img, e.locator)
	out := make([]ColumnResult, len(crops))
	for i, crop := range crops {
		out[i] = e.column(ctx, i, crop)
	}
	return out
}

// Days extracts img into one finalized item list per column.
func (e *Extractor) Days(ctx context.Context, img image.Image) [][]string {
	cols := e.Columns(ctx, img)
	days := make([][]string, len(cols))
	for i, c := range cols {
		days[i] = c.Items
	}
	return days
}

// column OCRs one crop in every mode the engine supports and keeps the
// best-scoring parse. A failed mode counts as empty text.
func (e *Extractor) column(ctx context.Context, index int, crop image.Image) ColumnResult {
	modes := e.engine.Modes()
	res := ColumnResult{Index: index, Modes: make([]ModeText, 0, len(modes))}

	raw := make([]string, 0, len(modes))
	parses := make([][]string, 0, len(modes))
	for _, mode := range modes {
		mt := ModeText{Mode: mode.String()}
		text, err := e.engine.Recognize(ctx, crop, mode)
		if err != nil {
			e.logger.Warn("OCR failed", "column", index, "mode", mode.String(), "error", err)
			mt.Error = err.Error()
			text = ""
		}
		mt.Text = text
		mt.Lines = menutext.ParseLines(text)
		mt.Score = e.scorer(mt.Lines)

		raw = append(raw, text)
		parses = append(parses, mt.Lines)
		res.Modes = append(res.Modes, mt)
	}

	var chosen []string
	if best := menutext.Best(e.scorer, parses...); best >= 0 {
		chosen = parses[best]
		res.Chosen = res.Modes[best].Mode
	}
	res.Items = menutext.FinalizeDay(chosen, raw)

	e.logger.Debug("column extracted", "column", index, "chosen", res.Chosen, "items", len(res.Items))
	return res
}
