// Package report exports optimizer histories as CSV tables and PNG charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/flaptrain/internal/optimize"
)

// ErrEmptyHistory is returned when there is nothing to export.
var ErrEmptyHistory = errors.New("report: empty history")

// Row is the CSV form of one generation.
type Row struct {
	Generation    int     `csv:"generation"`
	Fitness       float64 `csv:"fitness"`
	Best          float64 `csv:"best"`
	MovingAverage float64 `csv:"moving_average"`
	Epsilon       float64 `csv:"epsilon"`
}

// toRows converts a history into CSV rows.
func toRows(history []optimize.Generation) []*Row {
	rows := make([]*Row, len(history))
	for i, g := range history {
		rows[i] = &Row{
			Generation:    g.Index,
			Fitness:       g.Fitness,
			Best:          g.Best,
			MovingAverage: g.MovingAverage,
			Epsilon:       g.Epsilon,
		}
	}
	return rows
}

// WriteCSV writes the history with a header row.
func WriteCSV(w io.Writer, history []optimize.Generation) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	if err := gocsv.Marshal(toRows(history), w); err != nil {
		return fmt.Errorf("report: writing csv: %w", err)
	}
	return nil
}

// SaveCSV writes the history to a file, creating parent directories.
func SaveCSV(path string, history []optimize.Generation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := WriteCSV(f, history); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
