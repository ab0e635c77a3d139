// Package csvwriter writes demand series as CSV.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/forecast"
)

// CombinedHeader is the header of WriteCombined output.
var CombinedHeader = []string{"date", "demand", "type"}

// lookbackFields is the number of trailing Vector fields derived from prior demand.
const lookbackFields = 4

// Writer is a simple CSV writer.
type Writer struct {
	closer io.Closer
	writer *csv.Writer
	logger *zap.Logger
	rows   int
	mu     sync.Mutex
}

// NewWriter creates a CSV writer on top of out. A nil logger disables logging.
func NewWriter(out io.Writer, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{writer: csv.NewWriter(out), logger: logger}
}

// Create creates a new CSV file at filePath.
func Create(filePath string, logger *zap.Logger) (*Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	w := NewWriter(file, logger)
	w.closer = file
	return w, nil
}

// Write writes a record.
func (w *Writer) Write(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	w.rows++
	return nil
}

// WriteCombined writes the header and one row per combined record, then flushes.
func (w *Writer) WriteCombined(records []forecast.CombinedRecord) error {
	if err := w.Write(CombinedHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Date, formatFloat(r.Demand), r.Type}); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteEnriched writes every row with its drivers and features. Features of
// rows without full lookback are left empty.
func (w *Writer) WriteEnriched(rows []feature.Row) error {
	header := append([]string{"date", "demand"}, feature.Names()...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Date.Format(time.DateOnly), formatFloat(r.Demand))
		for i, v := range r.Features.Values() {
			if !r.Complete && i >= feature.Count-lookbackFields {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, formatFloat(v))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	w.logger.Debug("csv flushed", zap.Int("rows", w.rows))
	return nil
}

// Close flushes and closes the file opened by Create.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
