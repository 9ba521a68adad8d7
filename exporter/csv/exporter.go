package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/w-h-a/originality/exporter"
	"github.com/w-h-a/originality/table"
)

type csvExporter struct {
	options exporter.Options
}

// Export writes one file per named table under <location>/<runId>/.
func (e *csvExporter) Export(ctx context.Context, runId string, tables *table.Tables) error {
	dir := filepath.Join(e.options.Location, runId)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	for _, t := range tables.Named() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := write(filepath.Join(dir, t.Name+".csv"), t); err != nil {
			return fmt.Errorf("export %s: %w", t.Name, err)
		}
	}

	slog.InfoContext(ctx, "exported tables", "run", runId, "dir", dir)

	return nil
}

func write(path string, t table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(t.Columns); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = format(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func NewExporter(opts ...exporter.Option) exporter.Exporter {
	options := exporter.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = "."
	}

	e := &csvExporter{
		options: options,
	}

	return e
}
