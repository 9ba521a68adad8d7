package exporter

import (
	"context"

	"github.com/w-h-a/originality/table"
)

// Exporter writes the tables of one run to a sink. Exporters never read
// tables back.
type Exporter interface {
	Export(ctx context.Context, runId string, tables *table.Tables) error
}
