package dataset

import "time"

// FacetAll is the filter sentinel meaning "no constraint" for a facet.
const FacetAll = "all"

// Dataset names used by repositories, the refresh job and diagnostics.
const (
	NameContracts   = "contracts"
	NamePerformance = "performance"
)

// Snapshot source labels.
const (
	SourceCSV       = "csv"
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic"
)

// Diagnostic codes emitted by dataset loads.
const (
	DiagMissingSource   = "missing-source"
	DiagMalformedValue  = "malformed-value"
	DiagFallbackDataset = "fallback-dataset"
	DiagSyntheticMetric = "synthetic-metric"
)

// Diagnostic describes a non-fatal condition observed while building a
// snapshot. Loads collect diagnostics instead of failing.
type Diagnostic struct {
	Code    string
	Message string
}

func NewDiagnostic(code, message string) Diagnostic {
	return Diagnostic{Code: code, Message: message}
}

// ImportRecord is one row of the import ledger: when a dataset was last
// refreshed, from where, and how many rows it produced.
type ImportRecord struct {
	Dataset    string
	Source     string
	Rows       int
	ImportedAt time.Time
}
