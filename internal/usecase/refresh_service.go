package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// DatasetExport is one downloaded export: the raw CSV plus its manifest
// fields.
type DatasetExport struct {
	Dataset     string
	CSV         []byte
	GeneratedAt time.Time
	RowCount    int
}

// ExportFetcher pulls the latest export for a dataset from the feed. A nil
// fetcher means no feed is configured and refresh reloads local data only.
type ExportFetcher interface {
	Latest(ctx context.Context, name string) (DatasetExport, error)
}

// Writers mirroring freshly loaded snapshots into long-term storage.
type performanceRefreshWriter interface {
	ReplaceAll(ctx context.Context, records []playerstats.Record) error
}

type contractRefreshWriter interface {
	ReplaceAll(ctx context.Context, contracts []contract.Contract) error
}

type importLedgerWriter interface {
	Record(ctx context.Context, rec dataset.ImportRecord) error
}

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
	refreshStatusSkipped = "skipped"
)

type RefreshInput struct {
	// Datasets narrows the run; empty means both datasets.
	Datasets   []string
	MaxWorkers int
	// DryRun fetches and reports manifest counts without touching files,
	// stores, or served snapshots.
	DryRun bool
}

type RefreshResult struct {
	TaskCount    int                    `json:"task_count"`
	SuccessCount int                    `json:"success_count"`
	FailedCount  int                    `json:"failed_count"`
	SkippedCount int                    `json:"skipped_count"`
	WorkerCount  int                    `json:"worker_count"`
	Datasets     []DatasetRefreshResult `json:"datasets"`
}

type DatasetRefreshResult struct {
	Dataset    string `json:"dataset"`
	Status     string `json:"status"`
	Rows       int    `json:"rows"`
	Fetched    bool   `json:"fetched"`
	Persisted  bool   `json:"persisted"`
	Fallback   bool   `json:"fallback"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RefreshService re-imports the datasets on demand: fetch the latest
// export (when a feed is configured), atomically rewrite the local CSV,
// reload the serving repository, and mirror the fresh snapshot into the
// optional long-term store. Every stage is optional, so the same service
// also covers the feedless "reload local files" deployment.
type RefreshService struct {
	fetcher           ExportFetcher
	performanceRepo   playerstats.Repository
	contractRepo      contract.Repository
	performancePath   string
	contractsPath     string
	performanceWriter performanceRefreshWriter
	contractWriter    contractRefreshWriter
	imports           importLedgerWriter
	logger            *logging.Logger
	now               func() time.Time
}

func NewRefreshService(
	fetcher ExportFetcher,
	performanceRepo playerstats.Repository,
	contractRepo contract.Repository,
	performancePath string,
	contractsPath string,
	performanceWriter performanceRefreshWriter,
	contractWriter contractRefreshWriter,
	imports importLedgerWriter,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RefreshService{
		fetcher:           fetcher,
		performanceRepo:   performanceRepo,
		contractRepo:      contractRepo,
		performancePath:   performancePath,
		contractsPath:     contractsPath,
		performanceWriter: performanceWriter,
		contractWriter:    contractWriter,
		imports:           imports,
		logger:            logger.Named("refresh"),
		now:               time.Now,
	}
}

// Refresh runs the per-dataset pipeline on a worker pool and reports one
// outcome row per dataset, sorted by dataset name.
func (s *RefreshService) Refresh(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Refresh")
	defer span.End()

	names, err := normalizeRefreshDatasets(input.Datasets)
	if err != nil {
		return RefreshResult{}, err
	}

	workerCount := normalizeRefreshWorkerCount(input.MaxWorkers, len(names))
	result := RefreshResult{
		TaskCount:   len(names),
		WorkerCount: workerCount,
		Datasets:    make([]DatasetRefreshResult, 0, len(names)),
	}

	results := make(chan DatasetRefreshResult, len(names))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, name := range names {
		name := name
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.refreshDataset(ctx, name, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case refreshStatusSuccess:
				successCount.Add(1)
			case refreshStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Datasets = append(result.Datasets, row)
	}
	sort.SliceStable(result.Datasets, func(i, j int) bool {
		return result.Datasets[i].Dataset < result.Datasets[j].Dataset
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	return result, nil
}

func (s *RefreshService) refreshDataset(ctx context.Context, name string, dryRun bool) DatasetRefreshResult {
	row := DatasetRefreshResult{Dataset: name, Status: refreshStatusSuccess}

	var export DatasetExport
	if s.fetcher != nil {
		fetched, err := s.fetcher.Latest(ctx, name)
		if err != nil {
			row.Status = refreshStatusFailed
			row.Message = fmt.Sprintf("fetch %s export: %v", name, err)
			return row
		}
		export = fetched
		row.Fetched = true
	}

	if dryRun {
		row.Status = refreshStatusSkipped
		row.Rows = export.RowCount
		row.Message = "dry run: files and snapshots untouched"
		if !row.Fetched {
			row.Message = "dry run: export feed disabled, nothing to fetch"
		}
		return row
	}

	if row.Fetched {
		if path := s.datasetPath(name); path != "" {
			if err := writeFileAtomic(path, export.CSV); err != nil {
				row.Status = refreshStatusFailed
				row.Message = fmt.Sprintf("rewrite %s: %v", path, err)
				return row
			}
			s.logger.InfoContext(ctx, "dataset file rewritten", "dataset", name, "path", path, "bytes", len(export.CSV))
		}
	}

	rows, fallback, persisted, err := s.reloadAndPersist(ctx, name)
	if err != nil {
		row.Status = refreshStatusFailed
		row.Message = err.Error()
		return row
	}

	row.Rows = rows
	row.Fallback = fallback
	row.Persisted = persisted
	if !row.Fetched {
		row.Message = "export feed disabled, reloaded local data"
	}

	return row
}

func (s *RefreshService) reloadAndPersist(ctx context.Context, name string) (int, bool, bool, error) {
	switch name {
	case dataset.NamePerformance:
		snap, err := s.performanceRepo.Reload(ctx)
		if err != nil {
			return 0, false, false, fmt.Errorf("reload performance snapshot: %w", err)
		}
		if s.performanceWriter == nil || snap.Fallback {
			return len(snap.Records), snap.Fallback, false, nil
		}
		if err := s.performanceWriter.ReplaceAll(ctx, snap.Records); err != nil {
			return 0, false, false, fmt.Errorf("persist performance rows: %w", err)
		}
		s.recordImport(ctx, dataset.ImportRecord{
			Dataset:    dataset.NamePerformance,
			Source:     snap.Source,
			Rows:       len(snap.Records),
			ImportedAt: s.now().UTC(),
		})
		return len(snap.Records), snap.Fallback, true, nil

	case dataset.NameContracts:
		snap, err := s.contractRepo.Reload(ctx)
		if err != nil {
			return 0, false, false, fmt.Errorf("reload contracts snapshot: %w", err)
		}
		if s.contractWriter == nil || snap.Fallback {
			return len(snap.Contracts), snap.Fallback, false, nil
		}
		if err := s.contractWriter.ReplaceAll(ctx, snap.Contracts); err != nil {
			return 0, false, false, fmt.Errorf("persist contract rows: %w", err)
		}
		s.recordImport(ctx, dataset.ImportRecord{
			Dataset:    dataset.NameContracts,
			Source:     snap.Source,
			Rows:       len(snap.Contracts),
			ImportedAt: s.now().UTC(),
		})
		return len(snap.Contracts), snap.Fallback, true, nil

	default:
		return 0, false, false, fmt.Errorf("%w: unknown dataset %q", ErrInvalidInput, name)
	}
}

// recordImport appends to the import ledger. Ledger failures degrade to a
// warning; the refreshed data is already serving.
func (s *RefreshService) recordImport(ctx context.Context, rec dataset.ImportRecord) {
	if s.imports == nil {
		return
	}
	if err := s.imports.Record(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "import ledger write failed", "dataset", rec.Dataset, "error", err)
	}
}

func (s *RefreshService) datasetPath(name string) string {
	switch name {
	case dataset.NamePerformance:
		return s.performancePath
	case dataset.NameContracts:
		return s.contractsPath
	}

	return ""
}

// writeFileAtomic replaces path via a same-directory temp file and rename,
// so concurrent loaders never observe a partial export.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}

func normalizeRefreshDatasets(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return []string{dataset.NameContracts, dataset.NamePerformance}, nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		name := strings.ToLower(strings.TrimSpace(item))
		if name == "" {
			continue
		}
		switch name {
		case dataset.NameContracts, dataset.NamePerformance:
		default:
			return nil, fmt.Errorf("%w: unknown dataset %q", ErrInvalidInput, item)
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return []string{dataset.NameContracts, dataset.NamePerformance}, nil
	}

	return out, nil
}

func normalizeRefreshWorkerCount(value, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 || value > taskCount {
		return taskCount
	}

	return value
}
