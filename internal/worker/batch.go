package worker

import (
	"context"
	"sort"

	"github.com/ppiankov/isbalign/internal/model"
)

// Checker defines the interface for checking one record
type Checker interface {
	Check(index int, rec model.Record) model.Verdict
}

// RecordJob represents a record check job
type RecordJob struct {
	Index   int
	Record  model.Record
	Checker Checker
}

// Execute executes the record check
func (j *RecordJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &RecordResult{Index: j.Index, Error: err}
	}
	return &RecordResult{
		Index:   j.Index,
		Verdict: j.Checker.Check(j.Index, j.Record),
	}
}

// RecordResult represents the result of a record check job
type RecordResult struct {
	Index   int
	Verdict model.Verdict
	Error   error
}

// GetError returns the error from the check result
func (r *RecordResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple records concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessRecords checks records concurrently and returns the results in
// input order. Records not reached before ctx is done are absent from the
// results; the returned error is then ctx.Err().
func (b *BatchProcessor) ProcessRecords(ctx context.Context, records []model.Record) ([]*RecordResult, error) {
	if len(records) == 0 {
		return []*RecordResult{}, nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, rec := range records {
		job := &RecordJob{
			Index:   i,
			Record:  rec,
			Checker: b.checker,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*RecordResult, 0, len(results))
	var firstErr error
	for _, result := range results {
		r := result.(*RecordResult)
		if r.Error != nil {
			if firstErr == nil {
				firstErr = r.Error
			}
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	if firstErr == nil && len(out) < len(records) {
		firstErr = ctx.Err()
	}
	return out, firstErr
}
