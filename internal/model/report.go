package model

import (
	"sort"
	"time"
)

// Report is the outcome of one batch run
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`             // Unique run identifier
	Input       string    `json:"input" yaml:"input"`               // Records file
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"` // When the run finished
	Engine      Engine    `json:"engine" yaml:"engine"`             // Tolerances in effect
	Summary     Summary   `json:"summary" yaml:"summary"`
	Verdicts    []Verdict `json:"verdicts" yaml:"verdicts"`
}

// Summary aggregates verdicts by outcome
type Summary struct {
	Total             int            `json:"total" yaml:"total"`
	Usable            int            `json:"usable" yaml:"usable"`
	Rejected          int            `json:"rejected" yaml:"rejected"`
	TranslationUsable int            `json:"translation_usable" yaml:"translation_usable"`
	ByStrategy        map[string]int `json:"by_strategy" yaml:"by_strategy"` // Strategy kind counts among usable records
	ByReason          map[Reason]int `json:"by_reason" yaml:"by_reason"`     // Rejection reason counts
}

// Summarize counts verdicts by outcome
func Summarize(verdicts []Verdict) Summary {
	s := Summary{
		Total:      len(verdicts),
		ByStrategy: make(map[string]int),
		ByReason:   make(map[Reason]int),
	}
	for _, v := range verdicts {
		if v.TranslationUsable {
			s.TranslationUsable++
		}
		if v.Rejected() {
			s.Rejected++
			s.ByReason[v.Reason]++
			continue
		}
		if v.Usable {
			s.Usable++
			if v.Strategy != nil {
				s.ByStrategy[string(v.Strategy.Kind)]++
			}
		}
	}
	return s
}

// Reasons returns the rejection reasons sorted by descending count
func (s Summary) Reasons() []Reason {
	reasons := make([]Reason, 0, len(s.ByReason))
	for r := range s.ByReason {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if s.ByReason[reasons[i]] != s.ByReason[reasons[j]] {
			return s.ByReason[reasons[i]] > s.ByReason[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})
	return reasons
}
