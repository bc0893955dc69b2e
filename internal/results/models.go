package results

import (
	"time"

	"a11ydiff/internal/detect"
)

// RunStatus tracks a batch run's lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// CaseStatus is the outcome of one test case.
type CaseStatus string

const (
	// CaseAnalyzed ran every detector; findings may still be empty.
	CaseAnalyzed CaseStatus = "analyzed"
	// CaseSkipped failed a classification precondition.
	CaseSkipped CaseStatus = "skipped"
	// CaseError could not be loaded.
	CaseError CaseStatus = "error"
)

// Totals aggregates case outcomes for a run.
type Totals struct {
	Cases        int `json:"cases"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"`
	WithFindings int `json:"with_findings"`
	Findings     int `json:"findings"`
}

// Add folds one case into the totals.
func (t *Totals) Add(c *Case) {
	t.Cases++
	switch c.Status {
	case CaseError:
		t.Failed++
	case CaseSkipped:
		t.Skipped++
	}
	if n := c.Counts.Total(); n > 0 {
		t.WithFindings++
		t.Findings += n
	}
}

// Run is one batch invocation.
type Run struct {
	ID         string    `json:"id"`
	DatasetDir string    `json:"dataset_dir"`
	Status     RunStatus `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Totals     Totals    `json:"totals"`
	Error      string    `json:"error,omitempty"`
}

// Counts holds the number of findings per category.
type Counts struct {
	ShortLived       int `json:"short_lived"`
	Disappearing     int `json:"disappearing"`
	Appearing        int `json:"appearing"`
	Moving           int `json:"moving"`
	AttributeChanged int `json:"attribute_changed"`
}

// CountsOf tallies a classification result.
func CountsOf(r detect.Result) Counts {
	return Counts{
		ShortLived:       len(r.ShortLived),
		Disappearing:     len(r.Disappearing),
		Appearing:        len(r.Appearing),
		Moving:           len(r.Moving),
		AttributeChanged: len(r.AttributeChanged),
	}
}

// Of returns the count for category c.
func (c Counts) Of(cat detect.Category) int {
	switch cat {
	case detect.CategoryShortLived:
		return c.ShortLived
	case detect.CategoryDisappearing:
		return c.Disappearing
	case detect.CategoryAppearing:
		return c.Appearing
	case detect.CategoryMoving:
		return c.Moving
	case detect.CategoryAttributeChanged:
		return c.AttributeChanged
	}
	return 0
}

// Total sums every category.
func (c Counts) Total() int {
	return c.ShortLived + c.Disappearing + c.Appearing + c.Moving + c.AttributeChanged
}

// Case is the persisted outcome of one test case.
type Case struct {
	ID         int64         `json:"id"`
	RunID      string        `json:"run_id"`
	App        string        `json:"app"`
	Name       string        `json:"name"`
	Dir        string        `json:"dir"`
	Status     CaseStatus    `json:"status"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Error      string        `json:"error,omitempty"`
	Flags      detect.Flags  `json:"flags"`
	Similarity float64       `json:"similarity"`
	ReportDir  string        `json:"report_dir,omitempty"`
	Counts     Counts        `json:"counts"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
	// Findings is only populated when a case is recorded or loaded with
	// its findings.
	Findings []Finding `json:"findings,omitempty"`
}

// Finding is one flattened element of a category.
type Finding struct {
	Category detect.Category `json:"category"`
	Position int             `json:"position"`
	Record   detect.Record   `json:"record"`
}

// FindingsOf flattens every category of r in category order.
func FindingsOf(r detect.Result) []Finding {
	var out []Finding
	for _, c := range detect.Categories {
		for i, rec := range r.Records(c) {
			out = append(out, Finding{Category: c, Position: i, Record: rec})
		}
	}
	return out
}
