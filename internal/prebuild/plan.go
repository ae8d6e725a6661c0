package prebuild

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"prebuild/internal/directive"
	"prebuild/internal/native"
	"prebuild/internal/platform"
)

// Plan is the result of one run.
type Plan struct {
	RunID      string                `json:"run_id"`
	CreatedAt  time.Time             `json:"created_at"`
	Target     platform.Target       `json:"target"`
	DryRun     bool                  `json:"dry_run"`
	Directives []directive.Directive `json:"directives"`
	// Libraries are the static archives built (or, in a dry run, planned).
	Libraries []native.Artifact `json:"libraries,omitempty"`
	// Resources are the resource objects written.
	Resources []string `json:"resources,omitempty"`
}

func newPlan(now time.Time, dryRun bool) *Plan {
	return &Plan{
		RunID:     uuid.NewString(),
		CreatedAt: now,
		DryRun:    dryRun,
	}
}

func (p *Plan) add(ds ...directive.Directive) {
	p.Directives = append(p.Directives, ds...)
}

// Constants returns the constant bindings in the plan.
func (p *Plan) Constants() []directive.Directive {
	return directive.Filter(p.Directives, directive.KindConstant)
}

// Render writes the plan in format. The json format encodes the whole plan;
// the others render the directive list.
func (p *Plan) Render(w io.Writer, format directive.Format, opts directive.RenderOptions) error {
	if format == directive.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	return directive.Render(w, format, p.Directives, opts)
}
