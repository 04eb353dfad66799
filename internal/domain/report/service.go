package report

import "context"

// Report is a pluggable dashboard page. Run receives already filtered data and
// must not retain or mutate it.
type Report interface {
	ID() string
	Title() string
	Run(ctx context.Context, in Input) (*Result, error)
}

// Registry resolves reports by id.
type Registry interface {
	Register(r Report) error
	Get(id string) (Report, error)
	List() []Info
	Run(ctx context.Context, id string, in Input) (*Result, error)
}
