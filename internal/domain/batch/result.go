package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	index  int
	id     string
	title  string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result for the item at index.
func NewOK(index int, id, title string) Result {
	return Result{index: index, id: id, title: title, status: StatusOK}
}

// NewError creates a failed batch result for the item at index.
func NewError(index int, title string, err error) Result {
	return Result{index: index, title: title, status: StatusError, err: err}
}

// Index returns the zero-based position of the item in the batch.
func (r Result) Index() int { return r.index }

// ID returns the created identifier (empty on failure).
func (r Result) ID() string { return r.id }

// Title returns the submitted title, used in error reports.
func (r Result) Title() string { return r.title }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts successes and failures in a result set.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
