package batch

// ItemStatus is the processing outcome of a single record in a job.
type ItemStatus string

// Item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Op names the index mutation a job performed for one record.
type Op string

// Job operations.
const (
	OpPublish Op = "publish"
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpUpdate  Op = "update"
)

// Result is the outcome of processing one record (or one orphaned document) in a batch job.
type Result struct {
	id     string
	op     Op
	status ItemStatus
	docs   int
	err    error
}

// NewOK creates a successful result. docs is the number of index documents written or removed.
func NewOK(id string, op Op, docs int) Result {
	return Result{id: id, op: op, status: StatusOK, docs: docs}
}

// NewError creates a failed result.
func NewError(id string, op Op, err error) Result {
	return Result{id: id, op: op, status: StatusError, err: err}
}

// ID returns the record key or document objectID.
func (r Result) ID() string { return r.id }

// Op returns the attempted operation.
func (r Result) Op() Op { return r.op }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Docs returns how many index documents the operation touched.
func (r Result) Docs() int { return r.docs }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Tally counts successes and failures per operation.
type Tally struct {
	OK     map[Op]int
	Failed map[Op]int
	Errors []Result
}

// Count aggregates results.
func Count(results []Result) Tally {
	t := Tally{OK: make(map[Op]int), Failed: make(map[Op]int)}
	for _, r := range results {
		if r.status == StatusOK {
			t.OK[r.op]++
			continue
		}
		t.Failed[r.op]++
		t.Errors = append(t.Errors, r)
	}
	return t
}

// TotalFailed returns the number of failed results across all operations.
func (t Tally) TotalFailed() int { return len(t.Errors) }
