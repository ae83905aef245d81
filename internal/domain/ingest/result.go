package ingest

// Status is the processing outcome of a single profile.
type Status string

// Profile status values.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result is the outcome of ingesting one candidate profile.
type Result struct {
	candidateID string
	status      Status
	chunks      int
	err         error
}

// NewOK creates a successful result with the number of chunks written.
func NewOK(candidateID string, chunks int) Result {
	return Result{candidateID: candidateID, status: StatusOK, chunks: chunks}
}

// NewError creates a failed result.
func NewError(candidateID string, err error) Result {
	return Result{candidateID: candidateID, status: StatusError, err: err}
}

// CandidateID returns the candidate identifier.
func (r Result) CandidateID() string { return r.candidateID }

// Status returns the processing outcome.
func (r Result) Status() Status { return r.status }

// Chunks returns how many chunks were stored, 0 on failure.
func (r Result) Chunks() int { return r.chunks }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts ok and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
