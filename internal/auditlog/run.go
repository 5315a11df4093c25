package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// RunTokenLayout formats the run-start time embedded in log file names.
const RunTokenLayout = "20060102_150405"

// Run identifies one execution session. All records written during a run
// for the same host land in the same file.
type Run struct {
	ID      string
	Started time.Time
}

// NewRun starts a run at the given time.
func NewRun(started time.Time) Run {
	return Run{ID: uuid.NewString(), Started: started}
}

// Token returns the file-name token for the run, e.g. "20240131_142500".
func (r Run) Token() string {
	return r.Started.Format(RunTokenLayout)
}

// FileName returns the log file name for host within this run.
func (r Run) FileName(host string) string {
	return host + "_" + r.Token() + ".json"
}
