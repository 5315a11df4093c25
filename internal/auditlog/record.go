package auditlog

// Status is the outcome label the runner attaches to a finished task.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Unknown is stored for host facts the inventory does not provide.
const Unknown = "Unknown"

// AuditRecord is one line of an audit log file. Field order matches the
// on-disk JSON layout.
type AuditRecord struct {
	Timestamp    string     `json:"timestamp"`
	Host         HostRecord `json:"host"`
	Groups       []string   `json:"groups"`
	Executor     string     `json:"executor"`
	Task         TaskRecord `json:"task"`
	Status       Status     `json:"status"`
	Changed      bool       `json:"changed"`
	OutputBefore any        `json:"output_before"`
	OutputAfter  any        `json:"output_after"`
}

// HostRecord identifies the target machine. IP and Distribution are
// best-effort and fall back to Unknown.
type HostRecord struct {
	Name         string `json:"name"`
	IP           string `json:"ip"`
	Distribution string `json:"distribution"`
}

// TaskRecord is the task descriptor copied verbatim from the event.
type TaskRecord struct {
	Name   string         `json:"name"`
	Action string         `json:"action"`
	Args   map[string]any `json:"args"`
}
