package auditlog

import (
	"os"
	"time"
)

// TimestampLayout is the fixed-width format of AuditRecord.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// excludedActions run implicitly on every play and carry no audit value.
var excludedActions = map[string]struct{}{
	"gather_facts": {},
	"setup":        {},
}

// IsExcluded reports whether events for the given action are dropped.
func IsExcluded(action string) bool {
	_, ok := excludedActions[action]
	return ok
}

// Normalizer turns runner events into audit records.
type Normalizer struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Getenv looks up the invoking environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewNormalizer returns a Normalizer reading the real clock and environment.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, Getenv: os.Getenv}
}

// Normalize builds the audit record for ev. It returns false when the
// action is excluded.
func (n *Normalizer) Normalize(ev Event, status Status) (AuditRecord, bool) {
	if IsExcluded(ev.Task.Action) {
		return AuditRecord{}, false
	}

	diff, _ := ev.Result["diff"].(map[string]any)
	changed, _ := ev.Result["changed"].(bool)

	rec := AuditRecord{
		Timestamp: n.now().Format(TimestampLayout),
		Host: HostRecord{
			Name:         ev.Host.Name,
			IP:           stringVar(ev.Host.Vars, "ansible_host"),
			Distribution: stringVar(ev.Host.Vars, "ansible_distribution"),
		},
		Groups:   groupNames(ev.Host.Vars),
		Executor: n.executor(),
		Task: TaskRecord{
			Name:   ev.Task.Name,
			Action: ev.Task.Action,
			Args:   ev.Task.Args,
		},
		Status:       status,
		Changed:      changed,
		OutputBefore: diffValue(diff, "before"),
		OutputAfter:  diffValue(diff, "after"),
	}
	return rec, true
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) executor() string {
	getenv := n.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if user := getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

// diffValue returns diff[key], treating a missing key and an empty string
// alike as "no data".
func diffValue(diff map[string]any, key string) any {
	v, ok := diff[key]
	if !ok {
		return nil
	}
	if s, isString := v.(string); isString && s == "" {
		return nil
	}
	return v
}

func stringVar(vars map[string]any, key string) string {
	if s, ok := vars[key].(string); ok && s != "" {
		return s
	}
	return Unknown
}

func groupNames(vars map[string]any) []string {
	groups := []string{}
	switch v := vars["group_names"].(type) {
	case []string:
		groups = append(groups, v...)
	case []any:
		for _, g := range v {
			if s, ok := g.(string); ok {
				groups = append(groups, s)
			}
		}
	}
	return groups
}
