package auditlog

// Event is a task-completion notification delivered by the runner.
type Event struct {
	Task   Task           `json:"task"`
	Host   Host           `json:"host"`
	Result map[string]any `json:"result"`
}

// Task describes the executed task.
type Task struct {
	// Name is the display name shown by the runner.
	Name string `json:"name"`

	// Action is the module identifier, e.g. "service" or "copy".
	Action string `json:"action"`

	// Args are the arguments passed to the action.
	Args map[string]any `json:"args"`
}

// Host is the target host and its inventory variables.
type Host struct {
	Name string         `json:"name"`
	Vars map[string]any `json:"vars"`
}
