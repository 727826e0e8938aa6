package worksession

// Status is the work-session timer state (spec.md §4.5).
type Status string

const (
	StatusRunning Status = "RUNNING"
	StatusPaused  Status = "PAUSED"
	StatusStopped Status = "STOPPED"
)

func (s Status) IsTerminal() bool { return s == StatusStopped }
func (s Status) IsActive() bool   { return s == StatusRunning || s == StatusPaused }
