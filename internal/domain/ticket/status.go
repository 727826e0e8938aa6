package ticket

// Status is the ticket lifecycle state (spec.md §4.4).
type Status string

const (
	StatusUnderReview Status = "under_review"
	StatusNew         Status = "new"
	StatusAssigned    Status = "assigned"
	StatusInProgress  Status = "in_progress"
	StatusWaitingQC   Status = "waiting_qc"
	StatusRework      Status = "rework"
	StatusDone        Status = "done"
)

// transitions enumerates the only edges the state graph permits. The key is
// the action name; the value is the set of from-statuses it may fire from
// and the status it lands on.
type edge struct {
	from []Status
	to   Status
}

var transitions = map[Action]edge{
	ActionCreate:        {from: []Status{}, to: StatusUnderReview},
	ActionReviewApprove: {from: []Status{StatusUnderReview}, to: StatusNew},
	ActionAssign:        {from: []Status{StatusUnderReview, StatusNew}, to: StatusAssigned},
	ActionStartWork:     {from: []Status{StatusAssigned, StatusRework}, to: StatusInProgress},
	ActionToWaitingQC:   {from: []Status{StatusInProgress}, to: StatusWaitingQC},
	ActionQCPass:        {from: []Status{StatusWaitingQC}, to: StatusDone},
	ActionQCFail:        {from: []Status{StatusWaitingQC}, to: StatusRework},
}

// CanFire reports whether action may fire from the given status.
func CanFire(action Action, from Status) bool {
	e, ok := transitions[action]
	if !ok {
		return false
	}
	for _, f := range e.from {
		if f == from {
			return true
		}
	}
	return false
}

// TargetStatus returns the status an action lands on.
func TargetStatus(action Action) Status {
	return transitions[action].to
}

// Action is a ticket transition action (spec.md §4.4).
type Action string

const (
	ActionCreate        Action = "create"
	ActionReviewApprove Action = "review_approve"
	ActionAssign        Action = "assign"
	ActionStartWork     Action = "start_work"
	ActionToWaitingQC   Action = "to_waiting_qc"
	ActionQCPass        Action = "qc_pass"
	ActionQCFail        Action = "qc_fail"
	ActionManualMetrics Action = "manual_metrics"
)

// TechnicianRequiredStatuses are the statuses in which Ticket.technician
// must be non-nil (spec.md §3 invariant).
var TechnicianRequiredStatuses = map[Status]bool{
	StatusAssigned:   true,
	StatusInProgress: true,
	StatusWaitingQC:  true,
	StatusRework:     true,
	StatusDone:       true,
}
