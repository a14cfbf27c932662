package lead

import "strings"

// Status is the canonical pipeline stage. The remote store speaks its
// own label vocabulary; the two mappings below are kept one-to-one.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQuoted    Status = "quoted"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusLost      Status = "lost"
)

// Statuses lists the pipeline stages in board order.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusContacted,
		StatusQuoted,
		StatusScheduled,
		StatusCompleted,
		StatusLost,
	}
}

var remoteLabels = map[Status]string{
	StatusNew:       "New",
	StatusContacted: "Contacted",
	StatusQuoted:    "Quoted",
	StatusScheduled: "Scheduled",
	StatusCompleted: "Completed",
	StatusLost:      "Lost",
}

var progressByStatus = map[Status]int{
	StatusNew:       10,
	StatusContacted: 30,
	StatusQuoted:    55,
	StatusScheduled: 75,
	StatusCompleted: 100,
	StatusLost:      100,
}

func (s Status) Known() bool {
	_, ok := remoteLabels[s]
	return ok
}

// RemoteLabel translates the canonical status into the label the
// remote store understands.
func (s Status) RemoteLabel() string {
	if label, ok := remoteLabels[s]; ok {
		return label
	}
	return "New"
}

// Progress is the fixed display-progress percentage for the status.
func (s Status) Progress() int {
	if p, ok := progressByStatus[s]; ok {
		return p
	}
	return 10
}

// FromRemoteLabel maps an upstream status label to the canonical
// vocabulary. Missing or unrecognized labels resolve to new; that
// fallback is intentionally lossy and one-directional.
func FromRemoteLabel(label string) Status {
	switch strings.TrimSpace(label) {
	case "New":
		return StatusNew
	case "Contacted":
		return StatusContacted
	case "Quoted":
		return StatusQuoted
	case "Scheduled":
		return StatusScheduled
	case "Completed":
		return StatusCompleted
	case "Lost":
		return StatusLost
	default:
		return StatusNew
	}
}

// ParseStatus validates a status supplied by the UI. The legacy
// "jobpayment" board column is a display alias of completed, not a
// distinct stage.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.Known() {
		return s, true
	}
	if s == "jobpayment" {
		return StatusCompleted, true
	}
	return "", false
}
