package lead

import (
	"strings"
	"time"
)

// Source identifies which capture channel and landing page a lead came
// through: web form or phone call, on the first or second site.
type Source string

const (
	SourceForm1 Source = "form1"
	SourceForm2 Source = "form2"
	SourceCall1 Source = "call1"
	SourceCall2 Source = "call2"
)

func (s Source) Known() bool {
	switch s {
	case SourceForm1, SourceForm2, SourceCall1, SourceCall2:
		return true
	}
	return false
}

func (s Source) IsCall() bool {
	return s == SourceCall1 || s == SourceCall2
}

// LP names the landing-page property the source belongs to.
func (s Source) LP() string {
	if s == SourceForm2 || s == SourceCall2 {
		return "LP2"
	}
	return "LP1"
}

// ParseSource resolves a source supplied by the UI. Unknown values
// default to the first-site form rather than failing.
func ParseSource(raw string) Source {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if s.Known() {
		return s
	}
	return SourceForm1
}

// Lead is the canonical record the board and sync logic operate on.
// LP and Progress are derived from Source and Status respectively and
// are only ever assigned alongside them.
type Lead struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Source   Source    `json:"source"`
	LP       string    `json:"lp"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	Address  string    `json:"address"`
	Subject  string    `json:"subject"`
	Date     string    `json:"date"`
	DateAt   time.Time `json:"dateObj"`
	JobType  string    `json:"jobType"`
	Windows  int       `json:"windows"`
	Stories  int       `json:"stories"`
	Details  string    `json:"details"`
	Value    float64   `json:"value"`
	Invoice  float64   `json:"invoice"`
	Duration string    `json:"duration"`
	FollowUp string    `json:"followUp"`
	JobDate  string    `json:"jobDate"`
	Status   Status    `json:"status"`
	Progress int       `json:"progress"`
	Starred  bool      `json:"starred"`
	Notes    string    `json:"notes"`
	HasCall  bool      `json:"hasCall"`
	RemoteID string    `json:"remoteId,omitempty"`
}

// Matches reports whether the lead matches a case-insensitive
// substring search over name, subject and phone. An empty query
// matches everything.
func (l Lead) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), q) ||
		strings.Contains(strings.ToLower(l.Subject), q) ||
		strings.Contains(strings.ToLower(l.Phone), q)
}
