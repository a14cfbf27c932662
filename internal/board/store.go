package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/airtable"
	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/lead"
)

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrNoGateway     = errors.New("no gateway configured")
)

// Gateway is the remote system of record. Listing follows pagination
// transparently; UpdateStatus translates the canonical status into
// the remote vocabulary before sending.
type Gateway interface {
	ListRecords(ctx context.Context) ([]airtable.Record, error)
	UpdateStatus(ctx context.Context, recordID string, status lead.Status) error
}

type AdvisoryKind string

const (
	AdvisorySyncOK        AdvisoryKind = "sync_ok"
	AdvisorySyncFailed    AdvisoryKind = "sync_failed"
	AdvisoryRefreshOK     AdvisoryKind = "refresh_ok"
	AdvisoryRefreshFailed AdvisoryKind = "refresh_failed"
)

// Advisory is a non-blocking status message about a background write
// or refresh. It never affects already-committed local state.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	LeadID  string       `json:"leadId,omitempty"`
	Message string       `json:"message"`
	At      time.Time    `json:"at"`
}

type Notifier interface {
	Notify(Advisory)
}

type NotifierFunc func(Advisory)

func (f NotifierFunc) Notify(a Advisory) { f(a) }

type StoreOptions struct {
	Gateway  Gateway
	Notifier Notifier
	Clock    func() time.Time
	NewID    func() string
}

// Store owns the in-memory board state. All mutations go through its
// methods; reads hand out copies, never the backing slice.
type Store struct {
	mu       sync.RWMutex
	gateway  Gateway
	notifier Notifier
	now      func() time.Time
	newID    func() string

	leads    []lead.Lead
	loading  bool
	loadedAt time.Time

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewStore(opts StoreOptions) *Store {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(Advisory) {})
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Store{
		gateway:  opts.Gateway,
		notifier: notifier,
		now:      now,
		newID:    newID,
	}
}

// Close waits for in-flight status write-backs to finish.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.wg.Wait()
	})
}

// LoadAll pulls every record from the gateway, normalizes them and
// replaces the board, newest first. Unknown dates sort last. On any
// gateway failure the previous board is left untouched.
func (s *Store) LoadAll(ctx context.Context) ([]lead.Lead, error) {
	if s.gateway == nil {
		return nil, ErrNoGateway
	}
	s.setLoading(true)
	defer s.setLoading(false)

	records, err := s.gateway.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	leads := make([]lead.Lead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, airtable.Normalize(rec))
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].DateAt.After(leads[j].DateAt)
	})

	s.mu.Lock()
	s.leads = leads
	s.loadedAt = s.now()
	s.mu.Unlock()
	return copyLeads(leads), nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports whether a bulk fetch is currently outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) Leads() []lead.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLeads(s.leads)
}

func (s *Store) Get(id string) (lead.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.leads[i], true
	}
	return lead.Lead{}, false
}

// Search filters the board by a case-insensitive substring over name,
// subject and phone. An empty query returns the whole board.
func (s *Store) Search(query string) []lead.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lead.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		if l.Matches(query) {
			out = append(out, l)
		}
	}
	return out
}

// CountByStatus tallies the board per pipeline stage.
func (s *Store) CountByStatus() map[lead.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[lead.Status]int, 6)
	for _, l := range s.leads {
		counts[l.Status]++
	}
	return counts
}

// ChangeStatus commits the new status and recomputed progress locally
// before returning. When the lead is backed by a remote record the
// write-back happens on a background goroutine; its outcome arrives as
// an advisory and never reverts the local change.
func (s *Store) ChangeStatus(id string, status lead.Status) (lead.Lead, error) {
	if !status.Known() {
		return lead.Lead{}, ErrInvalidStatus
	}
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return lead.Lead{}, ErrNotFound
	}
	s.leads[i].Status = status
	s.leads[i].Progress = status.Progress()
	updated := s.leads[i]
	s.mu.Unlock()

	if updated.RemoteID != "" && s.gateway != nil {
		s.wg.Add(1)
		go s.pushStatus(updated.RemoteID, updated.ID, status)
	}
	return updated, nil
}

// pushStatus is fire and forget: at most one attempt, no rollback.
// Overlapping pushes for the same lead race; the last response wins.
func (s *Store) pushStatus(remoteID, leadID string, status lead.Status) {
	defer s.wg.Done()
	err := s.gateway.UpdateStatus(context.Background(), remoteID, status)
	if err != nil {
		log.Printf("status sync failed for lead %s: %v", leadID, err)
		s.notifier.Notify(Advisory{
			Kind:    AdvisorySyncFailed,
			LeadID:  leadID,
			Message: "Status updated locally (Airtable sync failed)",
			At:      s.now(),
		})
		return
	}
	s.notifier.Notify(Advisory{
		Kind:    AdvisorySyncOK,
		LeadID:  leadID,
		Message: "Status saved to Airtable",
		At:      s.now(),
	})
}

// ToggleStar flips the local-only star flag.
func (s *Store) ToggleStar(id string) (lead.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return lead.Lead{}, ErrNotFound
	}
	s.leads[i].Starred = !s.leads[i].Starred
	return s.leads[i], nil
}

// SaveNote replaces the local-only note. Notes never round-trip to
// the remote store.
func (s *Store) SaveNote(id, text string) (lead.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return lead.Lead{}, ErrNotFound
	}
	s.leads[i].Notes = text
	return s.leads[i], nil
}

// Archive removes the lead from the board. The remote record is left
// untouched; archiving is a local view filter, not a deletion.
func (s *Store) Archive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.leads = append(s.leads[:i], s.leads[i+1:]...)
	return nil
}

type NewLead struct {
	Name    string
	Source  lead.Source
	Phone   string
	Email   string
	Subject string
	Value   float64
}

// AddLead creates a local-only lead (no remote record) stamped with
// the current time and inserts it at the front, which preserves the
// newest-first ordering by construction.
func (s *Store) AddLead(req NewLead) lead.Lead {
	now := s.now()
	source := req.Source
	if !source.Known() {
		source = lead.SourceForm1
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		if source.IsCall() {
			name = "Unknown Caller"
		} else {
			name = "Unknown"
		}
	}
	l := lead.Lead{
		ID:       s.newID(),
		Name:     name,
		Source:   source,
		LP:       source.LP(),
		Phone:    req.Phone,
		Email:    req.Email,
		Subject:  req.Subject,
		Date:     lead.DisplayDate(now),
		DateAt:   now,
		JobType:  "Residential",
		Value:    req.Value,
		Status:   lead.StatusNew,
		Progress: lead.StatusNew.Progress(),
		HasCall:  source.IsCall(),
	}
	s.mu.Lock()
	s.leads = append([]lead.Lead{l}, s.leads...)
	s.mu.Unlock()
	return l
}

func (s *Store) indexLocked(id string) int {
	for i := range s.leads {
		if s.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func copyLeads(src []lead.Lead) []lead.Lead {
	out := make([]lead.Lead, len(src))
	copy(out, src)
	return out
}
