package board

import (
	"context"
	"errors"
	"testing"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/airtable"
)

func TestRefreshReplacesBoardAndNotifies(t *testing.T) {
	gateway := &fakeGateway{records: []airtable.Record{
		formRecord("rec1", "Jane", "2025-08-29 10:00:00"),
	}}
	advisories := make(chan Advisory, 1)
	store := newTestStore(gateway, nil)
	defer store.Close()

	refresher := NewRefresher(store, "@every 5m", NotifierFunc(func(a Advisory) { advisories <- a }))
	refresher.refresh()

	advisory := waitAdvisory(t, advisories)
	if advisory.Kind != AdvisoryRefreshOK {
		t.Fatalf("expected refresh_ok advisory, got %s", advisory.Kind)
	}
	if got := len(store.Leads()); got != 1 {
		t.Fatalf("expected 1 lead after refresh, got %d", got)
	}
}

func TestRefreshFailureKeepsBoardAndNotifies(t *testing.T) {
	gateway := &fakeGateway{records: []airtable.Record{
		formRecord("rec1", "Jane", "2025-08-29 10:00:00"),
	}}
	advisories := make(chan Advisory, 2)
	store := newTestStore(gateway, nil)
	defer store.Close()

	if _, err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	gateway.mu.Lock()
	gateway.listErr = errors.New("remote store down")
	gateway.mu.Unlock()

	refresher := NewRefresher(store, "@every 5m", NotifierFunc(func(a Advisory) { advisories <- a }))
	refresher.refresh()

	advisory := waitAdvisory(t, advisories)
	if advisory.Kind != AdvisoryRefreshFailed {
		t.Fatalf("expected refresh_failed advisory, got %s", advisory.Kind)
	}
	if got := len(store.Leads()); got != 1 {
		t.Fatalf("board must survive a failed refresh, got %d leads", got)
	}
}

func TestRefresherRejectsBadScheduleAndAllowsEmpty(t *testing.T) {
	store := newTestStore(&fakeGateway{}, nil)
	defer store.Close()

	bad := NewRefresher(store, "not a schedule", nil)
	if err := bad.Start(); err == nil {
		t.Fatalf("expected schedule parse error")
	}

	disabled := NewRefresher(store, "", nil)
	if err := disabled.Start(); err != nil {
		t.Fatalf("empty schedule should disable scheduling, got %v", err)
	}
	disabled.Stop()
}
