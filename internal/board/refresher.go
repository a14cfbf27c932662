package board

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Refresher reloads the board from the remote store on a cron
// schedule, so a dashboard left open overnight does not go stale.
type Refresher struct {
	store    *Store
	spec     string
	notifier Notifier
	cron     *cron.Cron
}

// NewRefresher builds a refresher for the given cron spec. An empty
// spec disables scheduling entirely.
func NewRefresher(store *Store, spec string, notifier Notifier) *Refresher {
	if notifier == nil {
		notifier = NotifierFunc(func(Advisory) {})
	}
	return &Refresher{
		store:    store,
		spec:     spec,
		notifier: notifier,
		cron:     cron.New(),
	}
}

func (r *Refresher) Start() error {
	if r.spec == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(r.spec, r.refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", r.spec, err)
	}
	r.cron.Start()
	return nil
}

func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Refresher) refresh() {
	leads, err := r.store.LoadAll(context.Background())
	if err != nil {
		log.Printf("scheduled refresh failed: %v", err)
		r.notifier.Notify(Advisory{
			Kind:    AdvisoryRefreshFailed,
			Message: "Scheduled refresh failed (previous board kept)",
			At:      r.store.now(),
		})
		return
	}
	log.Printf("scheduled refresh loaded %d leads", len(leads))
	r.notifier.Notify(Advisory{
		Kind:    AdvisoryRefreshOK,
		Message: fmt.Sprintf("Board refreshed: %d leads", len(leads)),
		At:      r.store.now(),
	})
}
