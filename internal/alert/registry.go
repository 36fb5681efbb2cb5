package alert

import (
	"crypto-relay-bot/internal/types"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Registry holds the pending alerts, at most one per asset.
type Registry struct {
	mu     sync.Mutex
	alerts map[string]types.Alert
	nextID int64
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		alerts: make(map[string]types.Alert),
		now:    time.Now,
	}
}

// Set stores an alert for asset, replacing any previous one.
func (r *Registry) Set(asset string, dest types.Destination, target float64) types.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a := types.Alert{
		ID:          r.nextID,
		Asset:       asset,
		Destination: dest,
		Target:      target,
		CreatedAt:   r.now(),
	}
	r.alerts[asset] = a
	return a
}

func (r *Registry) Get(asset string) (types.Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[asset]
	return a, ok
}

func (r *Registry) Remove(asset string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.alerts[asset]
	delete(r.alerts, asset)
	return ok
}

// Claim removes a only if it is still the stored alert for its asset. It returns false when
// the alert was removed or overwritten since it was read.
func (r *Registry) Claim(a types.Alert) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.alerts[a.Asset]
	if !ok || cur.ID != a.ID {
		return false
	}
	delete(r.alerts, a.Asset)
	return true
}

// Snapshot returns a copy of all alerts ordered by asset.
func (r *Registry) Snapshot() []types.Alert {
	r.mu.Lock()
	alerts := lo.Values(r.alerts)
	r.mu.Unlock()

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Asset < alerts[j].Asset })
	return alerts
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}
