package bluetooth

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	maxResolveAttempts = 2
	resolveTimeout     = 4 * time.Second
	resolvePause       = 3 * time.Second
)

// NameLookup asks a device for its name. It returns "" when the device does
// not answer.
type NameLookup func(ctx context.Context, id string) string

// NameResolver looks up names of devices that advertise without one. A found
// name is handed to deliver, which applies it with DeviceStore.SetName.
type NameResolver struct {
	lookup  NameLookup
	deliver func(id, name string)
	pause   time.Duration

	mu       sync.Mutex
	tried    map[string]int
	resolved map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewNameResolver creates a resolver. A nil lookup uses hcitool.
func NewNameResolver(lookup NameLookup, deliver func(id, name string)) *NameResolver {
	if lookup == nil {
		lookup = hcitoolName
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &NameResolver{
		lookup:   lookup,
		deliver:  deliver,
		pause:    resolvePause,
		tried:    make(map[string]int),
		resolved: make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// RequestResolve queues a device for background name resolution.
// Safe to call from any goroutine.
func (r *NameResolver) RequestResolve(id string) {
	r.mu.Lock()
	if r.resolved[id] || r.tried[id] >= maxResolveAttempts {
		r.mu.Unlock()
		return
	}
	r.tried[id]++
	r.mu.Unlock()

	go r.resolve(id)
}

func (r *NameResolver) resolve(id string) {
	// Rate limit so a burst of new devices does not flood the adapter.
	t := time.NewTimer(r.pause)
	defer t.Stop()
	select {
	case <-r.ctx.Done():
		return
	case <-t.C:
	}

	ctx, cancel := context.WithTimeout(r.ctx, resolveTimeout)
	defer cancel()
	name := r.lookup(ctx, id)
	if name == "" || r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	r.resolved[id] = true
	r.mu.Unlock()

	if r.deliver != nil {
		r.deliver(id, name)
	}
}

// Stop cancels pending lookups.
func (r *NameResolver) Stop() {
	r.cancel()
}

// IsResolved reports whether a name was found for id.
func (r *NameResolver) IsResolved(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved[id]
}

func hcitoolName(ctx context.Context, id string) string {
	out, err := exec.CommandContext(ctx, "hcitool", "name", id).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
