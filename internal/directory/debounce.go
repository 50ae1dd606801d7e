package directory

import (
	"context"
	"sync"
	"time"

	"github.com/paydesk/payroll-engine/internal/domain"
)

// DebouncedLookup is a single-slot, restartable resolution task for
// typing-time lookups: each new input cancels any in-flight lookup, waits a
// quiet period, then resolves. Only the most recently started lookup may
// deliver a result, so a slow early response can never clobber a later one.
type DebouncedLookup struct {
	resolver *Resolver
	quiet    time.Duration
	deliver  func(*domain.Identity)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewDebouncedLookup(resolver *Resolver, quiet time.Duration, deliver func(*domain.Identity)) *DebouncedLookup {
	return &DebouncedLookup{
		resolver: resolver,
		quiet:    quiet,
		deliver:  deliver,
	}
}

// Lookup restarts the slot for a new input value.
func (d *DebouncedLookup) Lookup(accountID string) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	go func() {
		timer := time.NewTimer(d.quiet)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		identity := d.resolver.Resolve(ctx, accountID)

		select {
		case <-ctx.Done():
			return
		default:
		}

		d.mu.Lock()
		current := seq == d.seq
		d.mu.Unlock()

		if current {
			d.deliver(identity)
		}
	}()
}

// Stop cancels any in-flight lookup.
func (d *DebouncedLookup) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}
