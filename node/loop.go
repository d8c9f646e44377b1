package node

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// wakeBuffer is the depth of the internal wake channel: enough that a
// burst of stdin lines or periodic fires across several sources never
// blocks a reader goroutine waiting for the tick loop to catch up.
const wakeBuffer = 64

// Run is the outer event loop of spec §5: it polls across stdin readers
// and periodic timers (channel deliveries arrive out-of-band, via
// whatever transport calls Node.DeliverNetworked) and drives one Tick
// per wake, running until ctx is cancelled. Between ticks the engine is
// fully idle; the only blocking point is this poll (spec §5's
// "suspension points").
func (n *Node) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	wake := make(chan struct{}, wakeBuffer)

	signal := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	for _, in := range n.stdins {
		in := in
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				// The blocking read itself happens outside n.mu, so a slow
				// or idle stdin never starves ticks or other sources;
				// only the merge needs the lock Tick also holds, so a
				// line can only land between ticks, never mid-tick (spec
				// §5: "reads of a collection observe the pre-tick
				// snapshot for the entirety of a tick").
				line, ok := in.Next()
				if !ok {
					return nil
				}
				n.mu.Lock()
				in.Commit(line, n.logicalTime)
				n.mu.Unlock()
				signal()
			}
		})
	}

	if len(n.periodics) > 0 {
		group.Go(func() error { return n.pollPeriodics(ctx, signal) })
	}

	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-wake:
				if err := n.Tick(ctx); err != nil {
					return err
				}
			}
		}
	})

	return group.Wait()
}

// pollPeriodics wakes the tick loop whenever any declared Periodic's
// timer elapses, checking at the finest configured granularity.
func (n *Node) pollPeriodics(ctx context.Context, signal func()) error {
	interval := time.Hour
	for _, p := range n.periodics {
		if p.Period() > 0 && p.Period() < interval {
			interval = p.Period()
		}
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n.mu.Lock()
			fired := false
			for _, p := range n.periodics {
				if p.MaybeFire(now, n.logicalTime) {
					fired = true
				}
			}
			n.mu.Unlock()
			if fired {
				signal()
			}
		}
	}
}
