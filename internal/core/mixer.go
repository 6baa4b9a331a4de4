package core

import (
	"context"
	"time"
)

// mixTickInterval is the mixer cadence: 20ms, one tick per audio frame
// (spec.md §4.5), the same cadence instipod-sip2rtsp's mixLoop runs its
// ticker at.
const mixTickInterval = 20 * time.Millisecond

// StartMixer launches this channel's periodic mixing task. Cancelling the
// returned function — or cancelling ctx — stops it. Callers start this
// once each time membership transitions from empty to non-empty (I5);
// see app.ChannelRegistry.
func (c *Channel) StartMixer(ctx context.Context) context.CancelFunc {
	tickCtx, cancel := context.WithCancel(ctx)
	c.setCancel(cancel)
	go c.mixLoop(tickCtx)
	c.log.Info().Msg("mixer started")
	return cancel
}

func (c *Channel) mixLoop(ctx context.Context) {
	ticker := time.NewTicker(mixTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("mixer stopped")
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick runs one mixer cycle (spec.md §4.5). The whole cycle runs under
// the channel's single lock: well under the 20ms budget for realistic
// membership sizes, and it keeps ingress/mixer access serialised per the
// concurrency model in SPEC_FULL.md §5.
func (c *Channel) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.members) == 0 {
		return
	}

	eligible := make([]*member, 0, len(c.members))
	for _, m := range c.members {
		if m.eligible() {
			eligible = append(eligible, m)
		}
	}

	for _, listener := range c.members {
		var frames []Frame
		for _, speaker := range eligible {
			if speaker == listener {
				continue
			}
			if f, ok := speaker.queue.pop(); ok {
				frames = append(frames, f)
			}
		}
		if len(frames) == 0 {
			continue
		}
		mixed := Mix(frames)
		_ = listener.transport.TrySend(mixed)
	}
}
