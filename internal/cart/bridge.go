package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/verdemart/verdemart-backend/pkg/logger"
)

type slotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type slotKeyer interface {
	CartSlotKey(owner string) string
}

// Bridge mirrors every published cart snapshot into a durable Redis slot and
// rehydrates it once per owner. It owns no state of its own; the in-memory
// store stays the source of truth while the session is live.
type Bridge struct {
	store slotStore
	keyer slotKeyer
	ttl   time.Duration
	logg  *logger.Logger
}

// NewBridge wires the persistence bridge against the Redis-backed slot store.
func NewBridge(store slotStore, keyer slotKeyer, ttl time.Duration, logg *logger.Logger) (*Bridge, error) {
	if store == nil {
		return nil, fmt.Errorf("slot store is required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("slot keyer is required")
	}
	return &Bridge{store: store, keyer: keyer, ttl: ttl, logg: logg}, nil
}

// CartChanged serializes the full cart and overwrites the slot,
// last-write-wins. A write failure is logged, never surfaced: losing a mirror
// write only costs rehydration fidelity, not the live cart.
func (b *Bridge) CartChanged(ctx context.Context, owner string, lines []Line) {
	payload, err := json.Marshal(lines)
	if err != nil {
		b.warn(ctx, "cart mirror serialization failed", err)
		return
	}
	if err := b.store.Set(ctx, b.keyer.CartSlotKey(owner), payload, b.ttl); err != nil {
		b.warn(ctx, "cart mirror write failed", err)
	}
}

// Load reads the slot once. A missing slot or unparseable payload yields an
// empty cart; the parse failure is logged and the slot content ignored.
func (b *Bridge) Load(ctx context.Context, owner string) []Line {
	raw, err := b.store.Get(ctx, b.keyer.CartSlotKey(owner))
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			b.warn(ctx, "cart slot read failed", err)
		}
		return nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		b.warn(ctx, "cart slot contained invalid payload", err)
		return nil
	}
	return lines
}

func (b *Bridge) warn(ctx context.Context, msg string, err error) {
	if b.logg == nil {
		return
	}
	b.logg.Warn(b.logg.WithField(ctx, "error", err.Error()), msg)
}
