package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
)

// Line is one product-quantity pairing within a cart. Qty never drops below 1
// through Decrement; removal is always explicit.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ImageSrc       string    `json:"image_src"`
	Qty            int       `json:"qty"`
}

// Subscriber observes the full cart state after every mutation.
type Subscriber interface {
	CartChanged(ctx context.Context, owner string, lines []Line)
}

// Store is an explicitly owned cart state container for a single owner. It is
// never a package singleton; the Manager constructs and injects it.
type Store struct {
	mu          sync.Mutex
	owner       string
	lines       []Line
	subscribers []Subscriber
}

// NewStore builds an empty cart store for the given owner.
func NewStore(owner string) *Store {
	return &Store{owner: owner}
}

// Subscribe registers an observer for future mutations.
func (s *Store) Subscribe(sub Subscriber) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Owner returns the identifier this cart belongs to.
func (s *Store) Owner() string {
	return s.owner
}

// Add appends a new line for the product, or bumps the existing line's
// quantity when the product is already in the cart.
func (s *Store) Add(ctx context.Context, product models.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	if idx := s.indexOf(product.ID); idx >= 0 {
		s.lines[idx].Qty += qty
	} else {
		s.lines = append(s.lines, Line{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			ImageSrc:       product.ImageSrc,
			Qty:            qty,
		})
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
}

// Increment bumps the quantity of an existing line.
func (s *Store) Increment(ctx context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	s.lines[idx].Qty++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
	return nil
}

// Decrement lowers the quantity of an existing line, flooring at 1. A line
// already at 1 is left untouched; shoppers remove lines explicitly.
func (s *Store) Decrement(ctx context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if s.lines[idx].Qty > 1 {
		s.lines[idx].Qty--
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
	return nil
}

// Remove deletes the line unconditionally. Removing an absent product is a
// no-op, so repeated deliveries of the same action are harmless.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx >= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
}

// SetAll replaces the whole cart with the provided lines. Repeated product
// ids collapse into one line with the quantities summed, and lines without a
// positive quantity are dropped, so the one-line-per-product invariant holds
// no matter where the replacement list came from.
func (s *Store) SetAll(ctx context.Context, lines []Line) {
	merged := make([]Line, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.Qty < 1 {
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Qty += line.Qty
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	s.mu.Lock()
	s.lines = merged
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(ctx, snapshot)
}

// Snapshot returns a copy of the current lines in insertion order.
func (s *Store) Snapshot() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Line {
	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)
	return snapshot
}

func (s *Store) indexOf(productID uuid.UUID) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) publish(ctx context.Context, snapshot []Line) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.CartChanged(ctx, s.owner, snapshot)
	}
}
