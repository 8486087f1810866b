package pos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kafe/internal/events"
	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/obs"
	"github.com/noah-isme/backend-kafe/internal/order"
	"github.com/noah-isme/backend-kafe/internal/pricing"
	"github.com/noah-isme/backend-kafe/internal/report"
)

var (
	// ErrSessionNotFound indicates the order session does not exist or has expired.
	ErrSessionNotFound = errors.New("order session not found")
	// ErrEmptyOrder is returned when checking out an order with no lines.
	ErrEmptyOrder = errors.New("order has no lines")
	// ErrInsufficientPayment is returned when the paid amount does not cover the total.
	ErrInsufficientPayment = errors.New("payment does not cover the total")
)

type session struct {
	order      *order.Order
	lastActive time.Time
}

// Service drives order sessions against the shared catalog. One mutex
// serializes every session mutation and catalog commit: the engine assumes
// at most one order touches the ledger at a time, and the lock is what
// makes that hold under concurrent HTTP traffic.
type Service struct {
	Catalog   *menu.Catalog
	Events    *events.Bus
	Log       zerolog.Logger
	TTL       time.Duration
	BakeItem  string
	BakeBatch int
	Now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// AddResult reports the reservation state after an add attempt. Available
// accompanies stock rejections so callers can tell customers what is left.
type AddResult struct {
	Reserved  int
	Available int
}

// Receipt summarises a finalized checkout.
type Receipt struct {
	Summary pricing.Summary
	Paid    pricing.Money
	Change  pricing.Money
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// emit records a domain event. Emission failures never fail the business
// operation that produced them, but they are logged rather than dropped.
func (s *Service) emit(ctx context.Context, topic string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, payload); err != nil {
		s.Log.Error().Err(err).Str("topic", topic).Msg("emit event")
	}
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 30 * time.Minute
	}
	return s.TTL
}

// Open creates a fresh order session and returns its identifier.
func (s *Service) Open() (string, error) {
	if s == nil || s.Catalog == nil {
		return "", errors.New("pos service not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*session)
	}
	s.sweepLocked()
	id := uuid.NewString()
	s.sessions[id] = &session{order: order.New(), lastActive: s.now()}
	return id, nil
}

func (s *Service) sweepLocked() {
	cutoff := s.now().Add(-s.ttl())
	for id, sess := range s.sessions {
		if sess.lastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *Service) sessionLocked(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.lastActive.Before(s.now().Add(-s.ttl())) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastActive = s.now()
	return sess, nil
}

// AddItem accumulates a direct item line on the session's order.
func (s *Service) AddItem(sessionID, name string, qty int) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return AddResult{}, err
	}
	it, err := s.Catalog.Item(name)
	if err != nil {
		return AddResult{}, err
	}
	if err := sess.order.AddItem(it, qty); err != nil {
		if errors.Is(err, order.ErrInsufficientStock) && obs.StockRejectionsTotal != nil {
			obs.StockRejectionsTotal.WithLabelValues(it.Key()).Inc()
		}
		return AddResult{Reserved: sess.order.Reserved(it), Available: sess.order.Available(it)}, err
	}
	return AddResult{Reserved: sess.order.Reserved(it), Available: sess.order.Available(it)}, nil
}

// AddCombo accumulates a combo line on the session's order.
func (s *Service) AddCombo(sessionID, name string, qty int) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return AddResult{}, err
	}
	combo, err := s.Catalog.Combo(name)
	if err != nil {
		return AddResult{}, err
	}
	muffin := combo.Muffin()
	if err := sess.order.AddCombo(combo, qty); err != nil {
		if errors.Is(err, order.ErrInsufficientStock) && obs.StockRejectionsTotal != nil {
			obs.StockRejectionsTotal.WithLabelValues(muffin.Key()).Inc()
		}
		return AddResult{Reserved: sess.order.Reserved(muffin), Available: sess.order.Available(muffin)}, err
	}
	return AddResult{Reserved: sess.order.Reserved(muffin), Available: sess.order.Available(muffin)}, nil
}

// Quote prices the session's order. Pure: callable any number of times.
func (s *Service) Quote(sessionID string) (pricing.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return pricing.Summary{}, err
	}
	return sess.order.Summary(), nil
}

// Checkout finalizes the session's order exactly once. Empty orders and
// short payments are rejected before anything touches the ledger; a
// successful checkout discards the session so it cannot be replayed.
func (s *Service) Checkout(ctx context.Context, sessionID string, paid pricing.Money) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	summary := sess.order.Summary()
	if sess.order.Empty() || summary.Total <= 0 {
		return Receipt{}, ErrEmptyOrder
	}
	if paid < summary.Total {
		return Receipt{Summary: summary, Paid: paid}, ErrInsufficientPayment
	}
	if err := sess.order.Finalize(); err != nil {
		return Receipt{}, err
	}
	delete(s.sessions, sessionID)

	if obs.OrdersFinalizedTotal != nil {
		obs.OrdersFinalizedTotal.Inc()
		obs.OrderValue.Observe(float64(summary.Total))
	}
	receipt := Receipt{Summary: summary, Paid: paid, Change: paid - summary.Total}
	s.emit(ctx, events.TopicOrderFinalized, map[string]any{
		"sessionId": sessionID,
		"total":     summary.Total,
		"paid":      paid,
		"change":    receipt.Change,
	})
	return receipt, nil
}

// Bake restocks the bake item by one batch and returns the new stock level.
func (s *Service) Bake(ctx context.Context) (*menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.BakeItem
	if name == "" {
		name = "muffin"
	}
	batch := s.BakeBatch
	if batch <= 0 {
		batch = 25
	}
	it, err := s.Catalog.Restock(name, batch)
	if err != nil {
		return nil, err
	}
	if obs.MuffinsBakedTotal != nil {
		obs.MuffinsBakedTotal.Add(float64(batch))
	}
	s.emit(ctx, events.TopicMuffinsBaked, map[string]any{
		"item":  it.Name(),
		"baked": batch,
		"stock": it.Stock(),
	})
	return it, nil
}

// UpdatePrice replaces an item's list price. The zero "cancel" sentinel is
// the handler's concern; by the time this runs the price must be positive.
func (s *Service) UpdatePrice(ctx context.Context, name string, price pricing.Money) (*menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.Catalog.UpdatePrice(name, price)
	if err != nil {
		if errors.Is(err, menu.ErrInvalidPrice) && obs.PriceUpdatesTotal != nil {
			obs.PriceUpdatesTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}
	if obs.PriceUpdatesTotal != nil {
		obs.PriceUpdatesTotal.WithLabelValues("ok").Inc()
	}
	s.emit(ctx, events.TopicPriceUpdated, map[string]any{
		"item":  it.Name(),
		"price": it.Price(),
	})
	return it, nil
}

// SalesReport snapshots the catalog ledgers under the service lock.
func (s *Service) SalesReport() report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.Build(s.Catalog)
}
