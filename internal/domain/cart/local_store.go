package cart

import (
	"context"
	"sync"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// LocalStore is the anonymous cart. It keeps the line list in LocalStorage
// and rewrites the full list after every mutation.
//
// A mutation only writes after a successful read, so a read failure can
// never replace the stored cart with a partial copy. Such failures are
// reported as shared.ErrBackingStoreUnavailable. A failed write is logged and
// the in-process copy stays current. Clear needs no read and always writes,
// which also recovers a cart whose stored form cannot be decoded.
type LocalStore struct {
	mu      sync.Locker
	storage LocalStorage
	logger  *zap.Logger

	lines  []Line
	lastID int64
}

// LocalStoreOption configures a LocalStore.
type LocalStoreOption func(*LocalStore)

// WithLocker makes the store serialize on a lock shared with other stores of
// the same session.
func WithLocker(l sync.Locker) LocalStoreOption {
	return func(s *LocalStore) {
		s.mu = l
	}
}

// WithLocalLogger sets the logger used for storage failures.
func WithLocalLogger(logger *zap.Logger) LocalStoreOption {
	return func(s *LocalStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLocalStore creates a local cart over storage.
func NewLocalStore(storage LocalStorage, opts ...LocalStoreOption) *LocalStore {
	s := &LocalStore{
		mu:      &sync.Mutex{},
		storage: storage,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load refreshes the in-process copy from storage. Callers hold s.mu.
func (s *LocalStore) load(ctx context.Context) error {
	lines, err := s.storage.Read(ctx)
	if err != nil {
		s.logger.Warn("local cart read failed", zap.Error(err))
		return shared.ErrBackingStoreUnavailable.Wrap(err)
	}
	s.lines = lines
	for _, l := range lines {
		if l.ID > s.lastID {
			s.lastID = l.ID
		}
	}
	return nil
}

// save replaces the in-process copy and writes it through. Callers hold s.mu.
func (s *LocalStore) save(ctx context.Context, lines []Line) {
	s.lines = lines
	if err := s.storage.Write(ctx, cloneLines(lines)); err != nil {
		s.logger.Warn("local cart write failed", zap.Error(err), zap.Int("lines", len(lines)))
	}
}

func (s *LocalStore) indexOf(lineID int64) int {
	for i, l := range s.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}

// AddLine implements Store.
func (s *LocalStore) AddLine(ctx context.Context, product *catalog.Product, quantity int) (*Line, error) {
	if product == nil {
		return nil, shared.ErrInvalidInput.WithMessage("product is required")
	}
	if quantity < 1 {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	lines := cloneLines(s.lines)
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity += quantity
			lines[i].Product = product.Clone()
			s.save(ctx, lines)
			out := lines[i].Clone()
			return &out, nil
		}
	}

	s.lastID++
	line := Line{
		ID:        s.lastID,
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product.Clone(),
	}
	s.save(ctx, append(lines, line))
	out := line.Clone()
	return &out, nil
}

// SetQuantity implements Store.
func (s *LocalStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (*Line, error) {
	if quantity <= 0 {
		removed, err := s.RemoveLine(ctx, lineID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, shared.ErrNotFound.WithMessage("Cart item not found")
		}
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	i := s.indexOf(lineID)
	if i < 0 {
		return nil, shared.ErrNotFound.WithMessage("Cart item not found")
	}
	lines := cloneLines(s.lines)
	lines[i].Quantity = quantity
	s.save(ctx, lines)
	out := lines[i].Clone()
	return &out, nil
}

// RemoveLine implements Store.
func (s *LocalStore) RemoveLine(ctx context.Context, lineID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return false, err
	}

	i := s.indexOf(lineID)
	if i < 0 {
		return false, nil
	}
	lines := make([]Line, 0, len(s.lines)-1)
	lines = append(lines, s.lines[:i]...)
	lines = append(lines, s.lines[i+1:]...)
	s.save(ctx, lines)
	return true, nil
}

// Clear implements Store.
func (s *LocalStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, []Line{})
	return nil
}

// ListLines implements Store.
func (s *LocalStore) ListLines(ctx context.Context) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return cloneLines(s.lines), nil
}
