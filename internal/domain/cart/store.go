package cart

import (
	"context"

	"github.com/shopcraft/storefront/internal/domain/catalog"
)

// Store is a cart bound to a single scope.
//
// AddLine merges into an existing line for the same product (the quantities
// are summed) and otherwise creates one. SetQuantity overwrites the quantity;
// a quantity <= 0 removes the line and returns a nil line. Both SetQuantity
// and a removal through it fail with shared.ErrNotFound when the line is not in
// the scope. RemoveLine is idempotent and reports whether a line was deleted.
// Clear removes every line of the scope and nothing else. ListLines returns
// lines in insertion order with their product snapshot.
type Store interface {
	AddLine(ctx context.Context, product *catalog.Product, quantity int) (*Line, error)
	SetQuantity(ctx context.Context, lineID int64, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, lineID int64) (bool, error)
	Clear(ctx context.Context) error
	ListLines(ctx context.Context) ([]Line, error)
}

// LocalStorage is durable storage for an anonymous cart. Read returns an
// empty list when nothing was written yet. Write replaces the whole list.
type LocalStorage interface {
	Read(ctx context.Context) ([]Line, error)
	Write(ctx context.Context, lines []Line) error
}
