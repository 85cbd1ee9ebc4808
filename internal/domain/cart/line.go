package cart

import "github.com/shopcraft/storefront/internal/domain/catalog"

// Line is one distinct product and its quantity within a scope.
// A stored line always has Quantity >= 1.
type Line struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	OwnerID   *int64           `json:"ownerId,omitempty"`
	Product   *catalog.Product `json:"product,omitempty"`
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	c := l
	if l.OwnerID != nil {
		id := *l.OwnerID
		c.OwnerID = &id
	}
	c.Product = l.Product.Clone()
	return c
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
