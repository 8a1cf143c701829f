package returns

import (
	"context"
	"fmt"

	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
)

// Validation sentinels surfaced when an effect cannot be applied.
var (
	ErrNoItems          = fmt.Errorf("%w: a return needs at least one item", httpx.ErrValidation)
	ErrItemUnidentified = fmt.Errorf("%w: an item needs a product or a description", httpx.ErrValidation)
	ErrNegativeTotal    = fmt.Errorf("%w: grand total cannot be negative", httpx.ErrValidation)
	ErrNegativePieces   = fmt.Errorf("%w: item pieces cannot be negative", httpx.ErrValidation)
)

// CounterStore adjusts the denormalized running counters. Implementations
// must express each adjustment as an atomic in-place increment at the storage
// layer (col = col + delta), never read-modify-write, so that concurrent
// writers against the same row cannot lose updates. Both methods return
// ErrNotFound when the referenced row does not exist.
type CounterStore interface {
	AdjustStock(ctx context.Context, productID int64, deltaPieces int) error
	AdjustDue(ctx context.Context, customerID int64, delta float64) error
}

// ItemEffect is the portion of a return item that moves counters. Scrap lines
// carry no product reference and zero pieces.
type ItemEffect struct {
	ProductID   *int64
	Description *string
	TotalPieces int
}

// Effect captures the full counter impact of one recorded return: returned
// pieces re-enter each product's stock, and the grand total comes off the
// customer's due balance.
type Effect struct {
	CustomerID int64
	Items      []ItemEffect
	GrandTotal float64
}

func (e Effect) validate() error {
	if len(e.Items) == 0 {
		return ErrNoItems
	}
	if e.GrandTotal < 0 {
		return ErrNegativeTotal
	}
	for _, it := range e.Items {
		if it.ProductID == nil && (it.Description == nil || *it.Description == "") {
			return ErrItemUnidentified
		}
		if it.TotalPieces < 0 {
			return ErrNegativePieces
		}
	}
	return nil
}

// Reconciler keeps Customer.total_due and Product.stock_pieces consistent
// with the net effect of all recorded returns. Every method must run against
// a transaction-bound CounterStore: the caller owns the transaction, so a
// failure anywhere rolls back every adjustment made so far.
type Reconciler struct {
	store CounterStore
}

// NewReconciler binds a reconciler to a (transaction-scoped) counter store.
func NewReconciler(store CounterStore) *Reconciler {
	return &Reconciler{store: store}
}

// Apply records the effect of a return: each product-bearing item adds its
// pieces back to stock, and the grand total reduces what the customer owes.
func (r *Reconciler) Apply(ctx context.Context, e Effect) error {
	return r.shift(ctx, e, 1)
}

// Reverse is the exact inverse of Apply, used before replacing a return's
// item set and when deleting a return.
func (r *Reconciler) Reverse(ctx context.Context, e Effect) error {
	return r.shift(ctx, e, -1)
}

// Replace undoes the old effect in full before applying the new one. Always
// reversing first keeps intermediate balances correct even when old and new
// share a customer or products, and avoids delta-diffing between item sets.
func (r *Reconciler) Replace(ctx context.Context, old, new Effect) error {
	if err := r.Reverse(ctx, old); err != nil {
		return fmt.Errorf("reverse previous effect: %w", err)
	}
	if err := r.Apply(ctx, new); err != nil {
		return fmt.Errorf("apply new effect: %w", err)
	}
	return nil
}

func (r *Reconciler) shift(ctx context.Context, e Effect, direction int) error {
	if err := e.validate(); err != nil {
		return err
	}
	for _, it := range e.Items {
		if it.ProductID == nil || it.TotalPieces == 0 {
			continue
		}
		if err := r.store.AdjustStock(ctx, *it.ProductID, direction*it.TotalPieces); err != nil {
			return fmt.Errorf("adjust stock for product %d: %w", *it.ProductID, err)
		}
	}
	if err := r.store.AdjustDue(ctx, e.CustomerID, -float64(direction)*e.GrandTotal); err != nil {
		return fmt.Errorf("adjust due for customer %d: %w", e.CustomerID, err)
	}
	return nil
}

// effectOf extracts the counter effect of a persisted return.
func effectOf(ret *SalesReturn) Effect {
	items := make([]ItemEffect, 0, len(ret.Items))
	for _, it := range ret.Items {
		items = append(items, ItemEffect{
			ProductID:   it.ProductID,
			Description: it.Description,
			TotalPieces: it.TotalPieces,
		})
	}
	return Effect{CustomerID: ret.CustomerID, Items: items, GrandTotal: ret.GrandTotal}
}
