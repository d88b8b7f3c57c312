// Package ledger owns authoritative product stock counts. Its single
// operation settles a checkout cart: every line item is validated and
// decremented inside one database transaction, or nothing is applied.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/ws"

	"gorm.io/gorm"
)

var (
	// ErrEmptyCart rejects a checkout with no line items.
	ErrEmptyCart = errors.New("cart is empty")
)

// InvalidLineError rejects a line item whose quantity is not a positive
// integer or that carries no product reference at all.
type InvalidLineError struct {
	Line int
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid cart line %d", e.Line)
}

// NotFoundError means a cart line referenced a product that does not
// exist. Expected and user-facing, not a system error.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return "product not found: " + e.Ref
}

// InsufficientStockError means a line item requested more units than the
// product has. Expected and user-facing, not a system error.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// CartLine is one checkout line item. ProductID is the canonical
// reference; Name is kept for the legacy name-keyed request form and is
// only consulted when ProductID is zero.
type CartLine struct {
	ProductID uint
	Name      string
	Quantity  int
}

type Ledger struct {
	db       *gorm.DB
	products repository.ProductRepository
	hub      *ws.Hub
}

func New(db *gorm.DB, products repository.ProductRepository, hub *ws.Hub) *Ledger {
	return &Ledger{db: db, products: products, hub: hub}
}

type settledLine struct {
	productID uint
	name      string
	newStock  int
	quantity  int
}

// SettleCart atomically validates and decrements stock for every line of
// the cart. Either all decrements commit together or none do. The
// decrement itself is a single conditional update (stock = stock - qty
// where stock >= qty), so concurrent checkouts of the same product can
// never drive stock negative regardless of isolation level.
func (l *Ledger) SettleCart(ctx context.Context, cart []CartLine) error {
	if len(cart) == 0 {
		return ErrEmptyCart
	}
	for i, line := range cart {
		if line.Quantity <= 0 || (line.ProductID == 0 && line.Name == "") {
			return &InvalidLineError{Line: i + 1}
		}
	}

	var settled []settledLine
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settled = settled[:0]
		for _, line := range cart {
			product, err := resolveProduct(tx, line)
			if err != nil {
				return err
			}

			ok, err := l.products.DecrementStock(tx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Either short when read, or another checkout got there first.
				return &InsufficientStockError{
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}

			settled = append(settled, settledLine{
				productID: product.ID,
				name:      product.Name,
				newStock:  product.Stock - line.Quantity,
				quantity:  line.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, s := range settled {
		l.hub.BroadcastStockEvent(ws.StockEvent{
			Type:      "stock_update",
			Action:    "checkout",
			ProductID: s.productID,
			Name:      s.name,
			Stock:     s.newStock,
			Message:   fmt.Sprintf("checkout removed %d units of '%s'", s.quantity, s.name),
		})
	}
	return nil
}

// resolveProduct looks a cart line up by ID, falling back to the legacy
// unique-name key when no ID was supplied.
func resolveProduct(tx *gorm.DB, line CartLine) (*model.Product, error) {
	var product model.Product
	var err error
	var ref string

	if line.ProductID != 0 {
		ref = fmt.Sprintf("%d", line.ProductID)
		err = tx.First(&product, "id = ?", line.ProductID).Error
	} else {
		ref = line.Name
		err = tx.First(&product, "name = ?", line.Name).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Ref: ref}
		}
		return nil, err
	}
	return &product, nil
}
