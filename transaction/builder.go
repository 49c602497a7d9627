package transaction

import (
	"errors"
	"time"

	"github.com/xraph/wallet/bigmath"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/types"
)

// ErrNoProduct is returned by Build when the cost is requested from the
// product but no party with the Product capability was attached.
var ErrNoProduct = errors.New("transaction: no product attached to builder")

// Builder assembles exactly one Transaction from a fluent chain of calls,
// resolving cost, fee and discount against an optional priced product and an
// optional customer context.
//
// Zero is the unset sentinel for amount, fee and discount: a value not
// explicitly set falls back to the product-derived computation, and
// explicitly setting zero is indistinguishable from not setting it.
type Builder struct {
	from, to    types.Ref
	typ         Type
	amount      string
	fee         string
	discount    string
	confirmed   bool
	confirmedAt *time.Time
	metadata    types.Metadata

	// first party seen with each capability
	product  Product
	customer Customer

	now func() time.Time
}

// NewBuilder creates a builder stamping timestamps from the given clock.
// New transactions start confirmed, matching the common immediate-settlement
// path; use Confirmed(false) for pay-now-confirm-later flows.
func NewBuilder(now func() time.Time) *Builder {
	b := &Builder{
		amount:   "0",
		fee:      "0",
		discount: "0",
		now:      now,
	}
	return b.Confirmed(true)
}

func (b *Builder) capture(p Party) {
	if prod, ok := p.(Product); ok && b.product == nil {
		b.product = prod
	} else if cust, ok := p.(Customer); ok && b.customer == nil {
		b.customer = cust
	}
}

// From records the party the transaction starts from.
func (b *Builder) From(p Party) *Builder {
	b.from = p.Ref()
	b.capture(p)
	return b
}

// To records the party the transaction arrives to.
func (b *Builder) To(p Party) *Builder {
	b.to = p.Ref()
	b.capture(p)
	return b
}

// WithType sets the transaction type.
func (b *Builder) WithType(t Type) *Builder {
	b.typ = t
	return b
}

// WithAmount sets the principal amount as a decimal string.
func (b *Builder) WithAmount(amount string) *Builder {
	b.amount = amount
	return b
}

// WithMetadata attaches the provided metadata to the transaction.
func (b *Builder) WithMetadata(meta types.Metadata) *Builder {
	b.metadata = meta
	return b
}

// WithDiscount sets the discount, expressed in the amount's base points.
func (b *Builder) WithDiscount(discount string) *Builder {
	b.discount = discount
	return b
}

// WithTax sets the fee, expressed in the amount's base points.
func (b *Builder) WithTax(tax string) *Builder {
	b.fee = tax
	return b
}

// Confirmed sets the confirmation state, keeping confirmed and confirmed_at
// in lockstep.
func (b *Builder) Confirmed(confirmed bool) *Builder {
	if confirmed {
		now := b.now()
		b.confirmed = true
		b.confirmedAt = &now
	} else {
		b.confirmed = false
		b.confirmedAt = nil
	}
	return b
}

// SyncWithProductMetadata copies the product's metadata onto the transaction
// unless metadata was already set explicitly.
func (b *Builder) SyncWithProductMetadata() *Builder {
	if len(b.metadata) == 0 && b.product != nil {
		b.metadata = b.product.ProductMetadata()
	}
	return b
}

// computeDiscount resolves the discount against the product context.
func (b *Builder) computeDiscount() {
	// empty amount makes the discount fall back to zero
	if bigmath.IsZero(b.amount) {
		b.discount = "0"
		return
	}

	if !bigmath.IsZero(b.discount) {
		return
	}

	if d, ok := b.product.(Discountable); ok {
		// scale amount by the discount percentage, then back down by the
		// discount precision, truncating residual decimals
		b.discount = bigmath.MustDiv(
			bigmath.Mul(b.amount, d.DiscountPercent(b.customer)),
			bigmath.PowTen(d.DiscountPrecision()),
		)
	}
}

// computeTax resolves the fee against the product context.
func (b *Builder) computeTax() {
	// empty amount makes the fee fall back to zero
	if bigmath.IsZero(b.amount) {
		b.fee = "0"
		return
	}

	if bigmath.IsZero(b.fee) {
		if tx, ok := b.product.(Taxable); ok {
			b.fee = bigmath.MustDiv(
				bigmath.Mul(b.amount, tx.TaxPercent(b.customer)),
				bigmath.PowTen(tx.TaxPrecision()),
			)
		}
	}

	// The floor compares the raw tax percentage against the minimum-tax
	// value, not the two computed fees. Recorded transactions depend on
	// this, so it is kept as-is.
	if mt, ok := b.product.(MinimalTaxable); ok &&
		bigmath.IsLowerThan(mt.TaxPercent(b.customer), mt.MinimumTax()) {
		b.fee = bigmath.MustDiv(
			bigmath.Mul(b.amount, mt.MinimumTax()),
			bigmath.PowTen(mt.TaxPrecision()),
		)
	}
}

// Build finalizes the transaction. When computeCostFromProduct is set and the
// amount is still the zero sentinel, the amount is taken from the product's
// cost for the captured customer.
func (b *Builder) Build(computeCostFromProduct bool) (*Transaction, error) {
	if computeCostFromProduct {
		if b.product == nil {
			return nil, ErrNoProduct
		}
		if bigmath.IsZero(b.amount) {
			b.amount = b.product.Cost(b.customer)
		}
	}

	b.computeDiscount()
	b.computeTax()

	return &Transaction{
		Entity:      types.NewEntityAt(b.now()),
		ID:          id.NewTransactionID(),
		From:        b.from,
		To:          b.to,
		Type:        b.typ,
		Amount:      b.amount,
		Fee:         b.fee,
		Discount:    b.discount,
		Confirmed:   b.confirmed,
		ConfirmedAt: b.confirmedAt,
		Metadata:    b.metadata.Clone(),
	}, nil
}
