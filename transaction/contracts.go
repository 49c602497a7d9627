package transaction

import "github.com/xraph/wallet/types"

// Party is anything that can occupy a transaction's from/to slot: an account
// or a priced product. Identity is carried as an explicit tagged reference,
// never recovered by runtime type inspection.
type Party interface {
	Ref() types.Ref
}

// Customer marks the party acting as the buyer in a priced purchase. Products
// may personalize cost, tax and discount per customer.
type Customer interface {
	Party
}

// Product is a priced purchasable party. The engine never stores product
// data; it queries this contract at build time.
type Product interface {
	Party

	// CanBuy reports whether the customer may buy the given quantity.
	// force mirrors the force-payment path, where balance checks are skipped.
	CanBuy(customer Customer, quantity int, force bool) bool

	// Cost returns the product's price for the customer as a decimal string.
	Cost(customer Customer) string

	// ProductMetadata returns the product's metadata bag.
	ProductMetadata() types.Metadata
}

// Taxable is an optional product capability: a percentage fee applied on top
// of the amount.
type Taxable interface {
	TaxPercent(customer Customer) string
	TaxPrecision() int
}

// MinimalTaxable is a Taxable product with a floor: when the tax percentage
// is lower than the minimum-tax value, the fee is recomputed using the
// minimum value in place of the percentage.
type MinimalTaxable interface {
	Taxable
	MinimumTax() string
}

// Discountable is an optional product capability: a percentage discount
// subtracted from the due amount.
type Discountable interface {
	DiscountPercent(customer Customer) string
	DiscountPrecision() int
}
