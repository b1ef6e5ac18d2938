// Package pricing derives totals from cart contents. Everything here is a
// pure function; money math runs on decimals so the published figures are
// reproducible to the cent.
package pricing

import (
	"regexp"
	"strconv"

	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/shopspring/decimal"
)

// Fixed VAT-equivalent rate and the family promotion discount.
var (
	taxRate      = decimal.NewFromFloat(0.21)
	discountRate = decimal.NewFromFloat(0.20)
)

type Quote struct {
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	ChildDiscount float64 `json:"childDiscount"`
	Total         float64 `json:"total"`
}

// Compute quotes the whole cart. Tax and discount are both taken off the
// subtotal independently: the discount never reduces the tax base. Only the
// grand total is rounded, to two decimals.
func Compute(items []cart.Item) Quote {
	sub := Subtotal(items)
	tax := sub.Mul(taxRate)

	discount := decimal.Zero
	if HasChildren(items) {
		discount = sub.Mul(discountRate)
	}

	total := sub.Add(tax).Sub(discount).Round(2)

	return Quote{
		Subtotal:      sub.InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		ChildDiscount: discount.InexactFloat64(),
		Total:         total.InexactFloat64(),
	}
}

// Subtotal sums item prices. Negative prices never enter the cart, but a
// defective one is treated as 0 rather than poisoning the sum.
func Subtotal(items []cart.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Price <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(it.Price))
	}
	return sum
}

// HasChildren reports whether any flight in the cart, individual or inside a
// package, was searched with a passenger descriptor encoding children.
func HasChildren(items []cart.Item) bool {
	for _, it := range items {
		var passengers string
		switch it.Type {
		case cart.TypeFlight:
			if it.Flight != nil {
				passengers = it.Flight.Passengers
			}
		case cart.TypePackage:
			if it.Package != nil {
				passengers = it.Package.Flight.Passengers
			}
		}

		if _, children := ParsePassengers(passengers); children > 0 {
			return true
		}
	}
	return false
}

var (
	adultsRe   = regexp.MustCompile(`(?i)(\d+)\s*adulto`)
	childrenRe = regexp.MustCompile(`(?i)(\d+)\s*niñ[oa]`)
)

// ParsePassengers extracts occupancy from a free-text descriptor such as
// "2 Adultos y 1 Niños, Turista". Unparseable descriptors default to a
// single adult; there is always at least one adult.
func ParsePassengers(descriptor string) (adults int, children int) {
	adults = 1

	if m := adultsRe.FindStringSubmatch(descriptor); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			adults = n
		}
	}

	if m := childrenRe.FindStringSubmatch(descriptor); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			children = n
		}
	}

	return adults, children
}
