package registry

import (
	"fmt"
	"math/big"
)

const (
	DomainNameMinLength       = 5
	DomainNameExpensiveLength = 8
	TopLevelDomainMinLength   = 1

	// OneYear is the registration period in seconds.
	OneYear int64 = 31536000
)

var ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type Pricing struct {
	BaseCost       *big.Int
	ShortSurcharge *big.Int
}

// DefaultPricing is 1 ether for long names plus 0.5 ether for short ones.
func DefaultPricing() Pricing {
	return Pricing{
		BaseCost:       new(big.Int).Set(ether),
		ShortSurcharge: new(big.Int).Div(ether, big.NewInt(2)),
	}
}

func (p Pricing) Validate() error {
	if p.BaseCost == nil || p.BaseCost.Sign() < 0 {
		return fmt.Errorf("%w: base cost must be a non-negative amount", ErrInvalidArgument)
	}
	if p.ShortSurcharge == nil || p.ShortSurcharge.Sign() < 0 {
		return fmt.Errorf("%w: short surcharge must be a non-negative amount", ErrInvalidArgument)
	}
	return nil
}

// Price returns what registering or renewing name costs. Names shorter than
// DomainNameMinLength are priced like short names but can never be registered.
func (p Pricing) Price(name string) *big.Int {
	price := new(big.Int).Set(p.BaseCost)
	if len(name) < DomainNameExpensiveLength {
		price.Add(price, p.ShortSurcharge)
	}
	return price
}
