package registry

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	p := Pricing{BaseCost: big.NewInt(100), ShortSurcharge: big.NewInt(40)}

	for n := DomainNameMinLength; n < DomainNameExpensiveLength; n++ {
		assert.Equal(t, big.NewInt(140), p.Price(strings.Repeat("a", n)), "length %d", n)
	}
	for _, n := range []int{8, 9, 18, 64} {
		assert.Equal(t, big.NewInt(100), p.Price(strings.Repeat("a", n)), "length %d", n)
	}
	assert.Equal(t, big.NewInt(100), p.Price("big_regular_domain"))
	assert.Equal(t, big.NewInt(140), p.Price("short"))
}

func TestPriceDoesNotAlias(t *testing.T) {
	p := Pricing{BaseCost: big.NewInt(100), ShortSurcharge: big.NewInt(40)}
	p.Price("big_regular_domain").SetInt64(1)
	assert.Equal(t, big.NewInt(100), p.BaseCost)
}

func TestDefaultPricing(t *testing.T) {
	p := DefaultPricing()
	assert.NoError(t, p.Validate())
	assert.Equal(t, "1000000000000000000", p.BaseCost.String())
	assert.Equal(t, "500000000000000000", p.ShortSurcharge.String())
}

func TestPricingValidate(t *testing.T) {
	assert.ErrorIs(t, Pricing{}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, Pricing{BaseCost: big.NewInt(-1), ShortSurcharge: big.NewInt(0)}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, Pricing{BaseCost: big.NewInt(1), ShortSurcharge: big.NewInt(-1)}.Validate(), ErrInvalidArgument)
}
