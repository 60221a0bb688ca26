package coupon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie-api/coupon"
)

func TestValidatePercentageWithCap(t *testing.T) {
	// 50% of 100 would be 50, capped at 25
	discount, c, err := coupon.Validate("PRIMEIRA", 100)
	require.NoError(t, err)
	assert.Equal(t, 25.0, discount)
	assert.Equal(t, "PRIMEIRA", c.Code)

	// 50% of 40 is 20, under the cap
	discount, _, err = coupon.Validate("PRIMEIRA", 40)
	require.NoError(t, err)
	assert.Equal(t, 20.0, discount)
}

func TestValidateFixedWithMinimumOrder(t *testing.T) {
	discount, c, err := coupon.Validate("DESCONTO10", 50)
	require.NoError(t, err)
	assert.Equal(t, 10.0, discount)
	assert.Equal(t, coupon.KindFixed, c.Kind)

	_, _, err = coupon.Validate("DESCONTO10", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "30")
}

func TestValidateNormalizesCode(t *testing.T) {
	want, _, err := coupon.Validate("DESCONTO10", 50)
	require.NoError(t, err)

	for _, code := range []string{"desconto10", "  DESCONTO10  ", "Desconto10"} {
		got, c, err := coupon.Validate(code, 50)
		require.NoError(t, err, "code %q", code)
		assert.Equal(t, want, got)
		assert.Equal(t, "DESCONTO10", c.Code)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	_, _, err := coupon.Validate("NOPE", 100)
	assert.ErrorIs(t, err, coupon.ErrUnknown)

	_, _, err = coupon.Validate("", 100)
	assert.ErrorIs(t, err, coupon.ErrUnknown)
}

func TestValidateFreeDelivery(t *testing.T) {
	discount, c, err := coupon.Validate("FRETEGRATIS", 25)
	require.NoError(t, err)
	assert.Equal(t, 0.0, discount)
	assert.True(t, c.FreeDelivery)

	_, _, err = coupon.Validate("FRETEGRATIS", 15)
	require.Error(t, err)
}

func TestValidateIsDeterministic(t *testing.T) {
	first, _, err := coupon.Validate("PRIMEIRA", 73)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		d, _, err := coupon.Validate("PRIMEIRA", 73)
		require.NoError(t, err)
		assert.Equal(t, first, d)
	}
}

func TestFind(t *testing.T) {
	c, ok := coupon.Find("primeira")
	require.True(t, ok)
	assert.Equal(t, "PRIMEIRA", c.Code)

	_, ok = coupon.Find("GHOST")
	assert.False(t, ok)
}

func TestCatalogIsACopy(t *testing.T) {
	cat := coupon.Catalog()
	require.NotEmpty(t, cat)
	cat[0].Code = "MUTATED"

	again := coupon.Catalog()
	assert.NotEqual(t, "MUTATED", again[0].Code)
}
