package fixedpoint

import (
	"testing"

	"cometindex/pkg/bigint"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var indexScale = bigint.MustFromString("1000000000000000")

func TestPresentPrincipalRoundTrip(t *testing.T) {
	cases := []struct {
		principal string
		index     string
	}{
		{"1000000", "1000000000000000"},
		{"1000000", "1052340000000000"},
		{"123456789123456789", "2000000000000000"},
		{"1", "1000000000000001"},
	}

	for _, c := range cases {
		principal := bigint.MustFromString(c.principal)
		index := bigint.MustFromString(c.index)

		pv := PresentValue(principal, index, indexScale)
		back := PrincipalValue(pv, index, indexScale)

		// integer truncation loses at most one unit
		diff := principal.Sub(back)
		require.True(t, diff.Sign() >= 0, "principal=%s index=%s", c.principal, c.index)
		assert.True(t, diff.Cmp(bigint.New(1)) <= 0, "principal=%s index=%s diff=%s", c.principal, c.index, diff)
	}
}

func TestPrincipalValueZeroIndex(t *testing.T) {
	got := PrincipalValue(bigint.MustFromString("123456"), bigint.New(0), indexScale)
	assert.True(t, got.IsZero())
}

func TestSignedAdd(t *testing.T) {
	cases := []struct {
		name                 string
		aMag                 int64
		aNeg                 bool
		bMag                 int64
		bNeg                 bool
		wantMag              int64
		wantNeg              bool
	}{
		{"both positive", 10, false, 5, false, 15, false},
		{"both negative", 10, true, 5, true, 15, true},
		{"neg plus smaller pos", 10, true, 4, false, 6, true},
		{"neg plus larger pos crosses zero", 10, true, 25, false, 15, false},
		{"pos plus larger neg crosses zero", 10, false, 25, true, 15, true},
		{"pos plus equal neg", 10, false, 10, true, 0, false},
		{"zero plus neg", 0, false, 7, true, 7, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mag, neg := SignedAdd(bigint.New(c.aMag), c.aNeg, bigint.New(c.bMag), c.bNeg)
			assert.Equal(t, c.wantMag, mag.Int64())
			assert.Equal(t, c.wantNeg, neg)
		})
	}
}

func TestSafeDivZero(t *testing.T) {
	assert.True(t, SafeDiv(bigint.New(100), bigint.New(0)).IsZero())
	assert.Equal(t, int64(33), SafeDiv(bigint.New(100), bigint.New(3)).Int64())

	assert.True(t, SafeDivDecimal(decimal.NewFromInt(5), decimal.Zero).IsZero())
}

func TestSafeSub(t *testing.T) {
	assert.Equal(t, int64(0), SafeSub(bigint.New(3), bigint.New(5)).Int64())
	assert.Equal(t, int64(2), SafeSub(bigint.New(5), bigint.New(3)).Int64())
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, int64(3), Min(bigint.New(3), bigint.New(5)).Int64())
	assert.Equal(t, int64(5), Max(bigint.New(3), bigint.New(5)).Int64())
	assert.Equal(t, "1.5", MinDecimal(decimal.NewFromFloat(1.5), decimal.NewFromInt(2)).String())
	assert.Equal(t, "2", MaxDecimal(decimal.NewFromFloat(1.5), decimal.NewFromInt(2)).String())
}
