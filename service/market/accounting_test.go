package market

import (
	"testing"

	"cometindex/core"
	"cometindex/pkg/bigint"

	"github.com/stretchr/testify/assert"
)

func TestApplyPrincipalChanges(t *testing.T) {
	acc := &core.MarketAccounting{
		TotalBasePrincipalSupply: bigint.New(1000),
		TotalBasePrincipalBorrow: bigint.New(700),
	}

	// a repayment crossing zero retires the whole borrow leg and grows
	// the supply leg by the remainder
	applyPrincipalChanges(acc, []*core.PrincipalChange{{
		SupplyChange:      bigint.New(300),
		BorrowChange:      bigint.New(700),
		BorrowChangeIsNeg: true,
	}})
	assert.Equal(t, "1300", acc.TotalBasePrincipalSupply.String())
	assert.True(t, acc.TotalBasePrincipalBorrow.IsZero())

	// nil entries are skipped, a leg drifting below zero clamps there
	applyPrincipalChanges(acc, []*core.PrincipalChange{nil, {
		BorrowChange:      bigint.New(50),
		BorrowChangeIsNeg: true,
	}})
	assert.Equal(t, "1300", acc.TotalBasePrincipalSupply.String())
	assert.True(t, acc.TotalBasePrincipalBorrow.IsZero())
}
