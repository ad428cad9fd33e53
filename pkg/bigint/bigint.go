// Package bigint provides an arbitrary-precision integer that can be
// persisted as a text column. Raw on-chain quantities (principals, indices,
// token amounts) never fit fixed-width integer columns, so they are stored
// as base-10 strings, the same way subgraph-style stores keep numeric(78,0).
package bigint

import (
	"database/sql/driver"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Int wraps big.Int with database and JSON encodings. The zero value is
// ready to use and equals zero.
type Int struct {
	i big.Int
}

func New(x int64) Int {
	var v Int
	v.i.SetInt64(x)
	return v
}

func FromBig(b *big.Int) Int {
	var v Int
	if b != nil {
		v.i.Set(b)
	}
	return v
}

// FromString parses a base-10 integer literal.
func FromString(s string) (Int, bool) {
	var v Int
	if s == "" {
		return v, true
	}
	if _, ok := v.i.SetString(s, 10); !ok {
		return Int{}, false
	}
	return v, true
}

// MustFromString is for constants in tests and wiring code.
func MustFromString(s string) Int {
	v, ok := FromString(s)
	if !ok {
		panic(fmt.Sprintf("bigint: invalid integer %q", s))
	}
	return v
}

// Pow10 returns 10^exp.
func Pow10(exp uint8) Int {
	var v Int
	v.i.Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
	return v
}

func (v Int) Big() *big.Int {
	return new(big.Int).Set(&v.i)
}

func (v Int) Add(o Int) Int {
	var r Int
	r.i.Add(&v.i, &o.i)
	return r
}

func (v Int) Sub(o Int) Int {
	var r Int
	r.i.Sub(&v.i, &o.i)
	return r
}

func (v Int) Mul(o Int) Int {
	var r Int
	r.i.Mul(&v.i, &o.i)
	return r
}

// Div is integer division truncated toward zero. Division by zero panics,
// use fixedpoint.SafeDiv where the zero-guard convention applies.
func (v Int) Div(o Int) Int {
	var r Int
	r.i.Quo(&v.i, &o.i)
	return r
}

func (v Int) Cmp(o Int) int {
	return v.i.Cmp(&o.i)
}

func (v Int) Sign() int {
	return v.i.Sign()
}

func (v Int) IsZero() bool {
	return v.i.Sign() == 0
}

func (v Int) Int64() int64 {
	return v.i.Int64()
}

func (v Int) String() string {
	return v.i.String()
}

// Decimal converts exactly, without precision loss.
func (v Int) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(v.Big(), 0)
}

func (v Int) Value() (driver.Value, error) {
	return v.i.String(), nil
}

func (v *Int) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		v.i.SetInt64(0)
		return nil
	case int64:
		v.i.SetInt64(s)
		return nil
	case []byte:
		return v.setString(string(s))
	case string:
		return v.setString(s)
	default:
		return fmt.Errorf("bigint: cannot scan %T", src)
	}
}

func (v *Int) setString(s string) error {
	if s == "" {
		v.i.SetInt64(0)
		return nil
	}
	if _, ok := v.i.SetString(s, 10); !ok {
		return fmt.Errorf("bigint: invalid integer %q", s)
	}
	return nil
}

func (v Int) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.i.String() + `"`), nil
}

func (v *Int) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		v.i.SetInt64(0)
		return nil
	}
	return v.setString(s)
}
