package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("ValidAmounts", func(t *testing.T) {
		for _, input := range []string{"0", "0.00", "10", "10.5", "10.50", "2500.99", "0.01"} {
			m, err := Parse(input)
			require.NoError(t, err, "input %q should parse", input)
			assert.False(t, m.IsNegative())
		}
	})

	t.Run("MalformedInput", func(t *testing.T) {
		for _, input := range []string{"", "abc", "10,50", "1.2.3", "--5", "1e"} {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q should be rejected", input)
		}
	})

	t.Run("NegativeRejected", func(t *testing.T) {
		_, err := Parse("-10.00")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("ExcessPrecisionRejected", func(t *testing.T) {
		_, err := Parse("10.005")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("TrailingZerosBeyondScaleAccepted", func(t *testing.T) {
		m, err := Parse("10.5000")
		require.NoError(t, err)
		assert.Equal(t, "10.50", m.String())
	})
}

func TestArithmetic(t *testing.T) {
	a := MustParse("100.00")
	b := MustParse("40.25")

	assert.Equal(t, "140.25", a.Add(b).String())
	assert.Equal(t, "59.75", a.Sub(b).String())
	assert.Equal(t, "-40.25", b.Neg().String())

	// Exactness: repeated cent-level additions must not drift
	sum := Zero()
	cent := MustParse("0.01")
	for i := 0; i < 100; i++ {
		sum = sum.Add(cent)
	}
	assert.True(t, sum.Equal(MustParse("1.00")))
}

func TestComparisons(t *testing.T) {
	a := MustParse("50.00")
	b := MustParse("30.00")

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustParse("50")))

	assert.True(t, a.GreaterOrEqual(b))
	assert.True(t, a.GreaterOrEqual(MustParse("50.00")))
	assert.False(t, b.GreaterOrEqual(a))

	assert.True(t, a.IsPositive())
	assert.False(t, Zero().IsPositive())
	assert.True(t, Zero().IsZero())
	assert.True(t, b.Neg().IsNegative())
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: MustParse("12.30")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.30"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"-12.30"}`), &in))
	assert.Equal(t, "-12.30", in.Amount.String())
}
