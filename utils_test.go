package assetswap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"0.000001", 6, "1"},
		{"100", 6, "100000000"},
		{"0", 18, "0"},
		{"123.456", 3, "123456"},
	}

	for _, tc := range cases {
		got, err := ToBaseUnits(tc.amount, tc.decimals)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got, tc.amount)
	}
}

func TestToBaseUnitsRejectsBadInput(t *testing.T) {
	_, err := ToBaseUnits("abc", 18)
	assert.Error(t, err)

	_, err = ToBaseUnits("-1", 18)
	assert.Error(t, err)

	_, err = ToBaseUnits("1", 19)
	assert.Error(t, err)

	// More precision than the token carries must not be truncated
	// silently.
	_, err = ToBaseUnits("0.0000001", 6)
	assert.Error(t, err)
}

func TestFromBaseUnits(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1000000000000000000", 18, "1"},
		{"1500000000000000000", 18, "1.5"},
		{"1", 6, "0.000001"},
		{"0", 18, "0"},
	}

	for _, tc := range cases {
		got, err := FromBaseUnits(tc.amount, tc.decimals)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got, tc.amount)
	}
}

func TestFromBaseUnitsRejectsBadInput(t *testing.T) {
	_, err := FromBaseUnits("1.5", 18)
	assert.Error(t, err)

	_, err = FromBaseUnits("-1", 18)
	assert.Error(t, err)
}

func TestBaseUnitsRoundtrip(t *testing.T) {
	base, err := ToBaseUnits("123.456789", 18)
	require.NoError(t, err)

	human, err := FromBaseUnits(base, 18)
	require.NoError(t, err)
	assert.Equal(t, "123.456789", human)
}
