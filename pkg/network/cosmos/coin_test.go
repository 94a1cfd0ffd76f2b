// pkg/network/cosmos/coin_test.go
package cosmos

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestEncodeCoin(t *testing.T) {
	got := EncodeCoin(Coin{Denom: "tics", Amount: "100"})
	expected := []byte{0x0a, 0x04, 't', 'i', 'c', 's', 0x12, 0x03, '1', '0', '0'}
	require.Equal(t, expected, got)

	// encoding is deterministic
	require.Equal(t, got, EncodeCoin(Coin{Denom: "tics", Amount: "100"}))
}

func TestEncodeCoin_MatchesSDK(t *testing.T) {
	coin := sdk.NewCoin("tics", sdkmath.NewInt(6250000000000000))
	expected, err := coin.Marshal()
	require.NoError(t, err)
	require.Equal(t, expected, EncodeCoin(Coin{Denom: "tics", Amount: "6250000000000000"}))
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "plain integer", input: "1000", expected: "1000"},
		{name: "leading zeros", input: "000120", expected: "120"},
		{name: "surrounding whitespace", input: " 42 ", expected: "42"},
		{name: "exponent with plus", input: "1e+21", expected: "1000000000000000000000"},
		{name: "upper case exponent", input: "1.5E18", expected: "1500000000000000000"},
		{name: "fraction floors", input: "12.9", expected: "12"},
		{name: "small exponent floors", input: "1.23e1", expected: "12"},
		{name: "zero", input: "0", expected: "0"},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "negative exponent value", input: "-1e3", wantErr: true},
		{name: "hex is rejected", input: "0x10", wantErr: true},
		{name: "garbage", input: "ten", wantErr: true},
		{name: "overflow", input: "1e100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		display  string
		decimals uint32
		expected string
		wantErr  bool
	}{
		{name: "whole", display: "1", decimals: 18, expected: "1000000000000000000"},
		{name: "fraction", display: "1.5", decimals: 18, expected: "1500000000000000000"},
		{name: "leading dot", display: ".25", decimals: 2, expected: "25"},
		{name: "trailing dot", display: "3.", decimals: 2, expected: "300"},
		{name: "smallest unit", display: "0.000000000000000001", decimals: 18, expected: "1"},
		{name: "no decimals", display: "7", decimals: 0, expected: "7"},
		{name: "too precise", display: "0.0000000000000000001", decimals: 18, wantErr: true},
		{name: "negative", display: "-1", decimals: 18, wantErr: true},
		{name: "exponent", display: "1e3", decimals: 18, wantErr: true},
		{name: "empty", display: "", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.display, tt.decimals)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		base     string
		decimals uint32
		expected string
	}{
		{"1500000000000000000", 18, "1.5"},
		{"1000000000000000000", 18, "1"},
		{"1", 18, "0.000000000000000001"},
		{"0", 18, "0"},
		{"123456", 0, "123456"},
		{"6250000000000000", 18, "0.00625"},
	}

	for _, tt := range tests {
		got, err := FormatAmount(tt.base, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.expected, got, "base %s", tt.base)
	}

	_, err := FormatAmount("1.5", 18)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestToBaseUnits_FormatAmountRoundTrip(t *testing.T) {
	for _, display := range []string{"0.1", "2", "12.345678", "100.000000000000000001"} {
		base, err := ToBaseUnits(display, 18)
		require.NoError(t, err)
		back, err := FormatAmount(base, 18)
		require.NoError(t, err)
		require.Equal(t, display, back)
	}
}
