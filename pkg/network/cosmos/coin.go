// pkg/network/cosmos/coin.go
package cosmos

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Coin is a denomination and an integer amount in base units.
// Amount is a base-10 integer string and is never in exponential notation.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// NewCoin creates a Coin after normalizing the amount.
func NewCoin(denom, amount string) (Coin, error) {
	normalized, err := NormalizeAmount(amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Denom: denom, Amount: normalized}, nil
}

// String returns the coin in the sdk "<amount><denom>" form.
func (c Coin) String() string {
	return c.Amount + c.Denom
}

// EncodeCoin encodes a Coin as {1: denom, 2: amount}.
func EncodeCoin(c Coin) []byte {
	var b []byte
	b = appendString(b, 1, c.Denom)
	b = appendString(b, 2, c.Amount)
	return b
}

// NormalizeAmount converts an amount to a plain non-negative base-10 integer string.
// Exponential notation such as "1e+21" or "1.5E18" is expanded exactly; fractional
// results are floored.
func NormalizeAmount(amount string) (string, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return "", fmt.Errorf("%w: amount cannot be empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return "", fmt.Errorf("%w: amount %q is negative", ErrInvalidAmount, amount)
	}
	s = strings.TrimPrefix(s, "+")

	if !strings.ContainsAny(s, "eE.") {
		v, ok := parseInt(s)
		if !ok {
			return "", fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, amount)
		}
		return v.String(), nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, amount)
	}
	if r.Sign() < 0 {
		return "", fmt.Errorf("%w: amount %q is negative", ErrInvalidAmount, amount)
	}
	floored := new(big.Int).Quo(r.Num(), r.Denom())
	if floored.BitLen() > sdkmath.MaxBitLen {
		return "", fmt.Errorf("%w: amount %q overflows", ErrInvalidAmount, amount)
	}
	return sdkmath.NewIntFromBigInt(floored).String(), nil
}

// ToBaseUnits converts a display amount such as "1.5" into base units given the
// number of decimals. More fractional digits than decimals is an error.
func ToBaseUnits(display string, decimals uint32) (string, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return "", fmt.Errorf("%w: amount cannot be empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return "", fmt.Errorf("%w: amount %q is negative", ErrInvalidAmount, display)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if uint32(len(frac)) > decimals {
		return "", fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, display, decimals)
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return "", fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, display)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := parseInt(digits)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, display)
	}
	return v.String(), nil
}

// FormatAmount renders a base unit amount as a display decimal with trailing
// zeros removed, e.g. "1500000000000000000" with 18 decimals is "1.5".
func FormatAmount(base string, decimals uint32) (string, error) {
	v, ok := parseInt(strings.TrimSpace(base))
	if !ok {
		return "", fmt.Errorf("%w: %q is not a base unit amount", ErrInvalidAmount, base)
	}

	digits := v.String()
	d := int(decimals)
	if d == 0 {
		return digits, nil
	}
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-d]
	frac := strings.TrimRight(digits[len(digits)-d:], "0")
	if frac == "" {
		return whole, nil
	}
	return whole + "." + frac, nil
}

// validateAmount checks that s is already a normalized base unit integer.
func validateAmount(s string) error {
	if s == "" || !isDigits(s) {
		return fmt.Errorf("%w: %q is not a base unit integer", ErrInvalidAmount, s)
	}
	return nil
}

// parseInt parses a plain base-10 digit string. sdkmath.NewIntFromString accepts
// base prefixes, which amounts must not.
func parseInt(s string) (sdkmath.Int, bool) {
	if !isDigits(s) {
		return sdkmath.Int{}, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, false
	}
	return sdkmath.NewIntFromBigInt(v), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
