// cmd/qubestake/format.go
package main

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// baseAmount converts a command line amount into base units. Display units
// are assumed unless base is set.
func (a *app) baseAmount(arg string, base bool) (string, error) {
	if base {
		return cosmos.NormalizeAmount(arg)
	}
	return cosmos.ToBaseUnits(arg, a.cfg.Chain.Decimals)
}

// displayAmount renders base units of the stake denom as "1.5 TICS".
func (a *app) displayAmount(base string) string {
	v, err := cosmos.FormatAmount(base, a.cfg.Chain.Decimals)
	if err != nil {
		return base + a.cfg.Chain.Denom
	}
	return v + " " + a.cfg.Chain.DisplayDenom
}

// displayCoin renders c in display units when it is the stake denom.
func (a *app) displayCoin(c cosmos.Coin) string {
	if c.Denom != a.cfg.Chain.Denom {
		return c.String()
	}
	return a.displayAmount(c.Amount)
}

// displayDecAmount truncates a decimal base unit amount and renders it.
func (a *app) displayDecAmount(amount string) string {
	dec, err := sdkmath.LegacyNewDecFromStr(amount)
	if err != nil {
		return amount + a.cfg.Chain.Denom
	}
	return a.displayAmount(dec.TruncateInt().String())
}

// formatPercent renders a decimal rate such as "0.05" as "5.00%".
func formatPercent(rate string) string {
	dec, err := sdkmath.LegacyNewDecFromStr(rate)
	if err != nil {
		return rate
	}
	bps := dec.MulInt64(10000).TruncateInt64()
	return fmt.Sprintf("%d.%02d%%", bps/100, bps%100)
}
