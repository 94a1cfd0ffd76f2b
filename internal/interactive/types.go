// internal/interactive/types.go
package interactive

import (
	"fmt"
	"strings"
)

// SummaryField is one labeled line of a transaction summary.
type SummaryField struct {
	Label string
	Value string
}

// TxSummary describes a transaction awaiting the user's approval.
type TxSummary struct {
	Operation string
	ChainID   string
	Signer    string
	Fields    []SummaryField
	Fee       string
	Gas       uint64
	Memo      string
}

// Lines renders the summary as aligned label/value lines.
func (s TxSummary) Lines() []string {
	fields := make([]SummaryField, 0, len(s.Fields)+5)
	fields = append(fields,
		SummaryField{Label: "Operation", Value: s.Operation},
		SummaryField{Label: "Chain", Value: s.ChainID},
		SummaryField{Label: "Signer", Value: s.Signer},
	)
	fields = append(fields, s.Fields...)
	fields = append(fields,
		SummaryField{Label: "Fee", Value: fmt.Sprintf("%s (gas %d)", s.Fee, s.Gas)},
	)
	if s.Memo != "" {
		fields = append(fields, SummaryField{Label: "Memo", Value: s.Memo})
	}

	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("  %s:%s %s", f.Label, strings.Repeat(" ", width-len(f.Label)), f.Value))
	}
	return lines
}

// ValidatorItem represents a validator for display in promptui.
type ValidatorItem struct {
	Moniker    string
	Operator   string
	Tokens     string // display units
	Commission string // percent
	Jailed     bool
}

// String returns display string for promptui.
func (v ValidatorItem) String() string {
	suffix := ""
	if v.Jailed {
		suffix = " (jailed)"
	}
	return fmt.Sprintf("%s - %s staked, %s commission%s", v.Moniker, v.Tokens, v.Commission, suffix)
}
