// internal/interactive/prompt.go
package interactive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// IsInteractive returns true when stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfirmTransaction prints the summary to w and asks whether to sign it.
func ConfirmTransaction(w io.Writer, summary TxSummary) (bool, error) {
	fmt.Fprintf(w, "\nTransaction to sign:\n")
	for _, line := range summary.Lines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	prompt := promptui.Prompt{
		Label:     "Sign and broadcast",
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, handleInterruptError(err)
	}

	return true, nil
}

// SelectValidator prompts the user to pick a validator and returns its operator address.
func SelectValidator(items []ValidatorItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no validators available")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Moniker | cyan }} - {{ .Tokens }} staked, {{ .Commission | faint }} commission",
		Inactive: "  {{ .Moniker }} - {{ .Tokens }} staked, {{ .Commission | faint }} commission",
		Selected: "✓ {{ .Moniker | green }} selected",
		Details:  "Operator: {{ .Operator }}",
	}

	prompt := promptui.Select{
		Label:     "Select validator",
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index].Moniker), strings.ToLower(input))
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}

	return items[index].Operator, nil
}

// PromptPrivateKey reads a hex private key with hidden input.
func PromptPrivateKey(w io.Writer) (string, error) {
	if !IsInteractive() {
		return "", fmt.Errorf("no private key configured and stdin is not a terminal")
	}
	fmt.Fprint(w, "Enter private key (hex): ")
	byteValue, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w) // Print newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	value := strings.TrimSpace(string(byteValue))
	if value == "" {
		return "", fmt.Errorf("private key cannot be empty")
	}
	return value, nil
}
