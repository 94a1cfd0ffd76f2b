// internal/interactive/confirm.go
package interactive

import (
	"context"
	"errors"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// PromptFunc asks for approval of a summary.
type PromptFunc func(w io.Writer, summary TxSummary) (bool, error)

// Confirmer gates signatures behind a user prompt. The summary of the next
// transaction is staged with Stage before the staking call is made.
type Confirmer struct {
	out       io.Writer
	assumeYes bool
	prompt    PromptFunc
	pending   *TxSummary
}

// NewConfirmer creates a Confirmer. With assumeYes every signature is approved.
func NewConfirmer(out io.Writer, assumeYes bool) *Confirmer {
	return &Confirmer{
		out:       out,
		assumeYes: assumeYes,
		prompt:    ConfirmTransaction,
	}
}

// Stage sets the summary shown for the next signature request.
func (c *Confirmer) Stage(summary TxSummary) {
	c.pending = &summary
}

// Confirm has the signature of cosmos.ConfirmFunc.
func (c *Confirmer) Confirm(ctx context.Context, doc network.SignDoc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.assumeYes {
		return nil
	}

	summary := TxSummary{ChainID: doc.ChainID, Operation: "unknown"}
	if c.pending != nil {
		summary = *c.pending
		c.pending = nil
	}

	ok, err := c.prompt(c.out, summary)
	if err != nil {
		return err
	}
	if !ok {
		return &CancellationError{Message: "transaction declined by user"}
	}
	return nil
}

// handleInterruptError converts promptui errors to appropriate error types.
func handleInterruptError(err error) error {
	if err == promptui.ErrInterrupt {
		return &CancellationError{Message: "Operation cancelled"}
	}
	if err == promptui.ErrEOF {
		return &CancellationError{Message: "Operation cancelled (EOF)"}
	}
	return err
}

// CancellationError indicates the user cancelled the operation.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string {
	return e.Message
}

// IsCancellation returns true if err is or wraps a cancellation error.
func IsCancellation(err error) bool {
	var cancelErr *CancellationError
	return errors.As(err, &cancelErr)
}
