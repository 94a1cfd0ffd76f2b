// internal/interactive/confirm_test.go
package interactive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/qubestake/pkg/network"
	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

func TestTxSummaryLines(t *testing.T) {
	summary := TxSummary{
		Operation: "delegate",
		ChainID:   "qubetics_9030-1",
		Signer:    "qubetics1abc",
		Fields: []SummaryField{
			{Label: "Validator", Value: "qubeticsvaloper1xyz"},
			{Label: "Amount", Value: "1 TICS"},
		},
		Fee:  "0.00625 TICS",
		Gas:  250000,
		Memo: "hello",
	}

	require.Equal(t, []string{
		"  Operation: delegate",
		"  Chain:     qubetics_9030-1",
		"  Signer:    qubetics1abc",
		"  Validator: qubeticsvaloper1xyz",
		"  Amount:    1 TICS",
		"  Fee:       0.00625 TICS (gas 250000)",
		"  Memo:      hello",
	}, summary.Lines())
}

func TestTxSummaryLines_NoMemo(t *testing.T) {
	lines := TxSummary{Operation: "claim", Fee: "1tics", Gas: 1}.Lines()
	require.Len(t, lines, 4)
}

func TestValidatorItemString(t *testing.T) {
	item := ValidatorItem{Moniker: "alpha", Tokens: "1,000 TICS", Commission: "5%"}
	require.Equal(t, "alpha - 1,000 TICS staked, 5% commission", item.String())

	item.Jailed = true
	require.Equal(t, "alpha - 1,000 TICS staked, 5% commission (jailed)", item.String())
}

func newTestConfirmer(answer bool, err error) (*Confirmer, *[]TxSummary) {
	var seen []TxSummary
	c := NewConfirmer(io.Discard, false)
	c.prompt = func(_ io.Writer, s TxSummary) (bool, error) {
		seen = append(seen, s)
		return answer, err
	}
	return c, &seen
}

func TestConfirmer_StagedSummaryIsConsumed(t *testing.T) {
	c, seen := newTestConfirmer(true, nil)
	doc := network.SignDoc{ChainID: "qubetics_9030-1"}

	c.Stage(TxSummary{Operation: "delegate"})
	require.NoError(t, c.Confirm(context.Background(), doc))
	require.NoError(t, c.Confirm(context.Background(), doc))

	require.Len(t, *seen, 2)
	require.Equal(t, "delegate", (*seen)[0].Operation)
	require.Equal(t, "unknown", (*seen)[1].Operation)
	require.Equal(t, "qubetics_9030-1", (*seen)[1].ChainID)
}

func TestConfirmer_Declined(t *testing.T) {
	c, _ := newTestConfirmer(false, nil)

	err := c.Confirm(context.Background(), network.SignDoc{})
	require.Error(t, err)
	require.True(t, IsCancellation(err))
	require.True(t, IsCancellation(fmt.Errorf("%w: %w", cosmos.ErrSigningRejected, err)))
}

func TestConfirmer_PromptError(t *testing.T) {
	c, _ := newTestConfirmer(false, handleInterruptError(promptui.ErrInterrupt))

	err := c.Confirm(context.Background(), network.SignDoc{})
	require.True(t, IsCancellation(err))
}

func TestConfirmer_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	c := NewConfirmer(&out, true)
	c.prompt = func(io.Writer, TxSummary) (bool, error) {
		t.Fatal("prompt must not run with assumeYes")
		return false, nil
	}

	require.NoError(t, c.Confirm(context.Background(), network.SignDoc{}))
	require.Empty(t, out.String())
}

func TestConfirmer_CancelledContext(t *testing.T) {
	c, seen := newTestConfirmer(true, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.Confirm(ctx, network.SignDoc{}), context.Canceled)
	require.Empty(t, *seen)
}

func TestConfirmer_AsConfirmFunc(t *testing.T) {
	c, _ := newTestConfirmer(true, nil)
	var fn cosmos.ConfirmFunc = c.Confirm
	require.NoError(t, fn(context.Background(), network.SignDoc{}))
}

func TestHandleInterruptError(t *testing.T) {
	require.True(t, IsCancellation(handleInterruptError(promptui.ErrInterrupt)))
	require.True(t, IsCancellation(handleInterruptError(promptui.ErrEOF)))

	other := fmt.Errorf("boom")
	require.Equal(t, other, handleInterruptError(other))
	require.False(t, IsCancellation(other))
}
