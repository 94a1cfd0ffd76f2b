// cmd/qubestake/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/altuslabsxyz/qubestake/internal/interactive"
	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", describeError(err))
		return 1
	}
	return 0
}

// describeError adds a hint for the failure classes a user can act on.
func describeError(err error) string {
	var rejected *cosmos.RejectedError
	switch {
	case interactive.IsCancellation(err):
		return "cancelled: " + err.Error()
	case errors.As(err, &rejected):
		return fmt.Sprintf("%v (codespace %q code %d)", err, rejected.Codespace, rejected.Code)
	case errors.Is(err, cosmos.ErrAccountLookupFailed):
		return fmt.Sprintf("%v (is the account funded?)", err)
	default:
		return err.Error()
	}
}
