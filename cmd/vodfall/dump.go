package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/vodfall/internal/aggregate"
	"github.com/pders01/vodfall/internal/fetch"
)

var errNoSources = errors.New("no sources selected; run `vodfall sources select <id>...`")

func newDumpCmd(opts *options) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "dump [query]",
		Short: "Run a search without the UI and print items as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) > 0 {
				e.cfg.Search.Query = strings.Join(args, " ")
			}
			if err := e.checkProxy(); err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			session := aggregate.NewSession(e.registry, fetch.NewFetcher(e.cfg),
				aggregate.WithToast(func(msg string) { fmt.Fprintln(errOut, "✗", msg) }))
			return dump(cmd.Context(), session, pages, cmd.OutOrStdout(), errOut)
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Number of rounds to fetch")
	return cmd
}

// dump runs the initial round and up to pages-1 load-more rounds, writing
// every item in arrival order.
func dump(ctx context.Context, session *aggregate.Session, pages int, out, errOut io.Writer) error {
	enc := json.NewEncoder(out)
	write := func(batches []aggregate.Batch) error {
		for _, b := range batches {
			for _, item := range b.Items {
				if err := enc.Encode(item); err != nil {
					return fmt.Errorf("writing item: %w", err)
				}
			}
		}
		return nil
	}

	res := session.LoadInitial(ctx)
	switch res.Status {
	case aggregate.StatusNoSources:
		return errNoSources
	case aggregate.StatusFailed:
		return res.Err
	case aggregate.StatusEmpty:
		fmt.Fprintln(errOut, "No results")
		return nil
	}
	if err := write(res.Batches); err != nil {
		return err
	}

	for round := 1; round < pages; round++ {
		more := session.LoadMore(ctx)
		if more.Status == aggregate.StatusFailed {
			return more.Err
		}
		if err := write(more.Batches); err != nil {
			return err
		}
		if more.Exhausted {
			fmt.Fprintln(errOut, "End of results")
			break
		}
	}
	return nil
}
