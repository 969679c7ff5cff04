package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/juristmind/newsroom/pkg/news/client"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the published list and refresh it periodically",
		Long: `watch keeps a live feed of the published list. It prints the list once it
has loaded and again after every refresh, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			feed := client.NewFeed(c)
			states, unsubscribe := feed.Subscribe()
			defer unsubscribe()
			feed.Start(ctx)

			var tick <-chan time.Time
			if !once && interval > 0 {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				tick = ticker.C
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
					go func() { _ = feed.Load(ctx) }()
				case state := <-states:
					switch state.Status {
					case client.StatusReady:
						if err := printState(cmd, state); err != nil {
							return err
						}
					case client.StatusErrored:
						if once {
							return fmt.Errorf("watch failed: %w", errors.New(state.Err))
						}
						fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %s\n", state.Err)
					default:
						continue
					}
					if once {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "refresh interval")
	cmd.Flags().BoolVar(&once, "once", false, "exit after the first load")

	return cmd
}

func printState(cmd *cobra.Command, state client.State) error {
	if useJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), state.Items)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", time.Now().Format(time.Kitchen))
	return writeItemTable(cmd.OutOrStdout(), state.Items)
}
