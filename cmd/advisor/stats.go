package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-startup-advisor/internal/app"
	"github.com/tbourn/go-startup-advisor/internal/services"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show feedback entries and messages sent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.openDB(c.cfg.DBPath)
			if err != nil {
				return err
			}
			st, err := app.New(c.cfg, db, nil).Stats.Get(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

// printStats renders the counters; a log that does not exist yet reads as
// "no data".
func printStats(w io.Writer, st *services.Stats) {
	row := func(label string, n int, exists bool) {
		v := countStyle.Render(fmt.Sprint(n))
		if !exists {
			v = hintStyle.Render("no data")
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), v)
	}
	row("Feedback entries", st.FeedbackEntries, st.HasFeedback)
	row("Messages sent", st.MessagesSent, st.HasAnalytics)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Sessions:"), countStyle.Render(fmt.Sprint(st.Sessions)))
}
