package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/repo"
)

func (c *cli) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered accounts (identifiers only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := repo.NewUserStore(c.cfg.UsersFile).List()
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

// printUsers lists identifiers with their creation time. Digests are never
// printed.
func printUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, hintStyle.Render("no accounts yet"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tCREATED")
	for _, u := range users {
		created := "-"
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\n", u.Identifier, created)
	}
	tw.Flush()
	fmt.Fprintln(w, countStyle.Render(fmt.Sprint(len(users)))+" account(s)")
}
