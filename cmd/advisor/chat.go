package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-startup-advisor/internal/app"
	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/services"
)

const chatHelp = `Commands:
  /mode [name]     show or switch the expert mode
  /reset           clear the chat and start the intake again
  /good [comment]  the advice was helpful
  /bad [comment]   the advice was not helpful
  /quit            leave`

func (c *cli) chatCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the advisor in this terminal",
		Long: `chat runs the intake questions and then answers one message per line.

` + chatHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.openDB(c.cfg.DBPath)
			if err != nil {
				return err
			}
			a := app.New(c.cfg, db, app.NewClient(c.cfg.OpenAI))
			return runChat(cmd.Context(), a, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session instead of starting a new one")
	return cmd
}

// runChat drives one session from in until EOF or /quit. Every non-command
// line is one submitted message.
func runChat(ctx context.Context, a *app.App, sessionID string, in io.Reader, out io.Writer) error {
	var (
		sess *domain.Session
		err  error
	)
	if sessionID == "" {
		sess, err = a.Sessions.Create(ctx)
	} else {
		sess, err = a.Sessions.Get(ctx, sessionID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, hintStyle.Render("session "+sess.ID+" · mode "+sess.ExpertMode+" · /help for commands"))
	if q := services.NextQuestion(sess); q != "" {
		fmt.Fprintln(out, questionStyle.Render(q))
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(ctx, a, sess.ID, line, out)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		turn, err := a.Sessions.Submit(ctx, sess.ID, line, "")
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(describe(err, a.Sessions.MaxMessageRunes)))
			continue
		}
		if turn.Failed {
			fmt.Fprintln(out, errorStyle.Render(turn.Reply))
		} else {
			fmt.Fprintln(out, advisorStyle.Render("advisor")+" "+turn.Reply)
		}
		if turn.FeedbackDue {
			fmt.Fprintln(out, hintStyle.Render("Was this helpful? /good or /bad <comment>"))
		}
	}
}

// chatCommand runs one slash command. quit reports whether the loop should
// end.
func chatCommand(ctx context.Context, a *app.App, id, line string, out io.Writer) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Fprintln(out, hintStyle.Render(chatHelp))

	case "/reset":
		sess, err := a.Sessions.Reset(ctx, id)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, hintStyle.Render("chat cleared"))
		fmt.Fprintln(out, questionStyle.Render(services.NextQuestion(sess)))

	case "/mode":
		if arg == "" {
			for _, m := range domain.ExpertModes {
				fmt.Fprintln(out, labelStyle.Render(m.Name)+"  "+hintStyle.Render(m.Behavior))
			}
			return false, nil
		}
		sess, err := a.Sessions.SelectMode(ctx, id, arg)
		if err != nil {
			return false, errors.New(describe(err, 0))
		}
		fmt.Fprintln(out, hintStyle.Render("mode: "+sess.ExpertMode))

	case "/good", "/bad":
		if err := a.Reviews.Submit(ctx, id, name == "/good", arg); err != nil {
			return false, errors.New(describe(err, 0))
		}
		fmt.Fprintln(out, hintStyle.Render("thanks for the feedback"))

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

// describe turns service errors into terminal messages.
func describe(err error, maxRunes int) string {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		return "message is empty"
	case errors.Is(err, services.ErrTooLong):
		return fmt.Sprintf("message too long: max %d characters", maxRunes)
	case errors.Is(err, services.ErrUnknownMode):
		names := make([]string, 0, len(domain.ExpertModes))
		for _, m := range domain.ExpertModes {
			names = append(names, m.Name)
		}
		return "unknown mode; choose one of: " + strings.Join(names, ", ")
	case errors.Is(err, services.ErrFeedbackNotDue):
		return "feedback opens after a few questions to the advisor"
	case errors.Is(err, services.ErrDuplicateFeedback):
		return "feedback already submitted for this chat"
	default:
		return err.Error()
	}
}
