// Package services – Advisor
//
// Advisor is the conversation context assembler. For a session whose intake
// is complete it builds one instruction message (expert mode, behavior and
// the product context with human-readable keys), prepends it to the full
// history and asks the completion service for a reply.
//
// Failures never reach the caller: they are turned into an inline
// "⚠️ Error: ..." reply so the session stays usable.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/llm"
)

// ErrorReplyPrefix starts every reply produced from a failed completion.
const ErrorReplyPrefix = "⚠️ Error: "

// errNoClient is reported in the placeholder when no completion client is
// configured.
var errNoClient = errors.New("completion service is not configured")

// Advisor assembles completion requests and calls the completion service.
type Advisor struct {
	Client      llm.Client
	Model       string
	Temperature float64

	// Locale drives key humanization; English when unset.
	Locale language.Tag
}

// HumanizeKey turns a context key such as "target_user" into "Target User"
// using the advisor's locale.
func (a *Advisor) HumanizeKey(key string) string {
	return humanizeKey(a.Locale, key)
}

// HumanizeKey is Advisor.HumanizeKey with English casing rules.
func HumanizeKey(key string) string { return humanizeKey(language.English, key) }

func humanizeKey(loc language.Tag, key string) string {
	if loc == language.Und {
		loc = language.English
	}
	return cases.Title(loc).String(strings.ReplaceAll(key, "_", " "))
}

// Instruction renders the instruction message for mode and the product
// context. Context lines follow question order; unanswered keys are left
// out.
func (a *Advisor) Instruction(mode domain.ExpertMode, productContext map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Expert mode: %s\nBehavior: %s\n\nProduct context:\n", mode.Name, mode.Behavior)

	lines := make([]string, 0, len(domain.Questions))
	for _, q := range domain.Questions {
		v, ok := productContext[q.Key]
		if !ok {
			continue
		}
		lines = append(lines, a.HumanizeKey(q.Key)+": "+v)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// Messages returns the outbound message sequence: the instruction followed
// by the whole history, persona included.
func (a *Advisor) Messages(mode domain.ExpertMode, s *domain.Session) []domain.Message {
	out := make([]domain.Message, 0, len(s.Messages)+1)
	out = append(out, domain.Message{Role: domain.RoleSystem, Content: a.Instruction(mode, s.ProductContext)})
	out = append(out, s.Messages...)
	return out
}

// Reply asks the completion service for the next assistant message. It
// always returns a reply; ok is false when the reply is the error
// placeholder.
func (a *Advisor) Reply(ctx context.Context, mode domain.ExpertMode, s *domain.Session) (reply string, ok bool) {
	tr := otel.Tracer("services/Advisor")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.String("advisor.mode", mode.Name),
			attribute.String("llm.model", a.Model),
			attribute.Int("history.len", len(s.Messages)),
		),
	)
	defer span.End()

	var err error
	if a.Client == nil {
		err = errNoClient
	} else {
		reply, err = complete(ctx, a.Client, llm.Request{
			Model:       a.Model,
			Temperature: a.Temperature,
			Messages:    a.Messages(mode, s),
		})
	}
	if err != nil {
		completionFailures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		loggerFrom(ctx).Warn().Err(err).Str("session_id", s.ID).Str("mode", mode.Name).Msg("completion failed")
		return ErrorReplyPrefix + err.Error(), false
	}
	return reply, true
}

// complete calls c and turns a panic inside it into an error so the turn
// still ends with the placeholder reply.
func complete(ctx context.Context, c llm.Client, req llm.Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = "", fmt.Errorf("completion client panicked: %v", r)
		}
	}()
	return c.Complete(ctx, req)
}
