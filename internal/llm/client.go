// Package llm adapts third-party completion services to the narrow contract
// the advisor needs: a model identifier, a temperature and an ordered
// message sequence go in; response text (or an error) comes out.
package llm

import (
	"context"
	"errors"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// ErrEmptyResponse is returned when the service answers without any choices.
var ErrEmptyResponse = errors.New("completion service returned no choices")

// Request is a single completion call.
type Request struct {
	Model       string
	Temperature float64
	Messages    []domain.Message
}

// Client produces a reply for a request. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }
