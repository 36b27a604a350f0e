package payments

import (
	"context"
	"time"
)

// SessionInput carries everything a hosted-checkout provider needs to mint a
// payment session for one booking.
type SessionInput struct {
	InvoiceNo     string
	Amount        int64
	Currency      string
	Description   string
	Quantity      int64
	CustomerEmail string
	Metadata      map[string]string
}

// Session is the provider's answer: where to send the customer and the
// provider-side identifier to reconcile against later.
type Session struct {
	RedirectURL string
	SessionID   string
}

// Provider is a hosted-checkout payment integration. Implementations must
// honour ctx cancellation; callers bound every session creation with a
// timeout and treat expiry as a creation failure.
type Provider interface {
	Name() string
	CreateSession(ctx context.Context, in *SessionInput) (*Session, error)
}

// SessionTimeout bounds the outbound provider call.
const SessionTimeout = 15 * time.Second
