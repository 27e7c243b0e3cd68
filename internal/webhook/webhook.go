// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package webhook verifies and decodes signed user events sent by the
// identity provider. Deliveries are signed with the Svix scheme.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"

	tolerance = 5 * time.Minute
)

var (
	ErrMissingHeaders = errors.New("missing webhook headers")
	ErrTimestamp      = errors.New("webhook timestamp outside tolerance")
	ErrSignature      = errors.New("no matching webhook signature")
)

// Verifier checks webhook signatures with a shared secret.
type Verifier struct {
	wh  *svix.Webhook
	now func() time.Time
}

// NewVerifier accepts a "whsec_"-prefixed base64 secret, or the bare
// base64 part.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimPrefix(secret, "whsec_") == "" {
		return nil, errors.New("webhook secret is empty")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("decoding webhook secret: %w", err)
	}
	return &Verifier{wh: wh, now: time.Now}, nil
}

// Verify returns nil when body carries a valid signature for headers.
// The timestamp window is checked here against v.now so it can be pinned.
func (v *Verifier) Verify(h http.Header, body []byte) error {
	ts := h.Get(HeaderTimestamp)
	if h.Get(HeaderID) == "" || ts == "" || h.Get(HeaderSignature) == "" {
		return ErrMissingHeaders
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrTimestamp
	}
	sent := time.Unix(sec, 0)
	now := v.now()
	if sent.Before(now.Add(-tolerance)) || sent.After(now.Add(tolerance)) {
		return ErrTimestamp
	}

	if err := v.wh.VerifyIgnoringTimestamp(body, h); err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return nil
}

// Sign returns the header value a sender would attach for body.
func (v *Verifier) Sign(id string, at time.Time, body []byte) (string, error) {
	sig, err := v.wh.Sign(id, at, body)
	if err != nil {
		return "", fmt.Errorf("signing webhook: %w", err)
	}
	return sig, nil
}

// Event types handled by the user sync endpoint.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the envelope of every webhook payload.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UserData is the subset of the provider's user object the store needs.
type UserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// Email returns the first email address, or "".
func (u *UserData) Email() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// FullName joins first and last name.
func (u *UserData) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ParseEvent decodes the envelope of a verified body.
func ParseEvent(body []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("decoding webhook event: %w", err)
	}
	if e.Type == "" {
		return nil, errors.New("webhook event has no type")
	}
	return &e, nil
}

// User decodes the event data as a user object.
func (e *Event) User() (*UserData, error) {
	var u UserData
	if err := json.Unmarshal(e.Data, &u); err != nil {
		return nil, fmt.Errorf("decoding webhook user: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("webhook user has no id")
	}
	return &u, nil
}
