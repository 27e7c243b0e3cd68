// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/identity"
	"storefront/internal/models"
	"storefront/internal/webhook"
)

// maxWebhookBody bounds the size of a provider event.
const maxWebhookBody = 1 << 20

// UserSync is the user persistence the identity webhook writes to.
type UserSync interface {
	UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// Webhook receives signed user events from the identity provider.
type Webhook struct {
	verifier *webhook.Verifier
	users    UserSync
	metadata identity.MetadataUpdater
}

// NewWebhook creates the webhook handler.
func NewWebhook(verifier *webhook.Verifier, users UserSync, metadata identity.MetadataUpdater) *Webhook {
	return &Webhook{verifier: verifier, users: users, metadata: metadata}
}

// Receive verifies and applies one event. Unverifiable requests get 400
// and change nothing.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(r.Header, body); err != nil {
		slog.Warn("webhook verification failed", "error", err)
		http.Error(w, "Error verifying webhook", http.StatusBadRequest)
		return
	}

	evt, err := webhook.ParseEvent(body)
	if err != nil {
		http.Error(w, "Error decoding webhook", http.StatusBadRequest)
		return
	}

	switch evt.Type {
	case webhook.EventUserCreated, webhook.EventUserUpdated:
		err = h.syncUser(r.Context(), evt)
	case webhook.EventUserDeleted:
		err = h.deleteUser(r.Context(), evt)
	default:
		slog.Debug("ignoring webhook event", "type", evt.Type)
	}
	if err != nil {
		fail(w, err, "webhook handling failed", "type", evt.Type)
		return
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "Webhook received")
}

// syncUser upserts the account by email and pushes the stored role back to
// the provider so its session claims match.
func (h *Webhook) syncUser(ctx context.Context, evt *webhook.Event) error {
	data, err := evt.User()
	if err != nil {
		return apperr.Invalid("data", err.Error())
	}
	if data.Email() == "" {
		return apperr.Invalid("email_addresses", "user has no email address")
	}

	saved, err := h.users.UpsertByEmail(ctx, &models.User{
		ID:      data.ID,
		Email:   data.Email(),
		Name:    data.FullName(),
		Picture: data.ImageURL,
	})
	if err != nil {
		return err
	}

	if err := h.metadata.UpdateRole(ctx, data.ID, saved.Role); err != nil {
		return err
	}
	slog.Info("user synced from identity provider", "user_id", saved.ID, "event", evt.Type, "role", saved.Role)
	return nil
}

func (h *Webhook) deleteUser(ctx context.Context, evt *webhook.Event) error {
	data, err := evt.User()
	if err != nil {
		return apperr.Invalid("data", err.Error())
	}
	if err := h.users.Delete(ctx, data.ID); err != nil {
		return err
	}
	slog.Info("user deleted by identity provider", "user_id", data.ID)
	return nil
}
