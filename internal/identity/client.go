// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// Client implements MetadataUpdater with the identity provider's Backend
// API SDK.
type Client struct {
	users *user.Client
}

// NewClient creates a provider client. baseURL defaults to the provider's
// public API when empty.
func NewClient(baseURL, secretKey string) *Client {
	config := &clerk.ClientConfig{}
	config.Key = clerk.String(secretKey)
	if baseURL != "" {
		config.URL = clerk.String(strings.TrimRight(baseURL, "/"))
	}
	config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	return &Client{users: user.NewClient(config)}
}

type roleMetadata struct {
	Role Role `json:"role"`
}

// UpdateRole stores role in the user's private metadata on the provider.
func (c *Client) UpdateRole(ctx context.Context, userID string, role Role) error {
	payload, err := json.Marshal(roleMetadata{Role: role})
	if err != nil {
		return fmt.Errorf("identity marshal: %w", err)
	}
	raw := json.RawMessage(payload)

	_, err = c.users.UpdateMetadata(ctx, userID, &user.UpdateMetadataParams{PrivateMetadata: &raw})
	if err != nil {
		var apiErr *clerk.APIErrorResponse
		if errors.As(err, &apiErr) {
			return fmt.Errorf("identity API error (status %d): %w", apiErr.HTTPStatusCode, err)
		}
		return fmt.Errorf("identity update role: %w", err)
	}
	return nil
}
