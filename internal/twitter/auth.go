// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"
)

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// bearer returns the app-only token, exchanging the consumer credentials for
// one the first time it is needed.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	u := c.base.JoinPath("/oauth2/token")
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(url.QueryEscape(c.consumerKey), url.QueryEscape(c.consumerSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to obtain bearer token: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to decode bearer token: %w", err)
	}
	if !strings.EqualFold(tr.TokenType, "bearer") || tr.AccessToken == "" {
		return "", fmt.Errorf("unexpected token type %q", tr.TokenType)
	}

	log.Debug("obtained app-only bearer token")
	c.token = tr.AccessToken
	return c.token, nil
}
