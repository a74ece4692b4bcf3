// Package newday talks to the partner platform ("New Day") that shares
// wallet and inventory state with the host platform.
package newday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"allinone-backend/internal/auth"
	"allinone-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUpstreamUnavailable = errors.New("new day platform is unreachable")

type SnapshotItem struct {
	ItemID      string           `json:"item_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category"`
	Rarity      string           `json:"rarity"`
	Stats       models.ItemStats `json:"stats"`
	Quantity    int              `json:"quantity"`
}

// Snapshot is the partner's view of one user's wallet and inventory,
// fetched at the start of every sync pass.
type Snapshot struct {
	Balance float64        `json:"balance"`
	Items   []SnapshotItem `json:"items"`
}

type Client interface {
	// ExchangeToken trades a host session for a partner-platform token.
	ExchangeToken(ctx context.Context, userID int64) (string, error)
	// FetchSnapshot returns the partner's wallet/inventory state for the
	// session behind the partner token.
	FetchSnapshot(ctx context.Context, partnerToken string) (*Snapshot, error)
}

type HTTPClient struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewHTTPClient(baseURL, partnerSecret string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		secret:  partnerSecret,
		client:  &http.Client{Timeout: timeout},
	}
}

// serviceJWT signs the short-lived service credential the partner API
// expects on every platform-to-platform call.
func (c *HTTPClient) serviceJWT(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "allinone",
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

func (c *HTTPClient) ExchangeToken(ctx context.Context, userID int64) (string, error) {
	bridgeToken, err := auth.BridgeToken(userID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{"token": bridgeToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/token/exchange", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if err := c.authorize(req, userID); err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token exchange returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return result.Token, nil
}

func (c *HTTPClient) FetchSnapshot(ctx context.Context, partnerToken string) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/sync/snapshot", nil)
	if err != nil {
		return nil, err
	}
	userID := auth.ParsePartnerToken(partnerToken)
	if err := c.authorize(req, userID); err != nil {
		return nil, err
	}
	req.Header.Set("X-Partner-Token", partnerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return &snapshot, nil
}

func (c *HTTPClient) authorize(req *http.Request, userID int64) error {
	credential, err := c.serviceJWT(userID)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	return nil
}
