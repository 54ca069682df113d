package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const shareKeyPrefix = "invoice_share:"

var ErrShareNotFound = errors.New("share link not found or expired")

// shareTarget is what a share token resolves to.
type shareTarget struct {
	EventID      string `json:"event_id"`
	CustomerName string `json:"customer_name"`
}

// ShareStore hands out opaque tokens that resolve to one customer's
// invoice for a limited time. Tokens live in Redis and expire on their
// own.
type ShareStore struct {
	Client  *redis.Client
	BaseURL string
	TTL     time.Duration
}

func NewShareStore(client *redis.Client, baseURL string, ttl time.Duration) *ShareStore {
	return &ShareStore{Client: client, BaseURL: baseURL, TTL: ttl}
}

// CreateLink mints a share token and returns the public URL for it.
func (s *ShareStore) CreateLink(ctx context.Context, eventID, customerName string) (string, string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(shareTarget{EventID: eventID, CustomerName: customerName})
	if err != nil {
		return "", "", err
	}

	err = s.Client.Set(ctx, shareKeyPrefix+token, payload, s.TTL).Err()
	if err != nil {
		return "", "", fmt.Errorf("failed to store share token: %w", err)
	}

	return token, s.PublicURL(token), nil
}

// Resolve maps a token back to the event and customer it was minted for.
func (s *ShareStore) Resolve(ctx context.Context, token string) (eventID, customerName string, err error) {
	payload, err := s.Client.Get(ctx, shareKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", "", ErrShareNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to look up share token: %w", err)
	}

	var target shareTarget
	if err := json.Unmarshal([]byte(payload), &target); err != nil {
		return "", "", fmt.Errorf("corrupt share token payload: %w", err)
	}
	return target.EventID, target.CustomerName, nil
}

func (s *ShareStore) PublicURL(token string) string {
	return fmt.Sprintf("%s/public/invoices/%s", s.BaseURL, token)
}

// QRCode renders the share URL as a PNG for embedding in the PDF.
func (s *ShareStore) QRCode(token string) ([]byte, error) {
	return qrcode.Encode(s.PublicURL(token), qrcode.Medium, 256)
}
