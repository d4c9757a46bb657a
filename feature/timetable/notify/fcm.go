package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"schedule-api/core/crypt"
	"schedule-api/feature/timetable/models"
)

// DefaultFCMEndpoint is the legacy FCM send endpoint.
const DefaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMNotifier publishes new updates to an FCM topic. The server key is
// stored encrypted at rest and decrypted with the configured secret.
type FCMNotifier struct {
	endpoint string
	key      string
	topic    string
	client   *http.Client
}

// NewFCMNotifier reads and decrypts the server key file.
func NewFCMNotifier(keyFile, secret, topic string) (*FCMNotifier, error) {
	encrypted, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("notify: read key file: %w", err)
	}

	key, err := crypt.Decrypt(secret, encrypted)
	if err != nil {
		return nil, fmt.Errorf("notify: decrypt key file: %w", err)
	}

	return &FCMNotifier{
		endpoint: DefaultFCMEndpoint,
		key:      strings.TrimSpace(string(key)),
		topic:    topic,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type fcmMessage struct {
	To   string         `json:"to"`
	Data map[string]any `json:"data"`
}

func (n *FCMNotifier) Notify(ctx context.Context, update *models.Update) error {
	body, err := json.Marshal(fcmMessage{
		To: "/topics/" + n.topic,
		Data: map[string]any{
			"hash": update.Hash,
			"date": update.Date.Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("notify: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+n.key)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify: fcm returned status %d", resp.StatusCode)
	}
	return nil
}
