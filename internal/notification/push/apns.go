package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arda-labs/social-derivation/internal/domain"
)

const apnsEndpointFmt = "https://api.push.apple.com/3/device/%s"

// APNSClient sends push notifications to the Apple Push Notification
// service endpoint. Requests carry only the apns-topic and Content-Type
// headers: no provider authentication token is attached, and keyID and
// teamID are stored but not used by Send.
type APNSClient struct {
	keyID      string
	teamID     string
	bundleID   string
	httpClient *http.Client
}

// NewAPNSClient creates an APNSClient. An empty keyID means the vendor
// is not configured; callers gate on this before calling Send.
func NewAPNSClient(keyID, teamID, bundleID string) *APNSClient {
	return &APNSClient{
		keyID:      keyID,
		teamID:     teamID,
		bundleID:   bundleID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type apnsPayload struct {
	APS apnsAlert `json:"aps"`
}

type apnsAlert struct {
	Alert struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"alert"`
}

// Send pushes a single notification to an iOS device token using the
// plain http.Client built by NewAPNSClient, which adds no
// authentication to the request.
func (c *APNSClient) Send(ctx context.Context, token string, n *domain.Notification) error {
	var payload apnsPayload
	payload.APS.Alert.Title = n.Title
	payload.APS.Alert.Body = n.Body

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal apns payload: %w", err)
	}

	url := fmt.Sprintf(apnsEndpointFmt, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build apns request: %w", err)
	}
	req.Header.Set("apns-topic", c.bundleID)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apns request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("apns send failed: status %d", res.StatusCode)
	}
	return nil
}
