// Package push implements the Notification Engine's vendor fan-out:
// FCM if an Android token and server key are present, else APNs if an
// iOS token and key are present, else a mock-accept (§4.2.2).
package push

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/domain"
)

// Dispatcher implements notification.Pusher, trying each vendor in
// priority order.
type Dispatcher struct {
	fcm  *FCMClient
	apns *APNSClient
	cfg  config.PushConfig
}

// NewDispatcher builds a Dispatcher from the service's push config.
func NewDispatcher(cfg config.PushConfig) *Dispatcher {
	return &Dispatcher{
		fcm:  NewFCMClient(cfg.FCMServerKey),
		apns: NewAPNSClient(cfg.APNSKeyID, cfg.APNSTeamID, cfg.APNSBundleID),
		cfg:  cfg,
	}
}

// Push tries FCM first, then APNs, then mock-accepts. A vendor error is
// returned, not logged here; notification.Service logs it and never
// rolls back the notification write, which already happened before
// Push is called.
func (d *Dispatcher) Push(ctx context.Context, pref domain.NotificationPreference, n *domain.Notification) error {
	switch {
	case pref.FCMToken != "" && d.cfg.FCMServerKey != "":
		if err := d.fcm.Send(ctx, pref.FCMToken, n); err != nil {
			return fmt.Errorf("fcm send: %w", err)
		}
		return nil

	case pref.APNSToken != "" && d.cfg.APNSKeyID != "":
		if err := d.apns.Send(ctx, pref.APNSToken, n); err != nil {
			return fmt.Errorf("apns send: %w", err)
		}
		return nil

	default:
		log.Debug().Str("user_id", pref.UserID).Str("notification_id", n.ID.String()).
			Msg("[MOCK] push accepted, no vendor token/credential configured")
		return nil
	}
}
