package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"
)

// NotifyService pushes FCM notifications. Every method is best-effort: a
// failed push is logged and never propagated to the caller's flow.
type NotifyService struct {
	Client *messaging.Client
	DB     *sql.DB
}

const (
	deviceOwnerHelper = "helper"
	deviceOwnerStore  = "store"
)

func (s *NotifyService) RegisterDeviceToken(ctx context.Context, ownerKind string, ownerID int, token string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO device_tokens (owner_kind, owner_id, token)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE token = VALUES(token)`, ownerKind, ownerID, token)
	return err
}

func (s *NotifyService) tokensFor(ctx context.Context, ownerKind string, ownerID int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT token FROM device_tokens WHERE owner_kind = ? AND owner_id = ?`, ownerKind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (s *NotifyService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	_, err := s.Client.Send(ctx, message)
	return err
}

func (s *NotifyService) notify(ctx context.Context, ownerKind string, ownerID int, title, body string, data map[string]string) {
	if s == nil || s.Client == nil {
		return
	}
	tokens, err := s.tokensFor(ctx, ownerKind, ownerID)
	if err != nil {
		log.Printf("notify: fetch device tokens for %s %d: %v", ownerKind, ownerID, err)
		return
	}
	for _, token := range tokens {
		if err := s.send(ctx, token, title, body, data); err != nil {
			log.Printf("notify: send to %s %d: %v", ownerKind, ownerID, err)
		}
	}
}

// PayoutLanded tells a helper their pending commission was paid out.
func (s *NotifyService) PayoutLanded(ctx context.Context, helperID int, amount float64, paymentRef string) {
	s.notify(ctx, deviceOwnerHelper, helperID,
		"Commission paid",
		fmt.Sprintf("₹%.2f has been paid out. Reference: %s", amount, paymentRef),
		map[string]string{"payment_ref": paymentRef})
}

// DesignPublished tells the store owner their new theme is live.
func (s *NotifyService) DesignPublished(ctx context.Context, storeID int, summary string) {
	s.notify(ctx, deviceOwnerStore, storeID, "Theme published", summary, nil)
}
