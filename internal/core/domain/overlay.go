package domain

import "time"

type OverlayID string

// Overlay is the browser-source configuration a creator embeds in their
// streaming software. AccessToken authenticates the overlay WebSocket
// channel, which cannot send headers from inside OBS.
type Overlay struct {
	ID          OverlayID
	StreamerID  UserID
	AccessToken string
	CreatedAt   time.Time
}
