package domain

import "time"

type StreamID string

type Stream struct {
	ID         StreamID
	StreamerID UserID
	Title      string
	Platform   string
	IsLive     bool
	StartedAt  time.Time
	EndedAt    *time.Time
}
