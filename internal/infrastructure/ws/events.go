package ws

import "time"

// Event is the envelope every channel payload travels in. Data always
// carries a server-assigned RFC3339 timestamp.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventTipReceived   = "tip_received"
	EventViewerJoined  = "viewer_joined"
	EventViewerLeft    = "viewer_left"
	EventStreamStarted = "stream_started"
	EventStreamEnded   = "stream_ended"
	EventTipAlert      = "tip_event"
)

type TipViewer struct {
	ID            string `json:"id,omitempty"`
	WalletAddress string `json:"walletAddress"`
	DisplayName   string `json:"displayName"`
}

type TipReceivedData struct {
	TipID     string    `json:"tipId"`
	Amount    string    `json:"amount"`
	Viewer    TipViewer `json:"viewer"`
	Timestamp string    `json:"timestamp"`
}

type ViewerCountData struct {
	ViewerID    string `json:"viewerId"`
	ViewerCount int    `json:"viewerCount"`
	Timestamp   string `json:"timestamp"`
}

type StreamerInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type StreamStartedData struct {
	StreamID  string       `json:"streamId"`
	Streamer  StreamerInfo `json:"streamer"`
	Platform  string       `json:"platform"`
	Timestamp string       `json:"timestamp"`
}

type StreamEndedData struct {
	StreamID  string `json:"streamId"`
	Timestamp string `json:"timestamp"`
}

func eventTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
