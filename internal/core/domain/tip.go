package domain

import "time"

type TipID string

type TipMode string

const (
	TipModeLive    TipMode = "live"
	TipModeOffline TipMode = "offline"
)

// Tip is the durable record of an on-chain payment after identity
// resolution. StreamID is set only when the creator had a live stream at
// event time; the creator id is always the association anchor.
type Tip struct {
	ID        TipID
	CreatorID UserID
	ViewerID  UserID
	StreamID  StreamID // empty for offline tips
	Amount    string   // display units (ETH), decimal string
	TxHash    string
	Mode      TipMode
	CreatedAt time.Time
}
