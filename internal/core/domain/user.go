package domain

import "time"

type UserID string

type UserRole string

const (
	RoleCreator UserRole = "creator"
	RoleViewer  UserRole = "viewer"
)

// User is an application identity bound to a wallet address. Wallet
// addresses are stored lowercase so chain-event lookups never miss on case.
type User struct {
	ID            UserID
	WalletAddress string
	Role          UserRole
	DisplayName   string
	AvatarURL     string
	Platform      string
	CreatedAt     time.Time
}
