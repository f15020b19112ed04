package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// EntityIDRegex validates user/stream/overlay id format
	EntityIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// WalletAddressRegex validates a 0x-prefixed 20-byte hex address
	WalletAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ValidateEntityID validates a channel key (creator id or stream id).
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > 100 {
		return fmt.Errorf("id is too long (max 100 characters)")
	}
	if !EntityIDRegex.MatchString(id) {
		return fmt.Errorf("invalid id format")
	}
	return nil
}

// ValidateWalletAddress validates an Ethereum address string.
func ValidateWalletAddress(address string) error {
	if address == "" {
		return fmt.Errorf("wallet address is required")
	}
	if !WalletAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid wallet address format")
	}
	return nil
}

// NormalizeWalletAddress lowercases an address for storage and lookup.
func NormalizeWalletAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
