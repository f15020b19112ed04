package domain

import (
	"math/big"
	"strings"
)

// TipSentEvent is a decoded TipSent contract log, normalized before
// identity resolution. Addresses are lowercase hex, Amount is the raw
// value in wei.
type TipSentEvent struct {
	From        string
	To          string
	Amount      *big.Int
	SessionID   string
	TxHash      string
	BlockNumber uint64
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatEther converts a wei amount to an ETH decimal string. The result
// always carries at least one fractional digit ("1.0", "0.05", "1.5").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	sign := ""
	abs := new(big.Int).Abs(wei)
	if wei.Sign() < 0 {
		sign = "-"
	}

	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))
	fracStr := strings.TrimRight(frac.Add(frac, weiPerEther).String()[1:], "0")
	if fracStr == "" {
		fracStr = "0"
	}

	return sign + whole.String() + "." + fracStr
}
