package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
)

const tipSentABI = `[{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"from","type":"address"},{"indexed":true,"internalType":"address","name":"to","type":"address"},{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},{"indexed":false,"internalType":"bytes32","name":"sessionId","type":"bytes32"}],"name":"TipSent","type":"event"}]`

// TipSentTopic is the topic hash every TipSent log carries in topics[0].
var TipSentTopic = crypto.Keccak256Hash([]byte("TipSent(address,address,uint256,bytes32)"))

var tipSentParsedABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(tipSentABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

type tipSentData struct {
	Amount    *big.Int
	SessionId [32]byte
}

// DecodeTipSent turns a raw contract log into a TipSentEvent. The
// indexed sender and recipient addresses live in topics; amount and
// session id are unpacked from the data segment. Addresses come out
// lowercased so wallet lookups stay case-insensitive.
func DecodeTipSent(log types.Log) (*domain.TipSentEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("tip log has %d topics, want 3", len(log.Topics))
	}
	if log.Topics[0] != TipSentTopic {
		return nil, fmt.Errorf("unexpected event topic %s", log.Topics[0].Hex())
	}

	var data tipSentData
	if err := tipSentParsedABI.UnpackIntoInterface(&data, "TipSent", log.Data); err != nil {
		return nil, fmt.Errorf("unpack TipSent data: %w", err)
	}

	return &domain.TipSentEvent{
		From:        strings.ToLower(common.HexToAddress(log.Topics[1].Hex()).Hex()),
		To:          strings.ToLower(common.HexToAddress(log.Topics[2].Hex()).Hex()),
		Amount:      data.Amount,
		SessionID:   hexutil.Encode(data.SessionId[:]),
		TxHash:      log.TxHash.Hex(),
		BlockNumber: log.BlockNumber,
	}, nil
}
