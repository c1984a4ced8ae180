package entity

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const ProtocolID = "1"

// IDFromBig canonicalises an on-chain numeric id into its decimal key.
func IDFromBig(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return v.String()
}

// ProposalID is the composite key of the proposal a seller made on a service.
func ProposalID(serviceID, sellerID string) string {
	return serviceID + "-" + sellerID
}

// TokenID keys tokens by lower-case hex address.
func TokenID(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
