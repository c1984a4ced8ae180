package mapping

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Service registry.

type ServiceCreated struct {
	ID          *big.Int `abi:"id"`
	BuyerID     *big.Int `abi:"buyerId"`
	SellerID    *big.Int `abi:"sellerId"`
	InitiatorID *big.Int `abi:"initiatorId"`
	PlatformID  *big.Int `abi:"platformId"`
}

type ServiceDataCreated struct {
	ID             *big.Int `abi:"id"`
	ServiceDataURI string   `abi:"serviceDataUri"`
}

type ServiceDetailedUpdated struct {
	ID                *big.Int `abi:"id"`
	NewServiceDataURI string   `abi:"newServiceDataUri"`
}

type ServiceCancelled struct {
	ID *big.Int `abi:"id"`
}

type ProposalCreated struct {
	ServiceID       *big.Int       `abi:"serviceId"`
	SellerID        *big.Int       `abi:"sellerId"`
	ProposalDataURI string         `abi:"proposalDataUri"`
	RateToken       common.Address `abi:"rateToken"`
	RateAmount      uint256.Int    `abi:"rateAmount"`
}

type ProposalRejected struct {
	ServiceID *big.Int `abi:"serviceId"`
	SellerID  *big.Int `abi:"sellerId"`
}

type ProposalUpdated struct {
	ServiceID       *big.Int       `abi:"serviceId"`
	SellerID        *big.Int       `abi:"sellerId"`
	ProposalDataURI string         `abi:"proposalDataUri"`
	RateToken       common.Address `abi:"rateToken"`
	RateAmount      uint256.Int    `abi:"rateAmount"`
}

// Identity contracts.

type PlatformMint struct {
	Owner   common.Address `abi:"_platformOwnerAddress"`
	TokenID *big.Int       `abi:"_tokenId"`
	Name    string         `abi:"_platformName"`
	Fee     uint256.Int    `abi:"_fee"`
}

type UserMint struct {
	User    common.Address `abi:"_user"`
	TokenID *big.Int       `abi:"_tokenId"`
	Handle  string         `abi:"_handle"`
}

type CidUpdated struct {
	TokenID *big.Int `abi:"_tokenId"`
	NewCid  string   `abi:"_newCid"`
}

type MintFeeUpdated struct {
	MintFee uint256.Int `abi:"_mintFee"`
}

type Transfer struct {
	From    common.Address `abi:"from"`
	To      common.Address `abi:"to"`
	TokenID *big.Int       `abi:"tokenId"`
}

type Approval struct {
	Owner    common.Address `abi:"owner"`
	Approved common.Address `abi:"approved"`
	TokenID  *big.Int       `abi:"tokenId"`
}

type ApprovalForAll struct {
	Owner    common.Address `abi:"owner"`
	Operator common.Address `abi:"operator"`
	Approved bool           `abi:"approved"`
}

type ConsecutiveTransfer struct {
	FromTokenID *big.Int       `abi:"fromTokenId"`
	ToTokenID   *big.Int       `abi:"toTokenId"`
	FromAddress common.Address `abi:"fromAddress"`
	ToAddress   common.Address `abi:"toAddress"`
}

// Review.

type ReviewMint struct {
	ServiceID *big.Int `abi:"_serviceId"`
	ToID      *big.Int `abi:"_toId"`
	TokenID   *big.Int `abi:"_tokenId"`
	Rating    *big.Int `abi:"_rating"`
	ReviewURI string   `abi:"_reviewUri"`
}

// Escrow.

type TransactionCreated struct {
	TransactionID *big.Int       `abi:"_transactionId"`
	SenderID      *big.Int       `abi:"_senderId"`
	ReceiverID    *big.Int       `abi:"_receiverId"`
	Token         common.Address `abi:"_token"`
	Amount        uint256.Int    `abi:"_amount"`
	ServiceID     *big.Int       `abi:"_serviceId"`
}

type Payment struct {
	TransactionID *big.Int       `abi:"_transactionId"`
	PaymentType   uint8          `abi:"_paymentType"`
	Token         common.Address `abi:"_token"`
	Amount        uint256.Int    `abi:"_amount"`
	ServiceID     *big.Int       `abi:"_serviceId"`
}

type PaymentCompleted struct {
	ServiceID *big.Int `abi:"_serviceId"`
}

type EvidenceSubmitted struct {
	TransactionID *big.Int `abi:"_transactionId"`
	PartyID       *big.Int `abi:"_partyId"`
	EvidenceURI   string   `abi:"_evidenceUri"`
}
