package entity

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// Reference fields hold the id of another entity; "" means unset.

type User struct {
	ID         string          `cbor:"1,keyasint"`
	Address    string          `cbor:"2,keyasint"`
	Handle     string          `cbor:"3,keyasint"`
	URI        string          `cbor:"4,keyasint"`
	WithPoh    bool            `cbor:"5,keyasint"`
	NumReviews uint64          `cbor:"6,keyasint"`
	Rating     decimal.Decimal `cbor:"7,keyasint"`
	CreatedAt  uint64          `cbor:"8,keyasint"`
	UpdatedAt  uint64          `cbor:"9,keyasint"`
}

func (u *User) Save(tx store.Tx) error {
	return tx.Put(scheme.UserBucket, u.ID, u)
}

type Service struct {
	ID            string        `cbor:"1,keyasint"`
	Status        ServiceStatus `cbor:"2,keyasint"`
	Buyer         string        `cbor:"3,keyasint"`
	Seller        string        `cbor:"4,keyasint"`
	Sender        string        `cbor:"5,keyasint"`
	Recipient     string        `cbor:"6,keyasint"`
	URI           string        `cbor:"7,keyasint"`
	Platform      string        `cbor:"8,keyasint"`
	TransactionID string        `cbor:"9,keyasint"`
	CreatedAt     uint64        `cbor:"10,keyasint"`
	UpdatedAt     uint64        `cbor:"11,keyasint"`
}

func (s *Service) Save(tx store.Tx) error {
	return tx.Put(scheme.ServiceBucket, s.ID, s)
}

type Proposal struct {
	ID         string         `cbor:"1,keyasint"`
	Status     ProposalStatus `cbor:"2,keyasint"`
	RateToken  string         `cbor:"3,keyasint"`
	RateAmount uint256.Int    `cbor:"4,keyasint"`
	URI        string         `cbor:"5,keyasint"`
	Service    string         `cbor:"6,keyasint"`
	Seller     string         `cbor:"7,keyasint"`
	CreatedAt  uint64         `cbor:"8,keyasint"`
	UpdatedAt  uint64         `cbor:"9,keyasint"`
}

func (p *Proposal) Save(tx store.Tx) error {
	return tx.Put(scheme.ProposalBucket, p.ID, p)
}

type Review struct {
	ID        string `cbor:"1,keyasint"`
	To        string `cbor:"2,keyasint"`
	Service   string `cbor:"3,keyasint"`
	URI       string `cbor:"4,keyasint"`
	Rating    uint64 `cbor:"5,keyasint"`
	CreatedAt uint64 `cbor:"6,keyasint"`
}

func (r *Review) Save(tx store.Tx) error {
	return tx.Put(scheme.ReviewBucket, r.ID, r)
}

type Payment struct {
	ID            string      `cbor:"1,keyasint"`
	Service       string      `cbor:"2,keyasint"`
	Amount        uint256.Int `cbor:"3,keyasint"`
	RateToken     string      `cbor:"4,keyasint"`
	PaymentType   PaymentType `cbor:"5,keyasint"`
	TransactionID string      `cbor:"6,keyasint"`
	CreatedAt     uint64      `cbor:"7,keyasint"`
}

func (p *Payment) Save(tx store.Tx) error {
	return tx.Put(scheme.PaymentBucket, p.ID, p)
}

type Platform struct {
	ID        string `cbor:"1,keyasint"`
	Address   string `cbor:"2,keyasint"`
	Name      string `cbor:"3,keyasint"`
	URI       string `cbor:"4,keyasint"`
	CreatedAt uint64 `cbor:"5,keyasint"`
}

func (p *Platform) Save(tx store.Tx) error {
	return tx.Put(scheme.PlatformBucket, p.ID, p)
}

// Token caches ERC20 metadata. nil fields are calls that reverted.
type Token struct {
	ID       string  `cbor:"1,keyasint"`
	Address  string  `cbor:"2,keyasint"`
	Symbol   *string `cbor:"3,keyasint"`
	Name     *string `cbor:"4,keyasint"`
	Decimals *uint8  `cbor:"5,keyasint"`
}

func (t *Token) Save(tx store.Tx) error {
	return tx.Put(scheme.TokenBucket, t.ID, t)
}

type Protocol struct {
	ID              string      `cbor:"1,keyasint"`
	TotalMintFees   uint256.Int `cbor:"2,keyasint"`
	PlatformMintFee uint256.Int `cbor:"3,keyasint"`
	UserMintFee     uint256.Int `cbor:"4,keyasint"`
}

func (p *Protocol) Save(tx store.Tx) error {
	return tx.Put(scheme.ProtocolBucket, p.ID, p)
}

type Evidence struct {
	ID            string `cbor:"1,keyasint"`
	TransactionID string `cbor:"2,keyasint"`
	Party         string `cbor:"3,keyasint"`
	URI           string `cbor:"4,keyasint"`
	CreatedAt     uint64 `cbor:"5,keyasint"`
}

func (e *Evidence) Save(tx store.Tx) error {
	return tx.Put(scheme.EvidenceBucket, e.ID, e)
}
