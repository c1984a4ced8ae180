package entity

import (
	"math/big"

	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// Description entities are keyed by the CID of the document they were parsed
// from. Every write appends a new version under that CID; readers use the latest.
// Optional fields are nil when the document lacks them or has the wrong JSON kind.

type ServiceDescription struct {
	ID              string   `cbor:"1,keyasint"`
	Service         string   `cbor:"2,keyasint"`
	Title           *string  `cbor:"3,keyasint"`
	About           *string  `cbor:"4,keyasint"`
	StartDate       *big.Int `cbor:"5,keyasint"`
	ExpectedEndDate *big.Int `cbor:"6,keyasint"`
	Latitude        *string  `cbor:"7,keyasint"`
	Longitude       *string  `cbor:"8,keyasint"`
	RateToken       *string  `cbor:"9,keyasint"`
	RateAmount      *string  `cbor:"10,keyasint"`
	VideoURL        *string  `cbor:"11,keyasint"`
}

func (d *ServiceDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.ServiceDescriptionBucket, d.ID, d)

	return err
}

type ProposalDescription struct {
	ID            string   `cbor:"1,keyasint"`
	Proposal      string   `cbor:"2,keyasint"`
	StartDate     *big.Int `cbor:"3,keyasint"`
	About         *string  `cbor:"4,keyasint"`
	ExpectedHours *big.Int `cbor:"5,keyasint"`
	VideoURL      *string  `cbor:"6,keyasint"`
}

func (d *ProposalDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.ProposalDescriptionBucket, d.ID, d)

	return err
}

type UserDescription struct {
	ID        string   `cbor:"1,keyasint"`
	User      string   `cbor:"2,keyasint"`
	Title     *string  `cbor:"3,keyasint"`
	About     *string  `cbor:"4,keyasint"`
	SkillsRaw *string  `cbor:"5,keyasint"`
	Timezone  *big.Int `cbor:"6,keyasint"`
	Headline  *string  `cbor:"7,keyasint"`
	Country   *string  `cbor:"8,keyasint"`
	Role      *string  `cbor:"9,keyasint"`
	Name      *string  `cbor:"10,keyasint"`
	VideoURL  *string  `cbor:"11,keyasint"`
	ImageURL  *string  `cbor:"12,keyasint"`
}

func (d *UserDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.UserDescriptionBucket, d.ID, d)

	return err
}

type PlatformDescription struct {
	ID       string  `cbor:"1,keyasint"`
	Platform string  `cbor:"2,keyasint"`
	About    *string `cbor:"3,keyasint"`
	Website  *string `cbor:"4,keyasint"`
	VideoURL *string `cbor:"5,keyasint"`
	ImageURL *string `cbor:"6,keyasint"`
}

func (d *PlatformDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.PlatformDescriptionBucket, d.ID, d)

	return err
}

type ReviewDescription struct {
	ID      string  `cbor:"1,keyasint"`
	Review  string  `cbor:"2,keyasint"`
	Content *string `cbor:"3,keyasint"`
}

func (d *ReviewDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.ReviewDescriptionBucket, d.ID, d)

	return err
}

type EvidenceDescription struct {
	ID                string  `cbor:"1,keyasint"`
	Evidence          string  `cbor:"2,keyasint"`
	FileURI           *string `cbor:"3,keyasint"`
	FileHash          *string `cbor:"4,keyasint"`
	FileTypeExtension *string `cbor:"5,keyasint"`
	Name              *string `cbor:"6,keyasint"`
	Description       *string `cbor:"7,keyasint"`
}

func (d *EvidenceDescription) Save(tx store.Tx) error {
	_, err := tx.Append(scheme.EvidenceDescriptionBucket, d.ID, d)

	return err
}

// LatestDescription decodes the newest version stored under cid into dst.
func LatestDescription(r store.Reader, bucket, cid string, dst any) (bool, error) {
	_, ok, err := r.Latest(bucket, cid, dst)

	return ok, err
}
