// Package metadata turns off-chain JSON documents into description entities.
//
// Every handler follows the same contract: a document that is not a JSON
// object is logged and skipped without writing anything; otherwise the
// description is keyed by the document CID, back-references the entity named
// in the request context, and is written even when every optional field is absent.
package metadata

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/store"
)

type HandlerFunc func(tx store.Tx, doc *Document, dc ipfs.DataContext) error

type Handlers struct {
	logger *zerolog.Logger
	byKind map[ipfs.Kind]HandlerFunc
}

func NewHandlers(logger *zerolog.Logger) *Handlers {
	return &Handlers{
		logger: logger,
		byKind: map[ipfs.Kind]HandlerFunc{
			ipfs.ServiceData:  ServiceData,
			ipfs.ProposalData: ProposalData,
			ipfs.UserData:     UserData,
			ipfs.PlatformData: PlatformData,
			ipfs.ReviewData:   ReviewData,
			ipfs.EvidenceData: EvidenceData,
		},
	}
}

// Handle parses data and runs the handler registered for kind.
// stored is false when the document was skipped as malformed.
func (h *Handlers) Handle(tx store.Tx, kind ipfs.Kind, data []byte, dc ipfs.DataContext) (stored bool, err error) {
	fn, ok := h.byKind[kind]
	if !ok {
		return false, fmt.Errorf("%w: %s", library.ErrUnknownDocumentKind, kind)
	}

	cid, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return false, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("cid", cid).
			Str("kind", string(kind)).
			Msg("Error parsing json")

		return false, nil
	}

	if err = fn(tx, doc, dc); err != nil {
		return false, fmt.Errorf("%s %s: %w", kind, cid, err)
	}

	return true, nil
}

func ServiceData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	serviceID, err := dc.GetBigInt(ipfs.KeyServiceID)
	if err != nil {
		return err
	}

	d := &entity.ServiceDescription{
		ID:              id,
		Service:         entity.IDFromBig(serviceID),
		Title:           doc.Field("title").AsString(),
		About:           doc.Field("about").AsString(),
		StartDate:       doc.Field("startDate").AsBigInt(),
		ExpectedEndDate: doc.Field("expectedEndDate").AsBigInt(),
		Latitude:        doc.Field("latitude").AsString(),
		Longitude:       doc.Field("longitude").AsString(),
		RateToken:       doc.Field("rateToken").AsString(),
		RateAmount:      doc.Field("rateAmount").AsString(),
		VideoURL:        doc.Field("video_url").AsString(),
	}

	return d.Save(tx)
}

func ProposalData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	proposalID, err := dc.GetString(ipfs.KeyProposalID)
	if err != nil {
		return err
	}

	d := &entity.ProposalDescription{
		ID:            id,
		Proposal:      proposalID,
		StartDate:     doc.Field("startDate").AsBigInt(),
		About:         doc.Field("about").AsString(),
		ExpectedHours: doc.Field("expectedHours").AsBigInt(),
		VideoURL:      doc.Field("video_url").AsString(),
	}

	return d.Save(tx)
}

func UserData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	userID, err := dc.GetBigInt(ipfs.KeyUserID)
	if err != nil {
		return err
	}

	d := &entity.UserDescription{
		ID:       id,
		User:     entity.IDFromBig(userID),
		Title:    doc.Field("title").AsString(),
		About:    doc.Field("about").AsString(),
		Timezone: doc.Field("timezone").AsBigInt(),
		Headline: doc.Field("headline").AsString(),
		Country:  doc.Field("country").AsString(),
		Role:     doc.Field("role").AsString(),
		Name:     doc.Field("name").AsString(),
		VideoURL: doc.Field("video_url").AsString(),
		ImageURL: doc.Field("image_url").AsString(),
	}

	if skills := doc.Field("skills").AsString(); skills != nil {
		raw := strings.ToLower(*skills)
		d.SkillsRaw = &raw
	}

	return d.Save(tx)
}

func PlatformData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	platformID, err := dc.GetBigInt(ipfs.KeyPlatformID)
	if err != nil {
		return err
	}

	d := &entity.PlatformDescription{
		ID:       id,
		Platform: entity.IDFromBig(platformID),
		About:    doc.Field("about").AsString(),
		Website:  doc.Field("website").AsString(),
		VideoURL: doc.Field("video_url").AsString(),
		ImageURL: doc.Field("image_url").AsString(),
	}

	return d.Save(tx)
}

func ReviewData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	reviewID, err := dc.GetString(ipfs.KeyReviewID)
	if err != nil {
		return err
	}

	d := &entity.ReviewDescription{
		ID:      id,
		Review:  reviewID,
		Content: doc.Field("content").AsString(),
	}

	return d.Save(tx)
}

func EvidenceData(tx store.Tx, doc *Document, dc ipfs.DataContext) error {
	id, err := dc.GetString(ipfs.KeyID)
	if err != nil {
		return err
	}

	evidenceID, err := dc.GetString(ipfs.KeyEvidenceID)
	if err != nil {
		return err
	}

	d := &entity.EvidenceDescription{
		ID:                id,
		Evidence:          evidenceID,
		FileURI:           doc.Field("fileUri").AsString(),
		FileHash:          doc.Field("fileHash").AsString(),
		FileTypeExtension: doc.Field("fileTypeExtension").AsString(),
		Name:              doc.Field("name").AsString(),
		Description:       doc.Field("description").AsString(),
	}

	return d.Save(tx)
}
