package mapping

import (
	"context"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

// TransactionCreated locks funds for a service: the service is confirmed and
// the receiver's proposal accepted.
func (m *Mapper) TransactionCreated(ctx context.Context, ev events.Event[TransactionCreated], tx store.Tx) error {
	p := ev.Payload
	serviceID := entity.IDFromBig(p.ServiceID)

	if _, err := m.tokens.GetOrCreateToken(ctx, tx, p.Token, ev.Meta.BlockNumber); err != nil {
		return err
	}

	service, err := entity.GetOrCreateService(tx, serviceID)
	if err != nil {
		return err
	}

	service.Status = entity.ServiceConfirmed
	service.TransactionID = entity.IDFromBig(p.TransactionID)
	service.UpdatedAt = ev.Timestamp()

	if err = service.Save(tx); err != nil {
		return err
	}

	proposal, err := entity.GetOrCreateProposal(tx, entity.ProposalID(serviceID, entity.IDFromBig(p.ReceiverID)))
	if err != nil {
		return err
	}

	proposal.Status = entity.ProposalAccepted
	proposal.UpdatedAt = ev.Timestamp()

	return proposal.Save(tx)
}

// Payment records one release or reimbursement, keyed by the emitting log.
func (m *Mapper) Payment(ctx context.Context, ev events.Event[Payment], tx store.Tx) error {
	p := ev.Payload

	payment, err := entity.GetOrCreatePayment(ctx, tx, m.tokens,
		ev.UniqueID(), entity.IDFromBig(p.ServiceID), ev.Meta.BlockNumber)
	if err != nil {
		return err
	}

	token, err := m.tokens.GetOrCreateToken(ctx, tx, p.Token, ev.Meta.BlockNumber)
	if err != nil {
		return err
	}

	paymentType := entity.PaymentTypeFromCode(p.PaymentType)
	if paymentType == "" {
		m.logger.Error().
			Uint8("paymentType", p.PaymentType).
			Str("payment", payment.ID).
			Msg("Unknown payment type")
	}

	payment.Amount = p.Amount
	payment.RateToken = token.ID
	payment.PaymentType = paymentType
	payment.TransactionID = entity.IDFromBig(p.TransactionID)
	payment.CreatedAt = ev.Timestamp()

	return payment.Save(tx)
}

func (m *Mapper) PaymentCompleted(_ context.Context, ev events.Event[PaymentCompleted], tx store.Tx) error {
	service, err := entity.GetOrCreateService(tx, entity.IDFromBig(ev.Payload.ServiceID))
	if err != nil {
		return err
	}

	service.Status = entity.ServiceFinished
	service.UpdatedAt = ev.Timestamp()

	return service.Save(tx)
}

func (m *Mapper) EvidenceSubmitted(_ context.Context, ev events.Event[EvidenceSubmitted], tx store.Tx) error {
	p := ev.Payload

	party, err := entity.GetOrCreateUser(tx, entity.IDFromBig(p.PartyID))
	if err != nil {
		return err
	}

	evidence, err := entity.GetOrCreateEvidence(tx, ev.UniqueID())
	if err != nil {
		return err
	}

	evidence.TransactionID = entity.IDFromBig(p.TransactionID)
	evidence.Party = party.ID
	evidence.URI = p.EvidenceURI
	evidence.CreatedAt = ev.Timestamp()

	if err = evidence.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.EvidenceData, p.EvidenceURI,
		ipfs.NewDataContext().SetString(ipfs.KeyEvidenceID, evidence.ID), ev.Meta)
}
