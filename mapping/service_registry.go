package mapping

import (
	"context"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

const unassigned = "0"

func (m *Mapper) ServiceCreated(_ context.Context, ev events.Event[ServiceCreated], tx store.Tx) error {
	p := ev.Payload

	service, err := entity.GetOrCreateService(tx, entity.IDFromBig(p.ID))
	if err != nil {
		return err
	}

	buyer, err := entity.LoadUser(tx, entity.IDFromBig(p.BuyerID))
	if err != nil {
		return err
	}

	service.Buyer = buyer.ID

	if sellerID := entity.IDFromBig(p.SellerID); sellerID != unassigned {
		seller, err := entity.LoadUser(tx, sellerID)
		if err != nil {
			return err
		}

		service.Seller = seller.ID
	} else {
		service.Status = entity.ServiceOpened
	}

	sender, err := entity.LoadUser(tx, entity.IDFromBig(p.InitiatorID))
	if err != nil {
		return err
	}

	service.Sender = sender.ID

	switch initiator := p.InitiatorID; {
	case initiator.Cmp(p.BuyerID) == 0:
		service.Recipient = service.Seller
	case initiator.Cmp(p.SellerID) == 0:
		service.Recipient = service.Buyer
	default:
		m.logger.Error().
			Str("service", service.ID).
			Str("senderId", sender.ID).
			Msg("Service created by neither buyer nor seller")
	}

	service.CreatedAt = ev.Timestamp()
	service.UpdatedAt = ev.Timestamp()

	platform, err := entity.GetOrCreatePlatform(tx, entity.IDFromBig(p.PlatformID))
	if err != nil {
		return err
	}

	service.Platform = platform.ID

	return service.Save(tx)
}

func (m *Mapper) ServiceDataCreated(_ context.Context, ev events.Event[ServiceDataCreated], tx store.Tx) error {
	p := ev.Payload

	return m.schedule(tx, ipfs.ServiceData, p.ServiceDataURI,
		ipfs.NewDataContext().SetBigInt(ipfs.KeyServiceID, p.ID), ev.Meta)
}

func (m *Mapper) ServiceDetailedUpdated(_ context.Context, ev events.Event[ServiceDetailedUpdated], tx store.Tx) error {
	p := ev.Payload

	service, err := entity.GetOrCreateService(tx, entity.IDFromBig(p.ID))
	if err != nil {
		return err
	}

	service.URI = p.NewServiceDataURI
	service.UpdatedAt = ev.Timestamp()

	if err = service.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.ServiceData, p.NewServiceDataURI,
		ipfs.NewDataContext().SetBigInt(ipfs.KeyServiceID, p.ID), ev.Meta)
}

func (m *Mapper) ServiceCancelled(_ context.Context, ev events.Event[ServiceCancelled], tx store.Tx) error {
	service, err := entity.GetOrCreateService(tx, entity.IDFromBig(ev.Payload.ID))
	if err != nil {
		return err
	}

	service.Status = entity.ServiceCancelled
	service.UpdatedAt = ev.Timestamp()

	return service.Save(tx)
}

func (m *Mapper) ProposalCreated(ctx context.Context, ev events.Event[ProposalCreated], tx store.Tx) error {
	p := ev.Payload
	serviceID, sellerID := entity.IDFromBig(p.ServiceID), entity.IDFromBig(p.SellerID)

	service, err := entity.LoadService(tx, serviceID)
	if err != nil {
		return err
	}

	seller, err := entity.LoadUser(tx, sellerID)
	if err != nil {
		return err
	}

	token, err := m.tokens.GetOrCreateToken(ctx, tx, p.RateToken, ev.Meta.BlockNumber)
	if err != nil {
		return err
	}

	proposal, err := entity.GetOrCreateProposal(tx, entity.ProposalID(serviceID, sellerID))
	if err != nil {
		return err
	}

	proposal.Status = entity.ProposalPending
	proposal.RateToken = token.ID
	proposal.RateAmount = p.RateAmount
	proposal.URI = p.ProposalDataURI
	proposal.Service = service.ID
	proposal.Seller = seller.ID
	proposal.CreatedAt = ev.Timestamp()
	proposal.UpdatedAt = ev.Timestamp()

	if err = proposal.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.ProposalData, proposal.URI,
		ipfs.NewDataContext().SetString(ipfs.KeyProposalID, proposal.ID), ev.Meta)
}

func (m *Mapper) ProposalRejected(_ context.Context, ev events.Event[ProposalRejected], tx store.Tx) error {
	p := ev.Payload

	proposal, err := entity.GetOrCreateProposal(tx,
		entity.ProposalID(entity.IDFromBig(p.ServiceID), entity.IDFromBig(p.SellerID)))
	if err != nil {
		return err
	}

	proposal.Status = entity.ProposalRejected
	proposal.UpdatedAt = ev.Timestamp()

	return proposal.Save(tx)
}

func (m *Mapper) ProposalUpdated(ctx context.Context, ev events.Event[ProposalUpdated], tx store.Tx) error {
	p := ev.Payload

	token, err := m.tokens.GetOrCreateToken(ctx, tx, p.RateToken, ev.Meta.BlockNumber)
	if err != nil {
		return err
	}

	proposal, err := entity.GetOrCreateProposal(tx,
		entity.ProposalID(entity.IDFromBig(p.ServiceID), entity.IDFromBig(p.SellerID)))
	if err != nil {
		return err
	}

	proposal.RateToken = token.ID
	proposal.RateAmount = p.RateAmount
	proposal.URI = p.ProposalDataURI
	proposal.UpdatedAt = ev.Timestamp()

	if err = proposal.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.ProposalData, proposal.URI,
		ipfs.NewDataContext().SetString(ipfs.KeyProposalID, proposal.ID), ev.Meta)
}
