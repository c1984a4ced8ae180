package mapping

import (
	"context"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

func (m *Mapper) PlatformMint(_ context.Context, ev events.Event[PlatformMint], tx store.Tx) error {
	p := ev.Payload

	platform, err := entity.GetOrCreatePlatform(tx, entity.IDFromBig(p.TokenID))
	if err != nil {
		return err
	}

	platform.Address = addressKey(p.Owner)
	platform.Name = p.Name
	platform.CreatedAt = ev.Timestamp()

	if err = platform.Save(tx); err != nil {
		return err
	}

	protocol, err := entity.GetOrCreateProtocol(tx)
	if err != nil {
		return err
	}

	protocol.TotalMintFees.Add(&protocol.TotalMintFees, &p.Fee)

	return protocol.Save(tx)
}

func (m *Mapper) PlatformCidUpdated(_ context.Context, ev events.Event[CidUpdated], tx store.Tx) error {
	p := ev.Payload

	platform, err := entity.GetOrCreatePlatform(tx, entity.IDFromBig(p.TokenID))
	if err != nil {
		return err
	}

	platform.URI = p.NewCid

	if err = platform.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.PlatformData, p.NewCid,
		ipfs.NewDataContext().SetBigInt(ipfs.KeyPlatformID, p.TokenID), ev.Meta)
}

func (m *Mapper) PlatformMintFeeUpdated(_ context.Context, ev events.Event[MintFeeUpdated], tx store.Tx) error {
	protocol, err := entity.GetOrCreateProtocol(tx)
	if err != nil {
		return err
	}

	protocol.PlatformMintFee = ev.Payload.MintFee

	return protocol.Save(tx)
}

func (m *Mapper) UserMint(_ context.Context, ev events.Event[UserMint], tx store.Tx) error {
	p := ev.Payload

	user, err := entity.GetOrCreateUser(tx, entity.IDFromBig(p.TokenID))
	if err != nil {
		return err
	}

	user.Address = addressKey(p.User)
	user.Handle = p.Handle
	user.CreatedAt = ev.Timestamp()
	user.UpdatedAt = ev.Timestamp()

	return user.Save(tx)
}

func (m *Mapper) UserCidUpdated(_ context.Context, ev events.Event[CidUpdated], tx store.Tx) error {
	p := ev.Payload

	user, err := entity.GetOrCreateUser(tx, entity.IDFromBig(p.TokenID))
	if err != nil {
		return err
	}

	user.URI = p.NewCid
	user.UpdatedAt = ev.Timestamp()

	if err = user.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.UserData, p.NewCid,
		ipfs.NewDataContext().SetBigInt(ipfs.KeyUserID, p.TokenID), ev.Meta)
}

func (m *Mapper) UserMintFeeUpdated(_ context.Context, ev events.Event[MintFeeUpdated], tx store.Tx) error {
	protocol, err := entity.GetOrCreateProtocol(tx)
	if err != nil {
		return err
	}

	protocol.UserMintFee = ev.Payload.MintFee

	return protocol.Save(tx)
}
