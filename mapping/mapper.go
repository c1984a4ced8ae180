// Package mapping projects protocol contract events onto the entity graph.
package mapping

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/library/subscriber"
	"github.com/0xAtelerix/talentgraph/metrics"
	"github.com/0xAtelerix/talentgraph/store"
)

// Contracts are the protocol deployments to follow. A zero address disables that contract.
type Contracts struct {
	ServiceRegistry common.Address
	PlatformID      common.Address
	UserID          common.Address
	Review          common.Address
	Escrow          common.Address
}

type Mapper struct {
	tokens entity.TokenResolver
	docs   *ipfs.Scheduler
	logger *zerolog.Logger
}

func NewMapper(tokens entity.TokenResolver, docs *ipfs.Scheduler, logger *zerolog.Logger) *Mapper {
	return &Mapper{tokens: tokens, docs: docs, logger: logger}
}

type registration func(s *subscriber.Subscriber, contract common.Address) error

func on[T any](
	a abi.ABI,
	eventName string,
	kind string,
	fn func(context.Context, events.Event[T], store.Tx) error,
) registration {
	return func(s *subscriber.Subscriber, contract common.Address) error {
		_, err := subscriber.AddEVMEvent(s, contract, a, eventName, kind,
			func(ctx context.Context, ev events.Event[T], tx store.Tx) error {
				metrics.ProcessedEvents.WithLabelValues(kind).Inc()

				return fn(ctx, ev, tx)
			})

		return err
	}
}

// ignored events are decoded and counted, nothing else.
func ignored[T any](m *Mapper, a abi.ABI, eventName, kind string) registration {
	return on(a, eventName, kind, func(_ context.Context, ev events.Event[T], _ store.Tx) error {
		m.logger.Debug().
			Str("kind", kind).
			Str("event", ev.UniqueID()).
			Msg("Ignored event")

		return nil
	})
}

func nftNoops(m *Mapper, a abi.ABI, prefix string) []registration {
	return []registration{
		ignored[Transfer](m, a, "Transfer", prefix+".Transfer"),
		ignored[Approval](m, a, "Approval", prefix+".Approval"),
		ignored[ApprovalForAll](m, a, "ApprovalForAll", prefix+".ApprovalForAll"),
		ignored[ConsecutiveTransfer](m, a, "ConsecutiveTransfer", prefix+".ConsecutiveTransfer"),
	}
}

// Register subscribes every configured contract and attaches its handlers.
func (m *Mapper) Register(s *subscriber.Subscriber, c Contracts) error {
	sets := []struct {
		contract common.Address
		regs     []registration
	}{
		{c.ServiceRegistry, m.serviceRegistry()},
		{c.PlatformID, m.platformID()},
		{c.UserID, m.userID()},
		{c.Review, m.review()},
		{c.Escrow, m.escrow()},
	}

	for _, set := range sets {
		if set.contract == (common.Address{}) {
			continue
		}

		for _, reg := range set.regs {
			if err := reg(s, set.contract); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *Mapper) serviceRegistry() []registration {
	a := ServiceRegistryABI

	return []registration{
		on(a, "ServiceCreated", "ServiceRegistry.ServiceCreated", m.ServiceCreated),
		on(a, "ServiceDataCreated", "ServiceRegistry.ServiceDataCreated", m.ServiceDataCreated),
		on(a, "ServiceDetailedUpdated", "ServiceRegistry.ServiceDetailedUpdated", m.ServiceDetailedUpdated),
		on(a, "ServiceCancelled", "ServiceRegistry.ServiceCancelled", m.ServiceCancelled),
		on(a, "ProposalCreated", "ServiceRegistry.ProposalCreated", m.ProposalCreated),
		on(a, "ProposalRejected", "ServiceRegistry.ProposalRejected", m.ProposalRejected),
		on(a, "ProposalUpdated", "ServiceRegistry.ProposalUpdated", m.ProposalUpdated),
	}
}

func (m *Mapper) platformID() []registration {
	a := PlatformIDABI

	return append([]registration{
		on(a, "Mint", "PlatformID.Mint", m.PlatformMint),
		on(a, "CidUpdated", "PlatformID.CidUpdated", m.PlatformCidUpdated),
		on(a, "MintFeeUpdated", "PlatformID.MintFeeUpdated", m.PlatformMintFeeUpdated),
	}, nftNoops(m, a, "PlatformID")...)
}

func (m *Mapper) userID() []registration {
	a := UserIDABI

	return append([]registration{
		on(a, "Mint", "UserID.Mint", m.UserMint),
		on(a, "CidUpdated", "UserID.CidUpdated", m.UserCidUpdated),
		on(a, "MintFeeUpdated", "UserID.MintFeeUpdated", m.UserMintFeeUpdated),
	}, nftNoops(m, a, "UserID")...)
}

func (m *Mapper) review() []registration {
	a := ReviewABI

	return append([]registration{
		on(a, "Mint", "Review.Mint", m.ReviewMint),
	}, nftNoops(m, a, "Review")...)
}

func (m *Mapper) escrow() []registration {
	a := EscrowABI

	return []registration{
		on(a, "TransactionCreated", "Escrow.TransactionCreated", m.TransactionCreated),
		on(a, "Payment", "Escrow.Payment", m.Payment),
		on(a, "PaymentCompleted", "Escrow.PaymentCompleted", m.PaymentCompleted),
		on(a, "EvidenceSubmitted", "Escrow.EvidenceSubmitted", m.EvidenceSubmitted),
	}
}

// schedule queues a document fetch stamped with the event time.
func (m *Mapper) schedule(tx store.Tx, kind ipfs.Kind, uri string, dc ipfs.DataContext, meta events.Meta) error {
	_, err := m.docs.Schedule(tx, kind, uri, dc.SetUint64(ipfs.KeyTimestamp, meta.BlockTime), meta.BlockNumber)

	return err
}

func addressKey(a common.Address) string {
	return strings.ToLower(a.Hex())
}
