package entity

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// TokenResolver makes sure a Token entity exists before something references it.
type TokenResolver interface {
	GetOrCreateToken(ctx context.Context, tx store.Tx, addr common.Address, block uint64) (*Token, error)
}

// getOrCreate returns the stored value under id, or persists and returns
// fresh() on a miss. fresh runs only on a miss.
func getOrCreate[T any](tx store.Tx, bucket, id string, fresh func() (*T, error)) (*T, error) {
	v := new(T)

	ok, err := tx.Get(bucket, id, v)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", bucket, id, err)
	}

	if ok {
		return v, nil
	}

	if v, err = fresh(); err != nil {
		return nil, err
	}

	if err = tx.Put(bucket, id, v); err != nil {
		return nil, fmt.Errorf("create %s %s: %w", bucket, id, err)
	}

	return v, nil
}

func load[T any](tx store.Reader, bucket, id string) (*T, error) {
	v := new(T)

	ok, err := tx.Get(bucket, id, v)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", bucket, id, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s %s", library.ErrEntityNotFound, bucket, id)
	}

	return v, nil
}

func GetOrCreateUser(tx store.Tx, id string) (*User, error) {
	return getOrCreate(tx, scheme.UserBucket, id, func() (*User, error) {
		return &User{
			ID:      id,
			Address: library.ZeroAddress,
			Rating:  decimal.Zero,
		}, nil
	})
}

func GetOrCreateService(tx store.Tx, id string) (*Service, error) {
	return getOrCreate(tx, scheme.ServiceBucket, id, func() (*Service, error) {
		return &Service{
			ID:     id,
			Status: ServiceFilled,
		}, nil
	})
}

func GetOrCreateProposal(tx store.Tx, id string) (*Proposal, error) {
	return getOrCreate(tx, scheme.ProposalBucket, id, func() (*Proposal, error) {
		return &Proposal{
			ID:     id,
			Status: ProposalPending,
		}, nil
	})
}

// GetOrCreateReview creates the reviewed user and the service first, so both references resolve.
func GetOrCreateReview(tx store.Tx, id, serviceID, toID string) (*Review, error) {
	if _, err := GetOrCreateUser(tx, toID); err != nil {
		return nil, err
	}

	if _, err := GetOrCreateService(tx, serviceID); err != nil {
		return nil, err
	}

	return getOrCreate(tx, scheme.ReviewBucket, id, func() (*Review, error) {
		return &Review{
			ID:      id,
			To:      toID,
			Service: serviceID,
		}, nil
	})
}

// GetOrCreatePayment references the zero-address token until the handler sets
// the real one. The service and placeholder token are resolved on a miss only.
func GetOrCreatePayment(
	ctx context.Context,
	tx store.Tx,
	tokens TokenResolver,
	id, serviceID string,
	block uint64,
) (*Payment, error) {
	return getOrCreate(tx, scheme.PaymentBucket, id, func() (*Payment, error) {
		if _, err := GetOrCreateService(tx, serviceID); err != nil {
			return nil, err
		}

		placeholder, err := tokens.GetOrCreateToken(ctx, tx, common.Address{}, block)
		if err != nil {
			return nil, err
		}

		return &Payment{
			ID:        id,
			Service:   serviceID,
			RateToken: placeholder.ID,
		}, nil
	})
}

func GetOrCreatePlatform(tx store.Tx, id string) (*Platform, error) {
	return getOrCreate(tx, scheme.PlatformBucket, id, func() (*Platform, error) {
		return &Platform{
			ID:      id,
			Address: library.ZeroAddress,
		}, nil
	})
}

func GetOrCreateProtocol(tx store.Tx) (*Protocol, error) {
	return getOrCreate(tx, scheme.ProtocolBucket, ProtocolID, func() (*Protocol, error) {
		return &Protocol{ID: ProtocolID}, nil
	})
}

func GetOrCreateEvidence(tx store.Tx, id string) (*Evidence, error) {
	return getOrCreate(tx, scheme.EvidenceBucket, id, func() (*Evidence, error) {
		return &Evidence{ID: id}, nil
	})
}

func LoadUser(tx store.Reader, id string) (*User, error) {
	return load[User](tx, scheme.UserBucket, id)
}

func LoadService(tx store.Reader, id string) (*Service, error) {
	return load[Service](tx, scheme.ServiceBucket, id)
}

func LoadProposal(tx store.Reader, id string) (*Proposal, error) {
	return load[Proposal](tx, scheme.ProposalBucket, id)
}

func LoadToken(tx store.Reader, id string) (*Token, error) {
	return load[Token](tx, scheme.TokenBucket, id)
}
