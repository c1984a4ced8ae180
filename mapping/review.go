package mapping

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

// RatingPrecision is the number of fractional digits kept in a user's mean
// rating. Each new review folds into the already rounded mean.
const RatingPrecision = 18

// ReviewMint stores the review and folds its rating into the reviewed user's mean.
func (m *Mapper) ReviewMint(_ context.Context, ev events.Event[ReviewMint], tx store.Tx) error {
	p := ev.Payload

	review, err := entity.GetOrCreateReview(tx,
		entity.IDFromBig(p.TokenID), entity.IDFromBig(p.ServiceID), entity.IDFromBig(p.ToID))
	if err != nil {
		return err
	}

	review.URI = p.ReviewURI
	review.Rating = p.Rating.Uint64()
	review.CreatedAt = ev.Timestamp()

	if err = review.Save(tx); err != nil {
		return err
	}

	user, err := entity.LoadUser(tx, review.To)
	if err != nil {
		return err
	}

	n := decimal.NewFromInt(int64(user.NumReviews)) //nolint:gosec // review counts fit
	user.Rating = user.Rating.Mul(n).
		Add(decimal.NewFromBigInt(p.Rating, 0)).
		DivRound(n.Add(decimal.NewFromInt(1)), RatingPrecision)
	user.NumReviews++
	user.UpdatedAt = ev.Timestamp()

	if err = user.Save(tx); err != nil {
		return err
	}

	return m.schedule(tx, ipfs.ReviewData, p.ReviewURI,
		ipfs.NewDataContext().SetString(ipfs.KeyReviewID, review.ID), ev.Meta)
}
