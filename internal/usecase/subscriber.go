package usecase

import (
	"context"
	"errors"
	"math/rand"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const (
	minSubscriptions = 2
	maxSubscriptions = 7
)

type SubscriberDeps struct {
	Content repository.ContentRepository
	Rand    *rand.Rand
	Log     logrus.FieldLogger
}

type SubscriptionReport struct {
	Attempted  int
	Created    int
	Duplicates int
	Failed     int
}

type Subscriber struct {
	deps SubscriberDeps
}

func NewSubscriber(deps SubscriberDeps) *Subscriber {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Subscriber{deps: deps}
}

// Subscribe gives every user between 2 and 7 distinct topics, never more
// than there are topics. A duplicate pair is skipped silently; any other
// rejected pair is logged and skipped.
func (s *Subscriber) Subscribe(ctx context.Context, userIDs []int64, topics []entity.Topic) (SubscriptionReport, error) {
	var report SubscriptionReport
	if len(topics) == 0 {
		return report, nil
	}
	lo, hi := min(minSubscriptions, len(topics)), min(maxSubscriptions, len(topics))

	for _, userID := range userIDs {
		n := lo + s.deps.Rand.Intn(hi-lo+1)
		for _, idx := range s.deps.Rand.Perm(len(topics))[:n] {
			report.Attempted++
			topic := topics[idx]
			err := s.deps.Content.CreateSubscription(ctx, &entity.UserTopic{UserID: userID, TopicID: topic.ID})
			switch {
			case err == nil:
				report.Created++
			case errors.Is(err, repository.ErrUnavailable):
				return report, err
			case errors.Is(err, repository.ErrDuplicate):
				report.Duplicates++
				s.deps.Log.WithFields(logrus.Fields{"user_id": userID, "topic_id": topic.ID}).Debug("subscription already exists")
			default:
				report.Failed++
				s.deps.Log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "topic_id": topic.ID}).Warn("create subscription failed")
			}
		}
	}
	return report, nil
}
