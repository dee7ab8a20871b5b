package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/sirupsen/logrus"
)

var ErrNoTopics = errors.New("no topics found, create topics before seeding")

type State int32

const (
	StateIdle State = iota
	StateUsersProvisioned
	StateTopicsLoaded
	StateRelationshipsSeeded
	StateContentSeeded
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUsersProvisioned:
		return "users_provisioned"
	case StateTopicsLoaded:
		return "topics_loaded"
	case StateRelationshipsSeeded:
		return "relationships_seeded"
	case StateContentSeeded:
		return "content_seeded"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type BatchDeps struct {
	Store       repository.Store
	Topics      repository.TopicRepository
	Provisioner *Provisioner
	Subscriber  *Subscriber
	Populator   *Populator
	// WriteManifest persists the credentials once the transaction committed.
	WriteManifest func(creds []entity.Credential) error
	ManifestPath  string
	// Publisher is optional.
	Publisher service.EventPublisher
	BatchID   string
	Now       func() time.Time
	Log       logrus.FieldLogger
}

type Report struct {
	BatchID       string
	Users         ProvisionReport
	Subscriptions SubscriptionReport
	Articles      CountReport
	Comments      CountReport
	Credentials   []entity.Credential
}

// Batch runs one seeding pass. Users are provisioned first, outside any
// transaction; subscriptions, articles and comments are then written in a
// single transaction and the manifest is written only after it commits.
type Batch struct {
	deps  BatchDeps
	state atomic.Int32
}

func NewBatch(deps BatchDeps) *Batch {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Batch{deps: deps}
}

func (b *Batch) State() State {
	return State(b.state.Load())
}

func (b *Batch) Run(ctx context.Context, count int) (Report, error) {
	report := Report{BatchID: b.deps.BatchID}
	log := b.deps.Log

	log.Infof("provisioning %d users", count)
	creds, users, err := b.deps.Provisioner.Provision(ctx, count)
	report.Users = users
	if err != nil {
		return report, b.abort(fmt.Errorf("provision users: %w", err))
	}
	b.enter(StateUsersProvisioned)
	log.WithFields(logrus.Fields{"registered": users.Registered, "resolved": users.Resolved}).
		Infof("%d/%d users provisioned", users.Resolved, users.Attempted)

	topics, err := b.deps.Topics.List(ctx)
	if err != nil {
		return report, b.abort(fmt.Errorf("load topics: %w", err))
	}
	if len(topics) == 0 {
		return report, b.abort(ErrNoTopics)
	}
	b.enter(StateTopicsLoaded)
	log.Infof("%d topics loaded", len(topics))

	userIDs := make([]int64, len(creds))
	for i, c := range creds {
		userIDs[i] = c.ID
	}

	err = b.deps.Store.WithTx(ctx, func(txCtx context.Context) error {
		subs, err := b.deps.Subscriber.Subscribe(txCtx, userIDs, topics)
		report.Subscriptions = subs
		if err != nil {
			return fmt.Errorf("subscriptions: %w", err)
		}
		b.enter(StateRelationshipsSeeded)
		log.Infof("%d subscriptions created", subs.Created)

		articles, articleReport, err := b.deps.Populator.PopulateArticles(txCtx, userIDs, topics)
		report.Articles = articleReport
		if err != nil {
			return fmt.Errorf("articles: %w", err)
		}
		log.Infof("%d articles created", articleReport.Created)

		commentReport, err := b.deps.Populator.PopulateComments(txCtx, userIDs, articles)
		report.Comments = commentReport
		if err != nil {
			return fmt.Errorf("comments: %w", err)
		}
		b.enter(StateContentSeeded)
		log.Infof("%d comments created", commentReport.Created)
		return nil
	})
	if err != nil {
		log.WithError(err).Error("transaction rolled back, provisioned users were kept")
		return report, b.abort(fmt.Errorf("seed content: %w", err))
	}
	b.enter(StateCommitted)
	report.Credentials = creds

	if b.deps.WriteManifest != nil {
		if err := b.deps.WriteManifest(creds); err != nil {
			return report, fmt.Errorf("write manifest: %w", err)
		}
		log.WithField("path", b.deps.ManifestPath).Info("credentials manifest written")
	}

	if b.deps.Publisher != nil {
		event := service.BatchCommitted{
			BatchID:       b.deps.BatchID,
			Users:         len(creds),
			Subscriptions: report.Subscriptions.Created,
			Articles:      report.Articles.Created,
			Comments:      report.Comments.Created,
			Manifest:      b.deps.ManifestPath,
			CommittedAt:   b.deps.Now().UTC(),
		}
		if err := b.deps.Publisher.PublishBatchCommitted(ctx, event); err != nil {
			log.WithError(err).Warn("publish batch event failed")
		}
	}
	return report, nil
}

func (b *Batch) enter(s State) {
	b.state.Store(int32(s))
}

func (b *Batch) abort(err error) error {
	b.enter(StateAborted)
	return err
}
