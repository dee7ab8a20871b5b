package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/config"
	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/fakegen"
	"github.com/daffahilmyf/mdd-seed/internal/infra/authapi"
	"github.com/daffahilmyf/mdd-seed/internal/infra/manifest"
	"github.com/daffahilmyf/mdd-seed/internal/infra/messaging"
	"github.com/daffahilmyf/mdd-seed/internal/infra/persistence"
	"github.com/daffahilmyf/mdd-seed/internal/usecase"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func Seed(ctx context.Context, cfg config.Config) error {
	start := time.Now()
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	batchID := uuid.NewString()
	entry := log.WithField("batch_id", batchID)

	conn, err := persistence.New(ctx, persistence.Config{
		WriteDSN:        cfg.Database.WriteDSN,
		ReadDSN:         cfg.Database.ReadDSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer conn.Close()

	pingCtx := ctx
	if cfg.Database.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		defer cancel()
	}
	if err := conn.Ping(pingCtx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	entry.Infof("bootstrap: db ready in %s", time.Since(start))

	client, err := authapi.New(authapi.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	})
	if err != nil {
		return err
	}

	seed := cfg.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	entry.WithFields(logrus.Fields{
		"api":         cfg.API.BaseURL,
		"random_seed": seed,
		"users":       cfg.Seed.Users,
	}).Info("bootstrap: starting batch")

	r := rand.New(rand.NewSource(seed))
	faker := fakegen.NewGoFaker(rand.NewSource(r.Int63()))

	deps := usecase.BatchDeps{
		Store:  conn,
		Topics: persistence.NewTopicRepository(conn),
		Provisioner: usecase.NewProvisioner(usecase.ProvisionerDeps{
			Auth:       client,
			Users:      persistence.NewUserRepository(conn),
			Identities: fakegen.NewIdentities(faker),
			Password:   cfg.Seed.Password,
			Attempts:   cfg.Seed.ResolveAttempts,
			Interval:   cfg.Seed.ResolveInterval,
			Log:        entry,
		}),
		Subscriber: usecase.NewSubscriber(usecase.SubscriberDeps{
			Content: persistence.NewContentRepository(conn),
			Rand:    r,
			Log:     entry,
		}),
		Populator: usecase.NewPopulator(usecase.PopulatorDeps{
			Content: persistence.NewContentRepository(conn),
			Text:    fakegen.NewText(faker, r, cfg.Seed.Locale),
			Rand:    r,
			Log:     entry,
		}),
		WriteManifest: func(creds []entity.Credential) error {
			return manifest.Write(cfg.Seed.Output, creds)
		},
		ManifestPath: cfg.Seed.Output,
		BatchID:      batchID,
		Log:          entry,
	}

	events, err := messaging.NewNATS(ctx, cfg.NATS)
	if err != nil {
		entry.WithError(err).Warn("bootstrap: nats unavailable, batch event disabled")
	} else if events != nil {
		defer events.Close()
		deps.Publisher = events
	}

	report, err := usecase.NewBatch(deps).Run(ctx, cfg.Seed.Users)
	logSummary(entry, report, time.Since(start))
	return err
}

func logSummary(log logrus.FieldLogger, report usecase.Report, elapsed time.Duration) {
	log.Infof("summary: users %d/%d (registered %d)", report.Users.Resolved, report.Users.Attempted, report.Users.Registered)
	log.Infof("summary: subscriptions %d/%d (already present %d)", report.Subscriptions.Created, report.Subscriptions.Attempted, report.Subscriptions.Duplicates)
	log.Infof("summary: articles %d/%d", report.Articles.Created, report.Articles.Attempted)
	log.Infof("summary: comments %d/%d", report.Comments.Created, report.Comments.Attempted)
	log.Infof("summary: finished in %s", elapsed.Round(time.Millisecond))
}
