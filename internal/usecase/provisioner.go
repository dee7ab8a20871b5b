package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/daffahilmyf/mdd-seed/internal/fakegen"
	"github.com/sirupsen/logrus"
)

const defaultResolveAttempts = 5

type ProvisionerDeps struct {
	Auth       service.AuthService
	Users      repository.UserRepository
	Identities *fakegen.Identities
	Password   string
	// Attempts and Interval bound identifier resolution after registration.
	Attempts int
	Interval time.Duration
	// Sleep waits between resolution attempts; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
	Log   logrus.FieldLogger
}

type ProvisionReport struct {
	Attempted  int
	Registered int
	Resolved   int
}

// Provisioner creates users through the registration endpoint and keeps only
// those whose id could be read back from the database.
type Provisioner struct {
	deps ProvisionerDeps
}

func NewProvisioner(deps ProvisionerDeps) *Provisioner {
	if deps.Attempts <= 0 {
		deps.Attempts = defaultResolveAttempts
	}
	if deps.Sleep == nil {
		deps.Sleep = sleep
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Provisioner{deps: deps}
}

// Provision attempts count registrations. Per-user failures are logged and
// skipped; the returned error is set only when the database became unusable
// or ctx ended.
func (p *Provisioner) Provision(ctx context.Context, count int) ([]entity.Credential, ProvisionReport, error) {
	var report ProvisionReport
	creds := make([]entity.Credential, 0, count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return creds, report, err
		}
		report.Attempted++

		identity := p.deps.Identities.Next()
		log := p.deps.Log.WithFields(logrus.Fields{
			"username": identity.Username,
			"email":    identity.Email,
		})

		err := p.deps.Auth.Register(ctx, service.Registration{
			Username: identity.Username,
			Email:    identity.Email,
			Password: p.deps.Password,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return creds, report, ctxErr
			}
			log.WithError(err).Warn("registration failed, user skipped")
			continue
		}
		report.Registered++

		id, ok, err := p.resolve(ctx, identity, log)
		if err != nil {
			return creds, report, err
		}
		if !ok {
			p.diagnose(ctx, identity, log)
			continue
		}

		report.Resolved++
		creds = append(creds, entity.Credential{
			ID:       id,
			Username: identity.Username,
			Email:    identity.Email,
			Password: p.deps.Password,
		})
		log.WithField("user_id", id).Infof("user %d/%d created", report.Resolved, count)
	}
	return creds, report, nil
}

// resolve polls for the id of a freshly registered user. Each attempt is a
// new autocommit statement, so rows committed by the application in the
// meantime become visible.
func (p *Provisioner) resolve(ctx context.Context, identity fakegen.Identity, log logrus.FieldLogger) (int64, bool, error) {
	for attempt := 1; attempt <= p.deps.Attempts; attempt++ {
		id, ok, err := p.deps.Users.FindIDByLogin(ctx, identity.Username, identity.Email)
		switch {
		case err != nil && (errors.Is(err, repository.ErrUnavailable) || ctx.Err() != nil):
			return 0, false, fmt.Errorf("resolve user %s: %w", identity.Username, err)
		case err != nil:
			log.WithError(err).WithField("attempt", attempt).Warn("user lookup failed")
		case ok:
			if attempt > 1 {
				log.WithField("attempt", attempt).Debug("user visible after retry")
			}
			return id, true, nil
		}

		if attempt < p.deps.Attempts {
			if err := p.deps.Sleep(ctx, p.deps.Interval); err != nil {
				return 0, false, err
			}
		}
	}
	return 0, false, nil
}

func (p *Provisioner) diagnose(ctx context.Context, identity fakegen.Identity, log logrus.FieldLogger) {
	log = log.WithField("attempts", p.deps.Attempts)
	similar, err := p.deps.Users.FindSimilar(ctx, identity.Username, identity.Email)
	if err != nil {
		log.WithError(err).Warn("registered user not found, user skipped")
		return
	}
	found := make([]string, 0, len(similar))
	for _, u := range similar {
		found = append(found, fmt.Sprintf("%d:%s:%s", u.ID, u.Username, u.Email))
	}
	log.WithField("similar", found).Warn("registered user not found, user skipped")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
