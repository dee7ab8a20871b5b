package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/daffahilmyf/mdd-seed/internal/fakegen"
	"github.com/daffahilmyf/mdd-seed/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func newProvisioner(dir *directory, sleeper *sleepRecorder, log logrus.FieldLogger) *usecase.Provisioner {
	return usecase.NewProvisioner(usecase.ProvisionerDeps{
		Auth:       dir,
		Users:      dir,
		Identities: fakegen.NewIdentities(&seqFaker{}),
		Password:   "Password123!",
		Attempts:   5,
		Interval:   300 * time.Millisecond,
		Sleep:      sleeper.sleep,
		Log:        log,
	})
}

func TestProvisionResolvesLaggingUsers(t *testing.T) {
	dir := newDirectory()
	dir.lag[4] = 3
	dir.lag[11] = 3
	sleeper := &sleepRecorder{}
	log, _ := test.NewNullLogger()

	creds, report, err := newProvisioner(dir, sleeper, log).Provision(context.Background(), 15)
	require.NoError(t, err)

	require.Len(t, creds, 15)
	assert.Equal(t, usecase.ProvisionReport{Attempted: 15, Registered: 15, Resolved: 15}, report)
	for _, c := range creds {
		assert.NotZero(t, c.ID)
		assert.Equal(t, "Password123!", c.Password)
	}
	assert.Equal(t, "jerome.lefevre", creds[0].Username)
	assert.Equal(t, "jerome.lefevre1", creds[1].Username)
	assert.Equal(t, 3, dir.lookupsFor(creds[3].Username))
	assert.Len(t, sleeper.calls, 4)
	assert.Zero(t, dir.similarCalls)
}

func TestProvisionDropsUnresolvedUser(t *testing.T) {
	dir := newDirectory()
	dir.hidden[6] = true
	sleeper := &sleepRecorder{}
	log, hook := test.NewNullLogger()

	creds, report, err := newProvisioner(dir, sleeper, log).Provision(context.Background(), 15)
	require.NoError(t, err)

	require.Len(t, creds, 14)
	assert.Equal(t, 15, report.Registered)
	assert.Equal(t, 14, report.Resolved)
	for _, c := range creds {
		assert.NotEqual(t, "jerome.lefevre5", c.Username)
	}
	assert.Equal(t, 5, dir.lookupsFor("jerome.lefevre5"))
	assert.Len(t, sleeper.calls, 4)
	assert.Equal(t, 1, dir.similarCalls)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["username"] == "jerome.lefevre5" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestProvisionSkipsFailedRegistration(t *testing.T) {
	dir := newDirectory()
	dir.refuse[2] = true
	log, hook := test.NewNullLogger()

	creds, report, err := newProvisioner(dir, &sleepRecorder{}, log).Provision(context.Background(), 3)
	require.NoError(t, err)

	assert.Len(t, creds, 2)
	assert.Equal(t, usecase.ProvisionReport{Attempted: 3, Registered: 2, Resolved: 2}, report)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[1].Level)
}

func TestProvisionStopsWhenDatabaseUnavailable(t *testing.T) {
	dir := newDirectory()
	dir.lookupErr = fmt.Errorf("find user id: %w", repository.ErrUnavailable)
	log, _ := test.NewNullLogger()

	creds, _, err := newProvisioner(dir, &sleepRecorder{}, log).Provision(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Empty(t, creds)
}

func TestProvisionHonoursCancellation(t *testing.T) {
	dir := newDirectory()
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	creds, report, err := newProvisioner(dir, &sleepRecorder{}, log).Provision(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, creds)
	assert.Zero(t, report.Attempted)
}
