package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/config"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/models"
)

var (
	adminSari  = models.User{ID: 3, Nama: "Sari", Email: "sari@bps.go.id", Role: config.RoleAdmin, IsBanned: "n"}
	adminDodi  = models.User{ID: 4, Nama: "Dodi", Email: "dodi@bps.go.id", Role: config.RoleAdmin, IsBanned: "n"}
	superAyu   = models.User{ID: 1, Nama: "Ayu", Email: "ayu@bps.go.id", Role: config.RoleSuperAdmin, IsBanned: "n"}
	bannedBima = models.User{ID: 9, Nama: "Bima", Email: "bima@bps.go.id", Role: config.RoleAdmin, IsBanned: "y"}
)

func actorOf(u models.User) Actor { return Actor{UserID: u.ID, Role: u.Role} }

type lifecycleFixture struct {
	svc      *LifecycleService
	queues   *memQueues
	pub      *recordingPublisher
	notifier *countingNotifier
	now      time.Time
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	users := newMemUsers(adminSari, adminDodi, superAyu, bannedBima)
	queues := newMemQueues(newMemLinks(), nil, users)
	pub := &recordingPublisher{}
	notifier := &countingNotifier{}

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc)
	svc := NewLifecycleService(queues, users, pub, notifier, zap.NewNop())
	svc.now = fixedClock(now)

	queues.put(models.QueueDetail{Queue: models.Queue{
		ID: 1, QueueNumber: 1, QueueDate: "2026-03-02", QueueCode: "KS001",
		Status: models.StatusWaiting, QueueType: models.QueueTypeGuest,
		CreatedAt: now.Add(-20 * time.Minute),
	}})
	return &lifecycleFixture{svc: svc, queues: queues, pub: pub, notifier: notifier, now: now}
}

func (f *lifecycleFixture) row(t *testing.T, id int64) models.QueueDetail {
	t.Helper()
	q, err := f.queues.GetByID(context.Background(), id)
	require.NoError(t, err)
	return q
}

func TestServe_WaitingBecomesServing(t *testing.T) {
	f := newLifecycleFixture(t)

	q, err := f.svc.Serve(context.Background(), 1, actorOf(adminSari))

	require.NoError(t, err)
	assert.Equal(t, models.StatusServing, q.Status)
	require.NotNil(t, q.AdminID)
	assert.Equal(t, adminSari.ID, *q.AdminID)
	require.NotNil(t, q.StartTime)
	assert.True(t, q.StartTime.Equal(f.now))
	assert.Nil(t, q.EndTime)
	assert.NoError(t, q.CheckInvariants())
	assert.Equal(t, []events.Type{events.QueueServed}, f.pub.types())
	assert.Equal(t, 1, f.notifier.count())
}

func TestServe_NonWaitingFailsWithoutMutation(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Serve(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)
	before := f.row(t, 1)

	f.svc.now = fixedClock(f.now.Add(5 * time.Minute))
	_, err = f.svc.Serve(ctx, 1, actorOf(adminDodi))

	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Equal(t, before, f.row(t, 1))
}

func TestServe_RejectsUnknownOrBannedAdmin(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Serve(ctx, 1, Actor{UserID: 404, Role: config.RoleAdmin})
	assert.ErrorIs(t, err, apperr.New(apperr.KindReferential, apperr.CodeInvalidAdmin, ""))

	_, err = f.svc.Serve(ctx, 1, actorOf(bannedBima))
	assert.ErrorIs(t, err, apperr.New(apperr.KindReferential, apperr.CodeInvalidAdmin, ""))

	assert.Equal(t, models.StatusWaiting, f.row(t, 1).Status)
}

func TestServe_NotFound(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.Serve(context.Background(), 99, actorOf(adminSari))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestServe_RequiresStaffRole(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.Serve(context.Background(), 1, Actor{UserID: 3, Role: "visitor"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestComplete_OnlyServingAdminOrSuperadmin(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Serve(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, 1, actorOf(adminDodi))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, models.StatusServing, f.row(t, 1).Status)

	f.svc.now = fixedClock(f.now.Add(10 * time.Minute))
	q, err := f.svc.Complete(ctx, 1, actorOf(superAyu))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, q.Status)
	require.NotNil(t, q.EndTime)
	assert.True(t, q.EndTime.Equal(f.now.Add(10*time.Minute)))
	assert.True(t, q.StartTime.Equal(f.now), "start_time is set exactly once")
	assert.NoError(t, q.CheckInvariants())
}

func TestComplete_WaitingIsInvalidState(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.Complete(context.Background(), 1, actorOf(superAyu))
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestCancel_UnassignedWaitingByAnyStaff(t *testing.T) {
	f := newLifecycleFixture(t)

	q, err := f.svc.Cancel(context.Background(), 1, actorOf(adminDodi))

	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, q.Status)
	assert.Nil(t, q.StartTime)
	require.NotNil(t, q.EndTime)
	assert.NoError(t, q.CheckInvariants())
	assert.Equal(t, []events.Type{events.QueueCanceled}, f.pub.types())
}

func TestCancel_ServingByOtherAdminForbidden(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Serve(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, 1, actorOf(adminDodi))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	q, err := f.svc.Cancel(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, q.Status)
	assert.NotNil(t, q.StartTime)
	assert.NoError(t, q.CheckInvariants())
}

func TestCancel_CompletedIsInvalidState(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Serve(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, 1, actorOf(adminSari))
	require.NoError(t, err)
	before := f.row(t, 1)

	_, err = f.svc.Cancel(ctx, 1, actorOf(superAyu))

	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Equal(t, before, f.row(t, 1))
}
