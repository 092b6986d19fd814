package registration_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smashclub/volley/internal/memstore"
	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
	"github.com/smashclub/volley/internal/roster"
)

const day = 24 * time.Hour

// start is a Saturday.
var start = time.Date(2026, time.June, 6, 18, 0, 0, 0, time.UTC)

// mockNotifier collects promotion events instead of queueing them.
type mockNotifier struct {
	mu     sync.Mutex
	events []models.PromotionEvent
	err    error
}

func (m *mockNotifier) NotifyPromoted(_ context.Context, ev models.PromotionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

type lockedGuard struct{}

func (lockedGuard) CanMutateRoster(context.Context, models.Game) (bool, error) { return false, nil }

type fixture struct {
	svc      *registration.Service
	store    *memstore.Store
	locks    *memstore.RosterLock
	notifier *mockNotifier
	logs     *test.Hook
	now      time.Time
	admin    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{store: memstore.New(), locks: memstore.NewRosterLock(), notifier: &mockNotifier{}, logs: hook, now: start.Add(-9 * day)}
	f.svc = registration.NewService(f.store, f.store, logger)
	f.svc.Notifier = f.notifier
	f.svc.Assignments = f.store
	f.svc.Accounts = f.store
	f.svc.Locks = f.locks
	f.svc.Guard = f.locks
	f.svc.Now = func() time.Time { return f.now }
	f.admin = f.user(t, "admin", true)
	return f
}

func (f *fixture) user(t *testing.T, name string, admin bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.PutUser(models.User{ID: id, DisplayName: name, IsAdmin: admin})
	return id
}

func (f *fixture) game(t *testing.T, g models.Game) models.Game {
	t.Helper()
	if g.DateTime.IsZero() {
		g.DateTime = start
	}
	created, err := f.svc.CreateGame(context.Background(), f.admin, g)
	require.NoError(t, err)
	return *created
}

func activeIDs(v roster.View) []uuid.UUID {
	out := make([]uuid.UUID, len(v.Active))
	for i, e := range v.Active {
		out[i] = e.UserID
	}
	return out
}

func waitlistIDs(v roster.View) []uuid.UUID {
	out := make([]uuid.UUID, len(v.Waitlist))
	for i, e := range v.Waitlist {
		out[i] = e.UserID
	}
	return out
}

func TestEndToEndWaitlistPromotion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 2, UnregisterDeadlineHours: 5})
	a, b, c, d := f.user(t, "a", false), f.user(t, "b", false), f.user(t, "c", false), f.user(t, "d", false)

	f.now = start.Add(-9 * day)
	_, err := f.svc.Join(ctx, g.ID, a)
	require.NoError(t, err)
	f.now = start.Add(-8 * day)
	_, err = f.svc.Join(ctx, g.ID, b)
	require.NoError(t, err)
	f.now = start.Add(-7 * day)
	res, err := f.svc.Join(ctx, g.ID, c)
	require.NoError(t, err)

	assert.True(t, res.Registration.IsWaitlist)
	assert.Equal(t, []uuid.UUID{a, b}, activeIDs(res.Roster))
	assert.Equal(t, []uuid.UUID{c}, waitlistIDs(res.Roster))
	pos, waiting := res.Roster.Position(res.Registration.ID)
	assert.Equal(t, 1, pos)
	assert.True(t, waiting)

	f.now = start.Add(-6 * day)
	res, err = f.svc.Leave(ctx, g.ID, a)
	require.NoError(t, err)
	require.Len(t, res.Promoted, 1)
	assert.Equal(t, c, res.Promoted[0].UserID)
	assert.Equal(t, []uuid.UUID{b, c}, activeIDs(res.Roster))
	assert.Empty(t, res.Roster.Waitlist)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, c, f.notifier.events[0].UserID)
	assert.Equal(t, g.ID, f.notifier.events[0].GameID)

	f.now = start.Add(-6 * time.Hour)
	res, err = f.svc.Join(ctx, g.ID, d)
	require.NoError(t, err)
	assert.True(t, res.Registration.IsWaitlist)
	assert.Equal(t, []uuid.UUID{b, c}, activeIDs(res.Roster))
	assert.Equal(t, []uuid.UUID{d}, waitlistIDs(res.Roster))
}

func TestGuestAndInviter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 2})
	u, v := f.user(t, "u", false), f.user(t, "v", false)

	f.now = start.Add(-5 * day)
	_, err := f.svc.Join(ctx, g.ID, u)
	require.NoError(t, err)

	f.now = start.Add(-2 * day)
	res, err := f.svc.JoinGuest(ctx, g.ID, u, "  Max ")
	require.NoError(t, err)
	assert.False(t, res.Registration.IsWaitlist)
	require.NotNil(t, res.Registration.GuestName)
	assert.Equal(t, "Max", *res.Registration.GuestName)
	assert.Equal(t, u, res.Registration.UserID)

	res, err = f.svc.Join(ctx, g.ID, v)
	require.NoError(t, err)
	assert.True(t, res.Registration.IsWaitlist)
	pos, _ := res.Roster.Position(res.Registration.ID)
	assert.Equal(t, 1, pos)
}

func TestDuplicateGuestName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 4})
	u := f.user(t, "u", false)
	f.now = start.Add(-day)

	_, err := f.svc.JoinGuest(ctx, g.ID, u, "Max")
	require.NoError(t, err)
	_, err = f.svc.JoinGuest(ctx, g.ID, u, "Max")
	assert.ErrorIs(t, err, registration.ErrDuplicateGuestName)
	assert.Len(t, f.store.Registrations(g.ID), 1)

	other := f.user(t, "other", false)
	_, err = f.svc.JoinGuest(ctx, g.ID, other, "Max")
	assert.NoError(t, err, "guest names are unique per inviter only")

	_, err = f.svc.LeaveGuest(ctx, g.ID, u, "Max")
	require.NoError(t, err)
	_, err = f.svc.JoinGuest(ctx, g.ID, u, "Max")
	assert.NoError(t, err)
}

func TestGuestValidationAndWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 4})
	u := f.user(t, "u", false)

	_, err := f.svc.JoinGuest(ctx, g.ID, u, "   ")
	assert.ErrorIs(t, err, registration.ErrInvalidGuestName)

	f.now = start.Add(-4 * day)
	_, err = f.svc.JoinGuest(ctx, g.ID, u, "Max")
	var open *registration.NotYetOpenError
	require.True(t, errors.As(err, &open))
	assert.Equal(t, start.Add(-3*day), open.OpensAt)
}

func TestJoinGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 4})
	u := f.user(t, "u", false)

	f.now = start.Add(-11 * day)
	_, err := f.svc.Join(ctx, g.ID, u)
	assert.ErrorIs(t, err, registration.ErrRegistrationNotYetOpen)
	var open *registration.NotYetOpenError
	require.True(t, errors.As(err, &open))
	assert.Equal(t, start.Add(-10*day), open.OpensAt)

	f.now = start.Add(-day)
	_, err = f.svc.Join(ctx, g.ID, u)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, g.ID, u)
	assert.ErrorIs(t, err, registration.ErrAlreadyRegistered)

	blocked := uuid.New()
	f.store.PutUser(models.User{ID: blocked, Blocked: true})
	_, err = f.svc.Join(ctx, g.ID, blocked)
	assert.ErrorIs(t, err, registration.ErrUserBlocked)

	_, err = f.svc.Join(ctx, uuid.New(), u)
	assert.ErrorIs(t, err, registration.ErrGameNotFound)

	_, err = f.svc.Join(ctx, g.ID, uuid.New())
	assert.ErrorIs(t, err, registration.ErrUserNotFound)
}

func TestReadonlyFreezesSelfServiceOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 4, Readonly: true})
	u := f.user(t, "u", false)
	f.now = start.Add(-day)

	_, err := f.svc.Join(ctx, g.ID, u)
	assert.ErrorIs(t, err, registration.ErrReadonlyGame)
	_, err = f.svc.JoinGuest(ctx, g.ID, u, "Max")
	assert.ErrorIs(t, err, registration.ErrReadonlyGame)

	_, err = f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: u})
	require.NoError(t, err)
	_, err = f.svc.Leave(ctx, g.ID, u)
	assert.ErrorIs(t, err, registration.ErrReadonlyGame)
}

func TestLeaveDeadline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1, UnregisterDeadlineHours: 5})
	active, waiting := f.user(t, "a", false), f.user(t, "w", false)

	f.now = start.Add(-2 * day)
	_, err := f.svc.Join(ctx, g.ID, active)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, g.ID, waiting)
	require.NoError(t, err)

	f.now = start.Add(-5*time.Hour + time.Second)
	_, err = f.svc.Leave(ctx, g.ID, active)
	var late *registration.DeadlinePassedError
	require.True(t, errors.As(err, &late))
	assert.ErrorIs(t, err, registration.ErrUnregisterDeadlinePassed)
	assert.Equal(t, start.Add(-5*time.Hour), late.Deadline)

	res, err := f.svc.Leave(ctx, g.ID, waiting)
	require.NoError(t, err, "waitlisted players may always leave")
	assert.Empty(t, res.Promoted)

	_, err = f.svc.Leave(ctx, g.ID, waiting)
	assert.ErrorIs(t, err, registration.ErrNotRegistered)

	f.now = start.Add(-5 * time.Hour)
	_, err = f.svc.Leave(ctx, g.ID, active)
	assert.NoError(t, err)
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 2})
	a, b, c := f.user(t, "a", false), f.user(t, "b", false), f.user(t, "c", false)
	for i, u := range []uuid.UUID{a, b, c} {
		f.now = start.Add(time.Hour + time.Duration(i)*time.Minute)
		_, err := f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: u})
		require.NoError(t, err, "admin add ignores the time policy")
	}
	_, err := f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: a})
	assert.ErrorIs(t, err, registration.ErrAlreadyRegistered)

	view, err := f.svc.View(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, activeIDs(view))
	assert.Equal(t, []uuid.UUID{c}, waitlistIDs(view))

	_, err = f.svc.MoveToActive(ctx, g.ID, f.admin, registration.Target{UserID: c})
	var capErr *registration.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 2, capErr.MaxPlayers)

	res, err := f.svc.MoveToWaitlist(ctx, g.ID, f.admin, registration.Target{UserID: a})
	require.NoError(t, err)
	assert.True(t, res.Registration.IsWaitlist)
	require.Len(t, res.Promoted, 1)
	assert.Equal(t, c, res.Promoted[0].UserID)

	res, err = f.svc.AdminRemove(ctx, g.ID, f.admin, registration.Target{UserID: b})
	require.NoError(t, err)
	require.Len(t, res.Promoted, 1)
	assert.Equal(t, a, res.Promoted[0].UserID)

	res, err = f.svc.SetPaid(ctx, g.ID, f.admin, registration.Target{UserID: c}, true)
	require.NoError(t, err)
	assert.True(t, res.Registration.Paid)
	assert.False(t, res.Registration.IsWaitlist)

	_, err = f.svc.AdminRemove(ctx, g.ID, f.admin, registration.Target{UserID: b})
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)

	assert.Len(t, f.notifier.events, 2)
}

func TestAdminGuestRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 2})
	u := f.user(t, "u", false)
	name := "Max"

	_, err := f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: u, GuestName: &name})
	require.NoError(t, err)
	_, err = f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: u, GuestName: &name})
	assert.ErrorIs(t, err, registration.ErrDuplicateGuestName)

	_, err = f.svc.AdminRemove(ctx, g.ID, f.admin, registration.Target{UserID: u, GuestName: &name})
	assert.NoError(t, err)
}

func TestAdminRequiresRightsAndGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 2})
	u := f.user(t, "u", false)

	_, err := f.svc.AdminAdd(ctx, g.ID, u, registration.Target{UserID: u})
	assert.ErrorIs(t, err, registration.ErrNotAdmin)

	f.svc.Guard = lockedGuard{}
	_, err = f.svc.AdminAdd(ctx, g.ID, f.admin, registration.Target{UserID: u})
	assert.ErrorIs(t, err, registration.ErrRosterLocked)
	assert.ErrorIs(t, f.svc.DeleteGame(ctx, g.ID, f.admin), registration.ErrRosterLocked)
}

func TestPriorityPlayers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1, WithPriorityPlayers: true})
	require.NotNil(t, g.AdministratorID)

	prio, regular := f.user(t, "p", false), f.user(t, "r", false)
	require.NoError(t, f.store.AddAssignment(ctx, &models.PriorityAssignment{UserID: prio, AdministratorID: f.admin, DayOfWeek: time.Saturday}))

	f.now = start.Add(-5 * day)
	_, err := f.svc.Join(ctx, g.ID, regular)
	var open *registration.NotYetOpenError
	require.True(t, errors.As(err, &open))
	assert.Equal(t, start.Add(-3*day), open.OpensAt)

	res, err := f.svc.Join(ctx, g.ID, prio)
	require.NoError(t, err)
	assert.False(t, res.Registration.IsWaitlist)
	assert.True(t, res.Roster.Active[0].Priority)
}

func TestAdminAddBatchSeatsPriorityFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1, WithPriorityPlayers: true})
	prio, regular := f.user(t, "p", false), f.user(t, "r", false)
	require.NoError(t, f.store.AddAssignment(ctx, &models.PriorityAssignment{UserID: prio, AdministratorID: f.admin, DayOfWeek: time.Saturday}))

	admitted, view, err := f.svc.AdminAddBatch(ctx, g.ID, f.admin, []registration.Target{{UserID: regular}, {UserID: prio}})
	require.NoError(t, err)
	assert.Len(t, admitted, 2)
	assert.Equal(t, []uuid.UUID{prio}, activeIDs(view))
	assert.Equal(t, []uuid.UUID{regular}, waitlistIDs(view))

	_, _, err = f.svc.AdminAddBatch(ctx, g.ID, f.admin, []registration.Target{{UserID: regular}})
	assert.ErrorIs(t, err, registration.ErrAlreadyRegistered)
}

func TestEditGameCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1})
	a, b, c := f.user(t, "a", false), f.user(t, "b", false), f.user(t, "c", false)
	for i, u := range []uuid.UUID{a, b, c} {
		f.now = start.Add(-day + time.Duration(i)*time.Minute)
		_, err := f.svc.Join(ctx, g.ID, u)
		require.NoError(t, err)
	}

	three := 3
	f.svc.Guard = lockedGuard{}
	_, _, err := f.svc.EditGame(ctx, g.ID, f.admin, registration.GamePatch{MaxPlayers: &three})
	assert.ErrorIs(t, err, registration.ErrRosterLocked)
	view, err := f.svc.View(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.MaxPlayers)
	assert.Equal(t, []uuid.UUID{a}, activeIDs(view), "no promotion under lock")
	f.svc.Guard = f.locks

	edited, res, err := f.svc.EditGame(ctx, g.ID, f.admin, registration.GamePatch{MaxPlayers: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, edited.MaxPlayers)
	assert.Len(t, res.Promoted, 2)
	assert.Equal(t, []uuid.UUID{a, b, c}, activeIDs(res.Roster))

	one := 1
	_, res, err = f.svc.EditGame(ctx, g.ID, f.admin, registration.GamePatch{MaxPlayers: &one})
	require.NoError(t, err)
	assert.Len(t, res.Roster.Active, 3, "shrinking never evicts")

	d := f.user(t, "d", false)
	join, err := f.svc.Join(ctx, g.ID, d)
	require.NoError(t, err)
	assert.True(t, join.Registration.IsWaitlist)

	zero := 0
	_, _, err = f.svc.EditGame(ctx, g.ID, f.admin, registration.GamePatch{MaxPlayers: &zero})
	assert.ErrorIs(t, err, registration.ErrInvalidGame)
}

func TestCreateAndDeleteGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "u", false)

	_, err := f.svc.CreateGame(ctx, u, models.Game{DateTime: start, MaxPlayers: 2})
	assert.ErrorIs(t, err, registration.ErrNotAdmin)
	_, err = f.svc.CreateGame(ctx, f.admin, models.Game{DateTime: start})
	assert.ErrorIs(t, err, registration.ErrInvalidGame)

	g := f.game(t, models.Game{MaxPlayers: 2})
	assert.Equal(t, models.PricingPerPlayer, g.PricingMode)

	games, err := f.svc.UpcomingGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	require.NoError(t, f.svc.DeleteGame(ctx, g.ID, f.admin))
	_, err = f.svc.GetGame(ctx, g.ID)
	assert.ErrorIs(t, err, registration.ErrGameNotFound)
}

func TestNotifierFailureIsLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("redis down")
	g := f.game(t, models.Game{MaxPlayers: 1})
	a, b := f.user(t, "a", false), f.user(t, "b", false)
	f.now = start.Add(-day)
	_, err := f.svc.Join(ctx, g.ID, a)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, g.ID, b)
	require.NoError(t, err)

	res, err := f.svc.Leave(ctx, g.ID, a)
	require.NoError(t, err)
	assert.Len(t, res.Promoted, 1)

	var warned bool
	for _, e := range f.logs.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestOnChangeReceivesRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1})
	u := f.user(t, "u", false)

	var views []roster.View
	f.svc.OnChange = func(v roster.View) { views = append(views, v) }

	f.now = start.Add(-day)
	_, err := f.svc.Join(ctx, g.ID, u)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, g.ID, u)
	require.Error(t, err)

	require.Len(t, views, 1, "failed operations publish nothing")
	assert.Equal(t, g.ID, views[0].GameID)
}

func TestSetBringingBall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1})
	u := f.user(t, "u", false)
	f.now = start.Add(-day)

	_, err := f.svc.SetBringingBall(ctx, g.ID, u, true)
	assert.ErrorIs(t, err, registration.ErrNotRegistered)

	_, err = f.svc.Join(ctx, g.ID, u)
	require.NoError(t, err)
	res, err := f.svc.SetBringingBall(ctx, g.ID, u, true)
	require.NoError(t, err)
	assert.True(t, res.Registration.BringingTheBall)
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 3})
	f.now = start.Add(-day)

	users := make([]uuid.UUID, 20)
	for i := range users {
		users[i] = f.user(t, "p", false)
	}
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Join(ctx, g.ID, id)
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	view, err := f.svc.View(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, view.Active, 3)
	assert.Len(t, view.Waitlist, 17)
}

func TestAdminAddBatchKeepsOrderAtMicrosecondPrecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1})
	// a clock with sub-microsecond noise, like time.Now
	f.now = start.Add(-day + 999*time.Nanosecond)

	var targets []registration.Target
	for _, name := range []string{"a", "b", "c", "d"} {
		targets = append(targets, registration.Target{UserID: f.user(t, name, false)})
	}
	_, _, err := f.svc.AdminAddBatch(ctx, g.ID, f.admin, targets)
	require.NoError(t, err)

	created := map[uuid.UUID]time.Time{}
	for _, r := range f.store.Registrations(g.ID) {
		created[r.UserID] = r.CreatedAt.Truncate(time.Microsecond)
	}
	for i := 1; i < len(targets); i++ {
		prev, cur := created[targets[i-1].UserID], created[targets[i].UserID]
		assert.True(t, prev.Before(cur), "entry %d must sort after entry %d once stored as timestamptz", i, i-1)
	}
}

func TestNoOpMoveWritesAndPublishesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.game(t, models.Game{MaxPlayers: 1})
	a, b := f.user(t, "a", false), f.user(t, "b", false)
	f.now = start.Add(-day)
	_, err := f.svc.Join(ctx, g.ID, a)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, g.ID, b)
	require.NoError(t, err)

	var published int
	f.svc.OnChange = func(roster.View) { published++ }

	res, err := f.svc.MoveToActive(ctx, g.ID, f.admin, registration.Target{UserID: a})
	require.NoError(t, err)
	assert.False(t, res.Registration.IsWaitlist)
	res, err = f.svc.MoveToWaitlist(ctx, g.ID, f.admin, registration.Target{UserID: b})
	require.NoError(t, err)
	assert.True(t, res.Registration.IsWaitlist)
	assert.Empty(t, res.Promoted)
	assert.Zero(t, published)

	_, err = f.svc.MoveToWaitlist(ctx, g.ID, f.admin, registration.Target{UserID: a})
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestUpcomingGamesExcludesStartedGames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.game(t, models.Game{MaxPlayers: 2})
	later := f.game(t, models.Game{MaxPlayers: 2, DateTime: start.Add(day)})

	f.now = start
	games, err := f.svc.UpcomingGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1, "a game starting right now is no longer upcoming")
	assert.Equal(t, later.ID, games[0].ID)
}
