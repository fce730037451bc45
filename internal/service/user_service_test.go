package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/repository"
	"github.com/HKK13/hello-bott/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	entries map[string]*domain.DirectoryEntry
	err     error
}

func (d *stubDirectory) LookupUser(_ context.Context, chatID string) (*domain.DirectoryEntry, error) {
	if d.err != nil {
		return nil, d.err
	}
	entry, ok := d.entries[chatID]
	if !ok {
		return nil, errors.New("user_not_found")
	}
	return entry, nil
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{entries: map[string]*domain.DirectoryEntry{
		"UOWNER": {ChatID: "UOWNER", Name: "boss", RealName: "Ada King Lovelace", Email: "ada@example.com", IsOwner: true},
		"UADMIN": {ChatID: "UADMIN", Name: "admin", RealName: "Grace Hopper", Email: "grace@example.com", IsAdmin: true},
		"U1":     {ChatID: "U1", Name: "alan", RealName: "Alan Turing", Email: "alan@example.com"},
		"U2":     {ChatID: "U2", Name: "solo", RealName: "Prince"},
	}}
}

func setupUserService(t *testing.T, ownerID string) (UserService, repository.UserRepo, *stubDirectory, *clock.FakeClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	dir := newStubDirectory()
	clk := clock.Fake(testutil.FixedNow)
	return NewUserService(users, testutil.NewTestUoW(database), dir, clk, ownerID), users, dir, clk
}

func TestResolveIdentity_UnregisteredCaller(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "UOWNER")

	id, err := svc.ResolveIdentity(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: "U1"}, id)
}

func TestResolveIdentity_ConfiguredOwnerBeforeRegistration(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "UOWNER")

	id, err := svc.ResolveIdentity(context.Background(), "UOWNER")
	require.NoError(t, err)
	assert.True(t, id.IsOwner)
	assert.False(t, id.Registered)
	assert.True(t, id.CanManageUsers())
}

func TestResolveIdentity_SetOwnerIDLater(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")
	ctx := context.Background()

	id, err := svc.ResolveIdentity(ctx, "UOWNER")
	require.NoError(t, err)
	assert.False(t, id.IsOwner)

	svc.SetOwnerID("UOWNER")
	id, err = svc.ResolveIdentity(ctx, "UOWNER")
	require.NoError(t, err)
	assert.True(t, id.IsOwner)
}

func TestResolveIdentity_RegisteredUser(t *testing.T) {
	svc, users, _, _ := setupUserService(t, "")
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, testutil.NewTestUser("UADMIN", testutil.WithAdmin())))

	id, err := svc.ResolveIdentity(ctx, "UADMIN")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: "UADMIN", IsAdmin: true, Registered: true}, id)
}

func TestCreateUser_FromDirectory(t *testing.T) {
	svc, users, _, _ := setupUserService(t, "UOWNER")
	ctx := context.Background()

	owner := domain.Identity{ID: "UOWNER", IsOwner: true}
	created, err := svc.Create(ctx, owner, "UOWNER")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", created.FirstName)
	assert.Equal(t, "Lovelace", created.LastName)

	stored, err := users.GetByChatID(ctx, "UOWNER")
	require.NoError(t, err)
	assert.Equal(t, "boss", stored.ChatName)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.True(t, stored.IsOwner)
	assert.True(t, stored.CreatedAt.Equal(testutil.FixedNow))
}

func TestCreateUser_SingleWordNameIsLastName(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")

	created, err := svc.Create(context.Background(), domain.Identity{ID: "UADMIN", IsAdmin: true}, "U2")
	require.NoError(t, err)
	assert.Equal(t, "", created.FirstName)
	assert.Equal(t, "Prince", created.LastName)
}

func TestCreateUser_RequiresOwnerOrAdmin(t *testing.T) {
	svc, users, _, _ := setupUserService(t, "")
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Identity{ID: "U1", Registered: true}, "U2")
	require.ErrorIs(t, err, ErrOnlyOwnersCreate)
	assert.Equal(t, "only team owners can create users.", err.Error())

	_, err = users.GetByChatID(ctx, "U2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateUser_DuplicateIsDomainError(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")
	ctx := context.Background()
	admin := domain.Identity{ID: "UADMIN", IsAdmin: true}

	_, err := svc.Create(ctx, admin, "U1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, "U1")
	assert.ErrorIs(t, err, ErrUserRegistered)
}

func TestCreateUser_DirectoryFailureIsInternal(t *testing.T) {
	svc, _, dir, _ := setupUserService(t, "")
	dir.err = errors.New("directory unavailable")

	_, err := svc.Create(context.Background(), domain.Identity{ID: "UADMIN", IsAdmin: true}, "U1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.Classify(err))
}

func TestUpdateUser_SelfIsAllowed(t *testing.T) {
	svc, users, dir, clk := setupUserService(t, "")
	ctx := context.Background()
	_, err := svc.Create(ctx, domain.Identity{ID: "UADMIN", IsAdmin: true}, "U1")
	require.NoError(t, err)

	dir.entries["U1"] = &domain.DirectoryEntry{ChatID: "U1", Name: "aturing", RealName: "Alan M Turing", Email: "turing@example.com"}
	clk.Advance(time.Hour)

	updated, err := svc.Update(ctx, domain.Identity{ID: "U1", Registered: true}, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Alan M", updated.FirstName)

	stored, err := users.GetByChatID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "aturing", stored.ChatName)
	assert.Equal(t, "turing@example.com", stored.Email)
	assert.True(t, stored.CreatedAt.Equal(testutil.FixedNow), "created_at is preserved")
	assert.True(t, stored.UpdatedAt.Equal(testutil.FixedNow.Add(time.Hour)))
}

func TestUpdateUser_OtherRequiresOwnerOrAdmin(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")
	ctx := context.Background()
	_, err := svc.Create(ctx, domain.Identity{ID: "UADMIN", IsAdmin: true}, "U2")
	require.NoError(t, err)

	_, err = svc.Update(ctx, domain.Identity{ID: "U1", Registered: true}, "U2")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = svc.Update(ctx, domain.Identity{ID: "UADMIN", IsAdmin: true}, "U2")
	assert.NoError(t, err)
}

func TestUpdateUser_UnregisteredTarget(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")

	_, err := svc.Update(context.Background(), domain.Identity{ID: "U1"}, "U1")
	assert.ErrorIs(t, err, ErrUserUnknown)
}

func TestDeleteUser_OnlyOwners(t *testing.T) {
	svc, users, _, _ := setupUserService(t, "")
	ctx := context.Background()
	_, err := svc.Create(ctx, domain.Identity{ID: "UADMIN", IsAdmin: true}, "U1")
	require.NoError(t, err)

	err = svc.Delete(ctx, domain.Identity{ID: "UADMIN", IsAdmin: true}, "U1")
	require.ErrorIs(t, err, ErrOnlyOwnersDelete)

	require.NoError(t, svc.Delete(ctx, domain.Identity{ID: "UOWNER", IsOwner: true}, "U1"))
	_, err = users.GetByChatID(ctx, "U1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.Delete(ctx, domain.Identity{ID: "UOWNER", IsOwner: true}, "U1")
	assert.ErrorIs(t, err, ErrUserUnknown)
}

func TestListUsers(t *testing.T) {
	svc, _, _, _ := setupUserService(t, "")
	ctx := context.Background()
	admin := domain.Identity{ID: "UADMIN", IsAdmin: true}
	for _, id := range []string{"U1", "U2"} {
		_, err := svc.Create(ctx, admin, id)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "U1", list[0].ChatID)
	assert.Equal(t, "U2", list[1].ChatID)
}

// slowDirectory advances the fake clock on every lookup.
type slowDirectory struct {
	*stubDirectory
	clk  *clock.FakeClock
	cost time.Duration
}

func (d *slowDirectory) LookupUser(ctx context.Context, chatID string) (*domain.DirectoryEntry, error) {
	d.clk.Advance(d.cost)
	return d.stubDirectory.LookupUser(ctx, chatID)
}

func TestUserService_ObserverTimingUsesClock(t *testing.T) {
	database := testutil.NewTestDB(t)
	clk := clock.Fake(testutil.FixedNow)
	dir := &slowDirectory{stubDirectory: newStubDirectory(), clk: clk, cost: 3 * time.Second}
	obs := &recordingObserver{}
	svc := NewUserService(repository.NewSQLiteUserRepo(database), testutil.NewTestUoW(database), dir, clk, "UOWNER", obs)
	ctx := context.Background()

	owner := domain.Identity{ID: "UOWNER", IsOwner: true}
	_, err := svc.Create(ctx, owner, "U1")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, "U1"))

	events := obs.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "create-user", events[0].Name)
	assert.True(t, events[0].StartedAt.Equal(testutil.FixedNow))
	assert.Equal(t, 3*time.Second, events[0].Duration)
	assert.Equal(t, map[string]any{"caller": "UOWNER", "target": "U1"}, events[0].Fields)

	assert.Equal(t, "delete-user", events[1].Name)
	assert.True(t, events[1].StartedAt.Equal(testutil.FixedNow.Add(3*time.Second)))
	assert.Zero(t, events[1].Duration)
}
