package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/models"
	"volunteer-match-server/testutils"
	"volunteer-match-server/types"
)

func TestCreateUser_AssignsSequentialUsername(t *testing.T) {
	db := testutils.NewTestDB(t)
	existing := testutils.CreateUser(t, db, models.RoleAdmin, "admin@example.com")
	svc := NewUserAdminService(db)

	user, err := svc.Create(context.Background(), models.UserCreate{
		Name:     "Casey",
		Email:    " Casey@Example.com ",
		Role:     "CSR Rep",
		Password: "pa55word",
	})
	require.NoError(t, err)
	assert.Equal(t, "user"+itoa(existing.ID+1), user.Username)
	assert.Equal(t, "casey@example.com", user.Email)
	assert.Equal(t, models.RoleCSR, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, CheckPasswordHash("pa55word", user.PasswordHash))

	_, err = svc.Create(context.Background(), models.UserCreate{
		Name: "Dup", Email: "casey@example.com", Role: "pin", Password: "x",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(context.Background(), models.UserCreate{Name: "No role", Email: "n@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), models.UserCreate{Name: "Bad", Email: "b@example.com", Role: "owner", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func itoa(n uint) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	return string(buf)
}

func TestUpdateUser_PartialPatch(t *testing.T) {
	db := testutils.NewTestDB(t)
	admin := testutils.CreateUser(t, db, models.RoleAdmin, "admin@example.com")
	target := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	testutils.CreateUser(t, db, models.RolePIN, "taken@example.com")
	svc := NewUserAdminService(db)
	actor := types.NewPrincipal(&admin)
	ctx := context.Background()

	dept := "Outreach"
	updated, err := svc.Update(ctx, actor, target.ID, models.UserUpdate{Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Outreach", updated.Department)
	assert.Equal(t, target.Email, updated.Email)
	assert.Equal(t, models.RolePIN, updated.Role)

	role := "platform_manager"
	updated, err = svc.Update(ctx, actor, target.ID, models.UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlatformManager, updated.Role)

	taken := "taken@example.com"
	_, err = svc.Update(ctx, actor, target.ID, models.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	inactive := false
	_, err = svc.Update(ctx, actor, admin.ID, models.UserUpdate{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrConstraint)

	demote := "pin"
	_, err = svc.Update(ctx, actor, admin.ID, models.UserUpdate{Role: &demote})
	assert.ErrorIs(t, err, ErrConstraint)

	_, err = svc.Update(ctx, actor, 999, models.UserUpdate{Department: &dept})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_SoleAdminRejected(t *testing.T) {
	db := testutils.NewTestDB(t)
	admin := testutils.CreateUser(t, db, models.RoleAdmin, "admin@example.com")
	manager := testutils.CreateUser(t, db, models.RolePlatformManager, "pm@example.com")
	svc := NewUserAdminService(db)

	err := svc.Delete(context.Background(), types.NewPrincipal(&manager), admin.ID)
	assert.ErrorIs(t, err, ErrConstraint)

	err = svc.Delete(context.Background(), types.NewPrincipal(&admin), admin.ID)
	assert.ErrorIs(t, err, ErrConstraint)

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteUser_CascadesOwnedRequests(t *testing.T) {
	db := testutils.NewTestDB(t)
	actor := testutils.CreateUser(t, db, models.RoleAdmin, "root@example.com")
	victim := testutils.CreateUser(t, db, models.RoleCSR, "second@example.com")
	csr := testutils.CreateUser(t, db, models.RoleCSR, "csr@example.com")
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	owned := testutils.CreateRequest(t, db, victim.ID, "Owned by victim")
	unrelated := testutils.CreateRequest(t, db, pin.ID, "Someone else's")
	ctx := context.Background()

	lifecycle := NewLifecycleService(db)
	shortlist := NewShortlistService(db)
	_, err := lifecycle.Accept(ctx, owned.ID, csr.ID)
	require.NoError(t, err)
	require.NoError(t, shortlist.Shortlist(ctx, owned.ID, csr.ID))
	// victim also works another request as a CSR
	_, err = lifecycle.Accept(ctx, unrelated.ID, victim.ID)
	require.NoError(t, err)
	require.NoError(t, shortlist.Shortlist(ctx, unrelated.ID, victim.ID))
	require.NoError(t, shortlist.Shortlist(ctx, unrelated.ID, csr.ID))

	require.NoError(t, NewUserAdminService(db).Delete(ctx, types.NewPrincipal(&actor), victim.ID))

	var n int64
	db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.HelpRequest{}).Where("id = ?", owned.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.MatchEntry{}).Where("request_id = ? OR csr_id = ?", owned.ID, victim.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.ShortlistEntry{}).Where("request_id = ? OR csr_id = ?", owned.ID, victim.ID).Count(&n)
	assert.Zero(t, n)

	// rows unrelated to the deleted user survive
	db.Model(&models.ShortlistEntry{}).Where("request_id = ? AND csr_id = ?", unrelated.ID, csr.ID).Count(&n)
	assert.Equal(t, int64(1), n)
	db.Model(&models.HelpRequest{}).Where("id = ?", unrelated.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, NewUserAdminService(db).Delete(ctx, types.NewPrincipal(&actor), victim.ID), ErrNotFound)
}

func TestResetPassword(t *testing.T) {
	db := testutils.NewTestDB(t)
	user := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	svc := NewUserAdminService(db)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResetPassword(ctx, user.ID, "123"), ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, 999, "longenough"), ErrNotFound)
	require.NoError(t, svc.ResetPassword(ctx, user.ID, "longenough"))

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("longenough", stored.PasswordHash))
	assert.False(t, CheckPasswordHash(testutils.TestPassword, stored.PasswordHash))
}

func TestListUsers_PaginatesAndFilters(t *testing.T) {
	db := testutils.NewTestDB(t)
	testutils.CreateUser(t, db, models.RoleAdmin, "admin@example.com")
	testutils.CreateUser(t, db, models.RoleCSR, "csr1@example.com")
	testutils.CreateUser(t, db, models.RoleCSR, "csr2@example.com")
	testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	svc := NewUserAdminService(db)

	users, total, err := svc.List(context.Background(), UserQuery{Role: models.RoleCSR, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 1)
	assert.Equal(t, "csr1@example.com", users[0].Email)

	users, total, err = svc.List(context.Background(), UserQuery{Search: "PIN@"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "PIN", users[0].RoleLabel)
}
