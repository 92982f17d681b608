package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/pkg/apperror"
)

func seedHospitals(t *testing.T, repo Collection[models.Hospital], names ...string) {
	t.Helper()
	for i, name := range names {
		h := &models.Hospital{
			Name:         name,
			HospitalRank: i + 1,
			City:         "Dhaka",
			Phone:        "0171000000" + string(rune('0'+i)),
		}
		require.NoError(t, repo.Create(context.Background(), h))
	}
}

func TestMemoryCollection_CreateAssignsIDsAndTimestamps(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	h := &models.Hospital{Name: "Evercare", Phone: "01710000001"}

	require.NoError(t, repo.Create(context.Background(), h))

	assert.Equal(t, uint(1), h.ID)
	assert.False(t, h.CreatedAt.IsZero())
	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Evercare", got.Name)
}

func TestMemoryCollection_UniquePhoneIsConflict(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Hospital{Name: "A", Phone: "01710000001"}))

	err := repo.Create(ctx, &models.Hospital{Name: "B", Phone: "01710000001"})

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrorTypeConflict))
}

func TestMemoryCollection_UpdateKeepsOwnKey(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	ctx := context.Background()
	h := &models.Hospital{Name: "A", Phone: "01710000001"}
	require.NoError(t, repo.Create(ctx, h))
	other := &models.Hospital{Name: "B", Phone: "01710000002"}
	require.NoError(t, repo.Create(ctx, other))

	h.Name = "A2"
	require.NoError(t, repo.Update(ctx, h))

	other.Phone = "01710000001"
	err := repo.Update(ctx, other)
	assert.True(t, apperror.Is(err, apperror.ErrorTypeConflict))
}

func TestMemoryCollection_MissingFeeSortsLikeNull(t *testing.T) {
	repo := NewMemoryOfferingRepo()
	ctx := context.Background()
	fee := func(f float64) *float64 { return &f }
	require.NoError(t, repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 1, HomeCollectionFee: fee(0)}))
	require.NoError(t, repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 2}))
	require.NoError(t, repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 3, HomeCollectionFee: fee(80)}))

	ids := func(sort query.Sort) []uint {
		rows, _, err := repo.Find(ctx, nil, sort, query.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		out := make([]uint, len(rows))
		for i, o := range rows {
			out[i] = o.TestID
		}
		return out
	}

	assert.Equal(t, []uint{2, 1, 3}, ids(query.Sort{Field: "home_collection_fee"}))
	assert.Equal(t, []uint{3, 1, 2}, ids(query.Sort{Field: "home_collection_fee", Desc: true}))
}

func TestMemoryCollection_OfferingPairIsUnique(t *testing.T) {
	repo := NewMemoryOfferingRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 2}))
	require.NoError(t, repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 3}))

	err := repo.Create(ctx, &models.HospitalTestOffering{HospitalID: 1, TestID: 2})

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrorTypeConflict))
	assert.Equal(t, "this hospital already offers this test", apperror.PublicMessage(err))
}

func TestMemoryCollection_FindPaginatesSortedMatches(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	seedHospitals(t, repo, "Labaid", "Apollo", "Square", "Ibn Sina", "Evercare")
	ctx := context.Background()

	rows, total, err := repo.Find(ctx, nil, query.ByName, query.Page{Number: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ibn Sina", rows[0].Name)
	assert.Equal(t, "Labaid", rows[1].Name)

	rows, total, err = repo.Find(ctx, nil, query.ByName, query.Page{Number: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, rows)
}

func TestMemoryCollection_FindAppliesPredicate(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Hospital{Name: "A", City: "Dhaka City", Phone: "1"}))
	require.NoError(t, repo.Create(ctx, &models.Hospital{Name: "B", City: "Rajshahi", Phone: "2"}))

	city := "dhaka"
	pred := query.NewFilterBuilder().Contains("city", &city).Build()
	rows, total, err := repo.Find(ctx, pred, query.ByName, query.Page{Number: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "A", rows[0].Name)

	n, err := repo.Count(ctx, pred)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCollection_FindAllLimit(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	seedHospitals(t, repo, "C", "A", "B")

	rows, err := repo.FindAll(context.Background(), nil, query.Sort{Field: "name", Desc: true}, 2)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "C", rows[0].Name)
	assert.Equal(t, "B", rows[1].Name)
}

func TestMemoryCollection_DeleteAndNotFound(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	seedHospitals(t, repo, "A")
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 1))

	_, err := repo.GetByID(ctx, 1)
	assert.True(t, apperror.Is(err, apperror.ErrorTypeNotFound))
	assert.Equal(t, "Hospital not found", apperror.PublicMessage(err))
	assert.True(t, apperror.Is(repo.Delete(ctx, 1), apperror.ErrorTypeNotFound))
	assert.True(t, apperror.Is(repo.Update(ctx, &models.Hospital{ID: 9}), apperror.ErrorTypeNotFound))
}

func TestMemoryCollection_CancelledContext(t *testing.T) {
	repo := NewMemoryHospitalRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.Find(ctx, nil, query.ByName, query.Page{Number: 1, Limit: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserRepository_RefreshTokenLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := &models.User{Username: "Admin", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, store.Users.CreateUser(ctx, user))

	found, err := store.Users.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	dup := store.Users.CreateUser(ctx, &models.User{Username: "ADMIN"})
	assert.True(t, apperror.Is(dup, apperror.ErrorTypeConflict))

	require.NoError(t, store.Users.CreateRefreshToken(ctx, &models.RefreshToken{UserID: user.ID, TokenHash: "abc"}))
	token, err := store.Users.FindRefreshTokenByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)

	require.NoError(t, store.Users.RevokeRefreshTokenByHash(ctx, "abc"))
	_, err = store.Users.FindRefreshTokenByHash(ctx, "abc")
	assert.True(t, apperror.Is(err, apperror.ErrorTypeNotFound))
}

func TestAuditRepository_NewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Audit.CreateAuditLog(ctx, nil, "hospital_create", "first"))
	require.NoError(t, store.Audit.CreateAuditLog(ctx, nil, "hospital_delete", "second"))
	require.NoError(t, store.Audit.CreateAuditLog(ctx, nil, "hospital_create", "third"))

	action := "hospital_create"
	logs, total, err := store.Audit.ListAuditLogs(ctx, models.AuditFilter{Action: &action}, query.Page{Number: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Equal(t, "third", logs[0].Details)
}
