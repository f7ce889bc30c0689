package repository

import (
	"context"
	"testing"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Dev", Email: email, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestProfileRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "dev@example.com")

	t.Run("absent profile is nil without error", func(t *testing.T) {
		got, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	profile := &models.Profile{
		UserID: user.ID,
		Status: "Developer",
		Skills: []string{"Go", "SQL"},
	}
	require.NoError(t, repo.Save(ctx, profile))

	t.Run("skills survive the round trip", func(t *testing.T) {
		got, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
		assert.Equal(t, "Dev", got.User.Name)
		// Only the public owner columns are joined.
		assert.Empty(t, got.User.Email)
		// History fields are arrays even before any entries exist.
		assert.NotNil(t, got.Experience)
		assert.NotNil(t, got.Education)
	})

	t.Run("history entries come back newest first", func(t *testing.T) {
		from := time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.AddExperience(ctx, profile.ID,
			&models.Experience{Title: "Junior", Company: "Acme", From: from}))
		require.NoError(t, repo.AddExperience(ctx, profile.ID,
			&models.Experience{Title: "Senior", Company: "Acme", From: from.AddDate(4, 0, 0)}))

		got, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got.Experience, 2)
		assert.Equal(t, "Senior", got.Experience[0].Title)
		assert.Equal(t, "Junior", got.Experience[1].Title)
	})

	t.Run("entry deletion is scoped to the profile", func(t *testing.T) {
		other := seedUser(t, db, "other@example.com")
		otherProfile := &models.Profile{UserID: other.ID, Status: "Developer", Skills: []string{"Go"}}
		require.NoError(t, repo.Save(ctx, otherProfile))

		mine, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		target := mine.Experience[0].ID

		// The wrong profile id must not delete anything.
		require.NoError(t, repo.DeleteExperience(ctx, otherProfile.ID, target))
		mine, err = repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, mine.Experience, 2)

		require.NoError(t, repo.DeleteExperience(ctx, profile.ID, target))
		mine, err = repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, mine.Experience, 1)
	})

	t.Run("list preloads owners and history", func(t *testing.T) {
		profiles, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.NotEmpty(t, profiles[0].User.Name)
		assert.Empty(t, profiles[0].User.Email)

		// The first profile still has one experience entry; the second has
		// none but serializes as an empty array either way.
		assert.Len(t, profiles[0].Experience, 1)
		assert.NotNil(t, profiles[1].Experience)
		assert.NotNil(t, profiles[1].Education)
	})

	t.Run("delete removes profile and entries", func(t *testing.T) {
		require.NoError(t, repo.AddEducation(ctx, profile.ID, &models.Education{
			School: "State University", Degree: "BSc", FieldOfStudy: "CS",
			From: time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC),
		}))
		require.NoError(t, repo.DeleteByUserID(ctx, user.ID))

		got, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		var exp, edu int64
		db.Model(&models.Experience{}).Where("profile_id = ?", profile.ID).Count(&exp)
		db.Model(&models.Education{}).Where("profile_id = ?", profile.ID).Count(&edu)
		assert.Zero(t, exp)
		assert.Zero(t, edu)

		// Deleting again is a no-op.
		require.NoError(t, repo.DeleteByUserID(ctx, user.ID))
	})
}

func TestProfileUniquePerUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "dev@example.com")
	repo := NewProfileRepository(db)

	require.NoError(t, repo.Save(ctx, &models.Profile{UserID: user.ID, Status: "Developer", Skills: []string{"Go"}}))
	err := db.WithContext(ctx).Create(&models.Profile{UserID: user.ID, Status: "Other", Skills: []string{"Go"}}).Error
	assert.Error(t, err)
}

// Every history mutation must drop the cached profile list, or the public
// list keeps serving stale entries until the TTL runs out.
func TestEntryMutationsInvalidateProfileCache(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "dev@example.com")

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	profile := &models.Profile{UserID: user.ID, Status: "Developer", Skills: []string{"Go"}}
	require.NoError(t, repo.Save(ctx, profile))

	prime := func() {
		t.Helper()
		require.NoError(t, cache.SetJSON(ctx, cache.ProfileListKey, []string{"stale"}, time.Minute))
	}
	assertDropped := func(op string) {
		t.Helper()
		assert.False(t, mr.Exists(cache.ProfileListKey), "%s left a stale profile list", op)
	}

	from := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	prime()
	exp := &models.Experience{Title: "Engineer", Company: "Acme", From: from}
	require.NoError(t, repo.AddExperience(ctx, profile.ID, exp))
	assertDropped("AddExperience")

	prime()
	require.NoError(t, repo.DeleteExperience(ctx, profile.ID, exp.ID))
	assertDropped("DeleteExperience")

	prime()
	edu := &models.Education{School: "State University", Degree: "BSc", FieldOfStudy: "CS", From: from}
	require.NoError(t, repo.AddEducation(ctx, profile.ID, edu))
	assertDropped("AddEducation")

	prime()
	require.NoError(t, repo.DeleteEducation(ctx, profile.ID, edu.ID))
	assertDropped("DeleteEducation")
}
