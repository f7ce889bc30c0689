package repository

import (
	"context"
	"errors"

	"devconnector/internal/cache"
	"devconnector/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	DeleteByUserID(ctx context.Context, userID uint) error
	AddExperience(ctx context.Context, profileID uint, exp *models.Experience) error
	DeleteExperience(ctx context.Context, profileID, expID uint) error
	AddEducation(ctx context.Context, profileID uint, edu *models.Education) error
	DeleteEducation(ctx context.Context, profileID, eduID uint) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// preloadOwner joins only the public user columns; emails stay off every
// profile payload.
func preloadOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar")
}

// normalize keeps empty history entries serializing as arrays, not null.
func normalize(p *models.Profile) {
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
}

// GetByUserID loads a profile with its owner and history entries.
// Returns (nil, nil) when the user has no profile.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User", preloadOwner).
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Order("experiences.id DESC")
		}).
		Preload("Education", func(db *gorm.DB) *gorm.DB {
			return db.Order("educations.id DESC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalize(&profile)
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.WithContext(ctx).
		Preload("User", preloadOwner).
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Order("experiences.id DESC")
		}).
		Preload("Education", func(db *gorm.DB) *gorm.DB {
			return db.Order("educations.id DESC")
		}).
		Order("id").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		normalize(p)
	}
	return profiles, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Save(profile).Error
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}

func (r *profileRepository) AddExperience(ctx context.Context, profileID uint, exp *models.Experience) error {
	exp.ProfileID = profileID
	err := r.db.WithContext(ctx).Create(exp).Error
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}

// DeleteExperience removes one entry by id, scoped to the owning profile so a
// user cannot delete entries of someone else's profile. Absent ids are a no-op.
func (r *profileRepository) DeleteExperience(ctx context.Context, profileID, expID uint) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Experience{}, expID).Error
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}

func (r *profileRepository) AddEducation(ctx context.Context, profileID uint, edu *models.Education) error {
	edu.ProfileID = profileID
	err := r.db.WithContext(ctx).Create(edu).Error
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}

func (r *profileRepository) DeleteEducation(ctx context.Context, profileID, eduID uint) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Education{}, eduID).Error
	if err == nil {
		cache.InvalidateProfiles(ctx)
	}
	return err
}
