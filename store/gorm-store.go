package store

import (
	"context"
	"errors"
	"time"

	"github.com/tejakonduru/caption-serve/caption"
	"github.com/tejakonduru/caption-serve/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a GORM database handle.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser creates the row or refreshes an existing one in place.
func (s *GormStore) UpsertUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url", "updated_at",
		}),
	}).Create(user).Error
}

func (s *GormStore) CreateImage(ctx context.Context, image *models.Image) error {
	return s.db.WithContext(ctx).Create(image).Error
}

func (s *GormStore) ImagesByUser(ctx context.Context, userID string) ([]models.Image, error) {
	var images []models.Image
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (s *GormStore) ImageByID(ctx context.Context, id string) (*models.Image, error) {
	var image models.Image
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// UpdateImageCaptions sets all three caption columns at once and returns the
// refreshed row.
func (s *GormStore) UpdateImageCaptions(ctx context.Context, id string, captions caption.Set) (*models.Image, error) {
	err := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"caption_english": captions.English,
			"caption_telugu":  captions.Telugu,
			"caption_hindi":   captions.Hindi,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.ImageByID(ctx, id)
}

// DeleteImage reports whether a row was actually removed.
func (s *GormStore) DeleteImage(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Image{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
