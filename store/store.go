package store

import (
	"context"

	"github.com/tejakonduru/caption-serve/caption"
	"github.com/tejakonduru/caption-serve/models"
)

// Store is the narrow persistence surface the handlers work against.
// Lookups return (nil, nil) when the record does not exist.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error

	CreateImage(ctx context.Context, image *models.Image) error
	ImagesByUser(ctx context.Context, userID string) ([]models.Image, error)
	ImageByID(ctx context.Context, id string) (*models.Image, error)
	UpdateImageCaptions(ctx context.Context, id string, captions caption.Set) (*models.Image, error)
	DeleteImage(ctx context.Context, id string) (bool, error)
}
