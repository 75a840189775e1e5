package handlers

import (
	"context"
	"time"

	"stepper-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore is the account persistence surface the handlers need.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProfileStore is the profile persistence surface. Step 1 upserts, the later
// steps only update, and a missing document comes back as nil, nil.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error)
	UpsertStep1(ctx context.Context, userID bson.ObjectID, firstName, lastName string, dateOfBirth time.Time) (*models.Profile, error)
	UpdateStep2(ctx context.Context, userID bson.ObjectID, phone, address, city, country string) (*models.Profile, error)
	UpdateStep3(ctx context.Context, userID bson.ObjectID, bio string, interests []string, profilePicture string) (*models.Profile, error)
}
