package repository

import (
	"context"
	"errors"
	"time"

	"stepper-backend/internal/database"
	"stepper-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{
		collection: database.GetCollection("profiles"),
	}
}

func (r *ProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return err
	}
	profile.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertStep1 writes the step 1 fields and points the wizard at step 2,
// creating the profile document if this is the first submission. Resubmitting
// after later steps rewinds current_step to 2; is_profile_created is never
// touched here, so a completed profile stays completed.
func (r *ProfileRepo) UpsertStep1(ctx context.Context, userID bson.ObjectID, firstName, lastName string, dateOfBirth time.Time) (*models.Profile, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"first_name":    firstName,
			"last_name":     lastName,
			"date_of_birth": dateOfBirth,
			"current_step":  2,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"is_profile_created": false,
			"created_at":         now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.Profile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateStep2 writes the step 2 fields and advances to step 3. It never
// creates a document: a missing profile comes back as nil, nil and the caller
// reports not found.
func (r *ProfileRepo) UpdateStep2(ctx context.Context, userID bson.ObjectID, phone, address, city, country string) (*models.Profile, error) {
	update := bson.M{
		"$set": bson.M{
			"phone":        phone,
			"address":      address,
			"city":         city,
			"country":      country,
			"current_step": 3,
			"updated_at":   time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateStep3 writes the step 3 fields and marks the profile completed.
// current_step stays at 3; it is the terminal marker, not a fourth step.
func (r *ProfileRepo) UpdateStep3(ctx context.Context, userID bson.ObjectID, bio string, interests []string, profilePicture string) (*models.Profile, error) {
	update := bson.M{
		"$set": bson.M{
			"bio":                bio,
			"interests":          interests,
			"profile_picture":    profilePicture,
			"is_profile_created": true,
			"current_step":       3,
			"updated_at":         time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureIndexes creates necessary indexes for the profiles collection
func (r *ProfileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
