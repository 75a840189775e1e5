package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile holds the three-step onboarding data for one user, exactly one
// document per user. CurrentStep and IsProfileCreated are server-authoritative
// and never taken from client input.
type Profile struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           bson.ObjectID `bson:"user_id" json:"user_id"`
	IsProfileCreated bool          `bson:"is_profile_created" json:"is_profile_created"`
	CurrentStep      int           `bson:"current_step" json:"current_step"`

	// Step 1: basic info
	FirstName   string    `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName    string    `bson:"last_name,omitempty" json:"last_name,omitempty"`
	DateOfBirth time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`

	// Step 2: contact & location
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`

	// Step 3: preferences
	Bio            string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests      []string `bson:"interests,omitempty" json:"interests,omitempty"`
	ProfilePicture string   `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
