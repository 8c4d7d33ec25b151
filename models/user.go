package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username       string               `bson:"username" json:"username"`
	Email          string               `bson:"email" json:"email"`
	Password       string               `bson:"password" json:"-"`
	IsAdmin        bool                 `bson:"isAdmin" json:"isAdmin"`
	CreatedRecipes []primitive.ObjectID `bson:"createdRecipes" json:"createdRecipes"`
	Favorites      []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}

// AuditRecord tracks privileged actions: admin session elevation and
// moderation status transitions.
type AuditRecord struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Event  string             `bson:"event" json:"event"`
	UserID string             `bson:"userId" json:"userId"`
	Detail string             `bson:"detail,omitempty" json:"detail,omitempty"`
	At     time.Time          `bson:"at" json:"at"`
}
