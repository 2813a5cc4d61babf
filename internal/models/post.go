package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"` // hex id of the author
	Content   string             `json:"content" bson:"content"`
	ImageURLs []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=2000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

// SavedPostView is a saved-post entry joined with its post. Post is nil when
// the referenced post has been deleted; the entry still occupies its slot so
// ordering and pagination stay stable.
type SavedPostView struct {
	PostID         string    `json:"post_id"`
	CollectionName string    `json:"collection_name"`
	SavedAt        time.Time `json:"saved_at"`
	Post           *Post     `json:"post"`
}
