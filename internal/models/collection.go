package models

import "time"

// GeneralCollectionID is the fixed id of the default collection every user
// owns. It is created with the user and can never be renamed or deleted.
const GeneralCollectionID = "general"

// GeneralCollectionName is the display name of the default collection.
const GeneralCollectionName = "Général"

// CollectionColors is the palette accepted by the color endpoint. The empty
// string stands for the default (uncolored) state.
var CollectionColors = []string{"gray", "red", "orange", "yellow", "green", "blue", "purple", "pink"}

// IsValidCollectionColor reports whether color is "" or a palette member.
func IsValidCollectionColor(color string) bool {
	if color == "" {
		return true
	}
	for _, c := range CollectionColors {
		if c == color {
			return true
		}
	}
	return false
}

// Collection is a named grouping of saved posts, embedded in the user
// document. Names are unique per user (case-sensitive).
type Collection struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	Pinned    bool      `json:"pinned" bson:"pinned"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// IsGeneral reports whether this is the immutable default collection.
func (c Collection) IsGeneral() bool { return c.ID == GeneralCollectionID }

// NewGeneralCollection builds the default collection for a new user.
func NewGeneralCollection(now time.Time) Collection {
	return Collection{
		ID:        GeneralCollectionID,
		Name:      GeneralCollectionName,
		CreatedAt: now,
	}
}

// SavedPostEntry links a post to one of the user's collections. There is at
// most one entry per (post, collection name) pair; saving the same pair again
// removes the entry.
type SavedPostEntry struct {
	PostID         string    `json:"post_id" bson:"post_id"`
	CollectionName string    `json:"collection_name" bson:"collection_name"`
	SavedAt        time.Time `json:"saved_at" bson:"saved_at"`
}

// CreateCollectionRequest defines the request body for creating a collection
type CreateCollectionRequest struct {
	CollectionName string `json:"collectionName" validate:"required"`
}

// RenameCollectionRequest defines the request body for renaming a collection
type RenameCollectionRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
	NewName      string `json:"newName" validate:"required"`
}

// SetCollectionColorRequest defines the request body for recoloring a collection
type SetCollectionColorRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
	Color        string `json:"color"`
}

// ToggleCollectionPinRequest defines the request body for pinning/unpinning
type ToggleCollectionPinRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
}

// DeleteCollectionRequest defines the request body for deleting a collection
type DeleteCollectionRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
}

// SavePostRequest defines the request body for the save/unsave toggle.
// An empty collectionName targets the default collection.
type SavePostRequest struct {
	PostID         string `json:"postId" validate:"required"`
	CollectionName string `json:"collectionName"`
}
