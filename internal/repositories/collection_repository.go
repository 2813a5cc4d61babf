package repositories

import (
	"context"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionRepository defines the write operations on a user's embedded
// saved-collections and saved-posts arrays. Every operation is a single
// UpdateOne on the user document, so a crash can never leave the collection
// name and its entries diverged.
type CollectionRepository interface {
	AppendCollection(ctx context.Context, userID string, col models.Collection) error
	RenameCollection(ctx context.Context, userID, collectionID, oldName, newName string) error
	SetCollectionColor(ctx context.Context, userID, collectionID, color string) error
	SetCollectionPinned(ctx context.Context, userID, collectionID string, pinned bool) error
	RemoveCollection(ctx context.Context, userID, collectionID string) error
	AddSavedPost(ctx context.Context, userID string, entry models.SavedPostEntry) error
	RemoveSavedPost(ctx context.Context, userID, postID, collectionName string) error
}

// MongoCollectionRepository implements CollectionRepository against the
// users collection.
type MongoCollectionRepository struct {
	collection *mongo.Collection
}

// NewMongoCollectionRepository creates a new MongoCollectionRepository
func NewMongoCollectionRepository(db *mongo.Database) *MongoCollectionRepository {
	return &MongoCollectionRepository{collection: db.Collection("users")}
}

func userFilter(userID string) (bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid user ID format")
	}
	return bson.M{"_id": objID}, nil
}

// AppendCollection appends a collection to the user's set
func (r *MongoCollectionRepository) AppendCollection(ctx context.Context, userID string, col models.Collection) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$push": bson.M{"saved_collections": col}}
	return r.updateUser(ctx, filter, update, nil, userID)
}

// RenameCollection sets the collection's name and rewrites every saved-post
// entry carrying the old name, in one atomic document update.
func (r *MongoCollectionRepository) RenameCollection(ctx context.Context, userID, collectionID, oldName, newName string) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"saved_collections.$[c].name":   newName,
			"saved_posts.$[e].collection_name": newName,
		},
	}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{
		bson.M{"c.id": collectionID},
		bson.M{"e.collection_name": oldName},
	}}
	opts := options.Update().SetArrayFilters(arrayFilters)
	return r.updateUser(ctx, filter, update, opts, userID)
}

// SetCollectionColor sets the collection's color
func (r *MongoCollectionRepository) SetCollectionColor(ctx context.Context, userID, collectionID, color string) error {
	return r.setCollectionField(ctx, userID, collectionID, "color", color)
}

// SetCollectionPinned sets the collection's pinned flag
func (r *MongoCollectionRepository) SetCollectionPinned(ctx context.Context, userID, collectionID string, pinned bool) error {
	return r.setCollectionField(ctx, userID, collectionID, "pinned", pinned)
}

func (r *MongoCollectionRepository) setCollectionField(ctx context.Context, userID, collectionID, field string, value interface{}) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"saved_collections.$[c]." + field: value}}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{bson.M{"c.id": collectionID}}}
	opts := options.Update().SetArrayFilters(arrayFilters)
	return r.updateUser(ctx, filter, update, opts, userID)
}

// RemoveCollection removes the collection from the user's set. Saved-post
// entries that referenced it are left in place; the query service surfaces
// them under the default collection.
func (r *MongoCollectionRepository) RemoveCollection(ctx context.Context, userID, collectionID string) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$pull": bson.M{"saved_collections": bson.M{"id": collectionID}}}
	return r.updateUser(ctx, filter, update, nil, userID)
}

// AddSavedPost appends a saved-post entry
func (r *MongoCollectionRepository) AddSavedPost(ctx context.Context, userID string, entry models.SavedPostEntry) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$push": bson.M{"saved_posts": entry}}
	return r.updateUser(ctx, filter, update, nil, userID)
}

// RemoveSavedPost removes the entry matching (postID, collectionName)
func (r *MongoCollectionRepository) RemoveSavedPost(ctx context.Context, userID, postID, collectionName string) error {
	filter, err := userFilter(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$pull": bson.M{"saved_posts": bson.M{
		"post_id":         postID,
		"collection_name": collectionName,
	}}}
	return r.updateUser(ctx, filter, update, nil, userID)
}

func (r *MongoCollectionRepository) updateUser(ctx context.Context, filter, update bson.M, opts *options.UpdateOptions, userID string) error {
	var res *mongo.UpdateResult
	var err error
	if opts != nil {
		res, err = r.collection.UpdateOne(ctx, filter, update, opts)
	} else {
		res, err = r.collection.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return apperrors.NewUpstream("failed to update user document", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NewNotFound("user", userID)
	}
	return nil
}
