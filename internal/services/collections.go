// Package services holds the domain logic sitting between the HTTP handlers
// and the repositories: collection management, saved-posts queries and
// session tokens.
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/repositories"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SaveAction reports the outcome of the save/unsave toggle.
type SaveAction string

const (
	ActionSaved   SaveAction = "saved"
	ActionUnsaved SaveAction = "unsaved"
)

// CollectionService owns the saved-post collections of a user: creation,
// rename (with entry migration), recolor, pin, delete and the save/unsave
// toggle. All writes go through single-document updates on the user record.
type CollectionService struct {
	users repositories.UserRepository
	cols  repositories.CollectionRepository
	posts repositories.PostRepository
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(users repositories.UserRepository, cols repositories.CollectionRepository, posts repositories.PostRepository) *CollectionService {
	return &CollectionService{users: users, cols: cols, posts: posts}
}

// Create adds a new collection for the user. The name must be non-empty
// after trimming, must not be the default collection's name in any casing,
// and must not duplicate an existing name (case-sensitive).
func (s *CollectionService) Create(ctx context.Context, userID, name string) (*models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("collection name cannot be empty")
	}
	if strings.EqualFold(name, models.GeneralCollectionName) {
		return nil, apperrors.NewValidation("%q is reserved", models.GeneralCollectionName)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range user.SavedCollections {
		if c.Name == name {
			return nil, apperrors.NewValidation("a collection named %q already exists", name)
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, apperrors.NewUpstream("failed to generate collection id", err)
	}
	col := models.Collection{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.cols.AppendCollection(ctx, userID, col); err != nil {
		return nil, err
	}
	return &col, nil
}

// Rename changes a collection's name and migrates every saved-post entry
// referencing the old name in the same document update. The default
// collection cannot be renamed.
func (s *CollectionService) Rename(ctx context.Context, userID, collectionID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.NewValidation("collection name cannot be empty")
	}
	if strings.EqualFold(newName, models.GeneralCollectionName) {
		return apperrors.NewValidation("%q is reserved", models.GeneralCollectionName)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	col, err := findCollection(user, collectionID)
	if err != nil {
		return err
	}
	if col.IsGeneral() {
		return apperrors.NewValidation("the default collection cannot be renamed")
	}
	for _, c := range user.SavedCollections {
		if c.ID != collectionID && c.Name == newName {
			return apperrors.NewValidation("a collection named %q already exists", newName)
		}
	}

	return s.cols.RenameCollection(ctx, userID, collectionID, col.Name, newName)
}

// SetColor sets the collection's color to a palette member, or back to the
// default with an empty string. Idempotent.
func (s *CollectionService) SetColor(ctx context.Context, userID, collectionID, color string) error {
	if !models.IsValidCollectionColor(color) {
		return apperrors.NewValidation("unknown color %q", color)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := findCollection(user, collectionID); err != nil {
		return err
	}
	return s.cols.SetCollectionColor(ctx, userID, collectionID, color)
}

// TogglePin flips the collection's pinned flag and returns the new value.
func (s *CollectionService) TogglePin(ctx context.Context, userID, collectionID string) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	col, err := findCollection(user, collectionID)
	if err != nil {
		return false, err
	}
	pinned := !col.Pinned
	if err := s.cols.SetCollectionPinned(ctx, userID, collectionID, pinned); err != nil {
		return false, err
	}
	return pinned, nil
}

// Delete removes a collection. Saved-post entries referencing it are kept;
// the query service surfaces them under the default collection. The default
// collection cannot be deleted.
func (s *CollectionService) Delete(ctx context.Context, userID, collectionID string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	col, err := findCollection(user, collectionID)
	if err != nil {
		return err
	}
	if col.IsGeneral() {
		return apperrors.NewValidation("the default collection cannot be deleted")
	}
	return s.cols.RemoveCollection(ctx, userID, collectionID)
}

// SavePost toggles a post's membership in a collection: absent entries are
// created and existing ones removed. An empty collection name targets the
// default collection, which is always a valid target.
func (s *CollectionService) SavePost(ctx context.Context, userID, postID, collectionName string) (SaveAction, error) {
	collectionName = strings.TrimSpace(collectionName)
	if collectionName == "" {
		collectionName = models.GeneralCollectionName
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(user.SavedCollections))
	for _, c := range user.SavedCollections {
		existing[c.Name] = true
	}
	if collectionName != models.GeneralCollectionName && !existing[collectionName] {
		return "", apperrors.NewNotFound("collection", collectionName)
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return "", err
	}

	for _, e := range user.SavedPosts {
		// Match by the surfaced name: entries whose collection was deleted
		// show up under the default collection, so that is where the toggle
		// must find them. Removal uses the stored name.
		name := e.CollectionName
		if !existing[name] {
			name = models.GeneralCollectionName
		}
		if e.PostID == postID && name == collectionName {
			if err := s.cols.RemoveSavedPost(ctx, userID, postID, e.CollectionName); err != nil {
				return "", err
			}
			return ActionUnsaved, nil
		}
	}

	entry := models.SavedPostEntry{
		PostID:         postID,
		CollectionName: collectionName,
		SavedAt:        time.Now(),
	}
	if err := s.cols.AddSavedPost(ctx, userID, entry); err != nil {
		return "", err
	}
	return ActionSaved, nil
}

// List returns the user's collections sorted pinned-first, with the default
// collection leading its pin tier and insertion order preserved otherwise.
func (s *CollectionService) List(ctx context.Context, userID string) ([]models.Collection, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sortedCollections(user.SavedCollections), nil
}

func findCollection(user *models.User, collectionID string) (models.Collection, error) {
	for _, c := range user.SavedCollections {
		if c.ID == collectionID {
			return c, nil
		}
	}
	return models.Collection{}, apperrors.NewNotFound("collection", collectionID)
}

func sortedCollections(cols []models.Collection) []models.Collection {
	out := make([]models.Collection, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].IsGeneral() && !out[j].IsGeneral()
	})
	return out
}
