package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/repositories"
)

// AllCollections is the sentinel filter value returning every saved post.
const AllCollections = "All"

// SavedPostsService reads a user's saved posts back for display, joined with
// the post documents.
type SavedPostsService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// NewSavedPostsService creates a new SavedPostsService
func NewSavedPostsService(users repositories.UserRepository, posts repositories.PostRepository) *SavedPostsService {
	return &SavedPostsService{users: users, posts: posts}
}

// List returns the user's saved posts filtered by collection name, newest
// first, together with the sorted collection set. An empty name or the
// AllCollections sentinel disables filtering. Entries whose collection was
// deleted are surfaced under the default collection, and entries whose post
// no longer exists keep their slot with a nil post payload.
func (s *SavedPostsService) List(ctx context.Context, userID, collectionName string) ([]models.SavedPostView, []models.Collection, error) {
	collectionName = strings.TrimSpace(collectionName)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	existing := make(map[string]bool, len(user.SavedCollections))
	for _, c := range user.SavedCollections {
		existing[c.Name] = true
	}

	all := collectionName == "" || collectionName == AllCollections
	entries := make([]models.SavedPostEntry, 0, len(user.SavedPosts))
	for _, e := range user.SavedPosts {
		// Orphaned entries fall back to the default collection.
		name := e.CollectionName
		if !existing[name] {
			name = models.GeneralCollectionName
		}
		if all || name == collectionName {
			e.CollectionName = name
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.PostID
	}
	postMap, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	views := make([]models.SavedPostView, len(entries))
	for i, e := range entries {
		views[i] = models.SavedPostView{
			PostID:         e.PostID,
			CollectionName: e.CollectionName,
			SavedAt:        e.SavedAt,
			Post:           postMap[e.PostID],
		}
	}
	return views, sortedCollections(user.SavedCollections), nil
}
