package services

import (
	"context"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGateway is an in-memory stand-in for the Mongo repositories. It
// mutates user documents the way the real single-document updates do, so
// invariants like the rename migration can be checked end to end.
type fakeGateway struct {
	users map[string]*models.User
	posts map[string]*models.Post
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users: make(map[string]*models.User),
		posts: make(map[string]*models.Post),
	}
}

func (g *fakeGateway) addUser() *models.User {
	now := time.Now()
	user := &models.User{
		ID:               primitive.NewObjectID(),
		Name:             "Jean Dupont",
		Username:         "jean",
		Email:            "jean@example.com",
		SavedCollections: []models.Collection{models.NewGeneralCollection(now)},
		SavedPosts:       []models.SavedPostEntry{},
		CreatedAt:        now,
	}
	g.users[user.ID.Hex()] = user
	return user
}

func (g *fakeGateway) addPost(content string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    "author",
		Content:   content,
		CreatedAt: time.Now(),
	}
	g.posts[post.ID.Hex()] = post
	return post
}

// --- UserRepository ---

func (g *fakeGateway) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	g.users[user.ID.Hex()] = user
	return nil
}

func (g *fakeGateway) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := g.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", id)
	}
	cp := *user
	cp.SavedCollections = append([]models.Collection(nil), user.SavedCollections...)
	cp.SavedPosts = append([]models.SavedPostEntry(nil), user.SavedPosts...)
	return &cp, nil
}

func (g *fakeGateway) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range g.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", email)
}

func (g *fakeGateway) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range g.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", username)
}

func (g *fakeGateway) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	for _, u := range g.users {
		if u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", uid)
}

func (g *fakeGateway) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := g.users[user.ID.Hex()]; !ok {
		return apperrors.NewNotFound("user", user.ID.Hex())
	}
	g.users[user.ID.Hex()] = user
	return nil
}

// --- CollectionRepository ---

func (g *fakeGateway) mutateUser(userID string, fn func(*models.User)) error {
	user, ok := g.users[userID]
	if !ok {
		return apperrors.NewNotFound("user", userID)
	}
	fn(user)
	return nil
}

func (g *fakeGateway) AppendCollection(ctx context.Context, userID string, col models.Collection) error {
	return g.mutateUser(userID, func(u *models.User) {
		u.SavedCollections = append(u.SavedCollections, col)
	})
}

func (g *fakeGateway) RenameCollection(ctx context.Context, userID, collectionID, oldName, newName string) error {
	return g.mutateUser(userID, func(u *models.User) {
		for i := range u.SavedCollections {
			if u.SavedCollections[i].ID == collectionID {
				u.SavedCollections[i].Name = newName
			}
		}
		for i := range u.SavedPosts {
			if u.SavedPosts[i].CollectionName == oldName {
				u.SavedPosts[i].CollectionName = newName
			}
		}
	})
}

func (g *fakeGateway) SetCollectionColor(ctx context.Context, userID, collectionID, color string) error {
	return g.mutateUser(userID, func(u *models.User) {
		for i := range u.SavedCollections {
			if u.SavedCollections[i].ID == collectionID {
				u.SavedCollections[i].Color = color
			}
		}
	})
}

func (g *fakeGateway) SetCollectionPinned(ctx context.Context, userID, collectionID string, pinned bool) error {
	return g.mutateUser(userID, func(u *models.User) {
		for i := range u.SavedCollections {
			if u.SavedCollections[i].ID == collectionID {
				u.SavedCollections[i].Pinned = pinned
			}
		}
	})
}

func (g *fakeGateway) RemoveCollection(ctx context.Context, userID, collectionID string) error {
	return g.mutateUser(userID, func(u *models.User) {
		kept := u.SavedCollections[:0]
		for _, c := range u.SavedCollections {
			if c.ID != collectionID {
				kept = append(kept, c)
			}
		}
		u.SavedCollections = kept
	})
}

func (g *fakeGateway) AddSavedPost(ctx context.Context, userID string, entry models.SavedPostEntry) error {
	return g.mutateUser(userID, func(u *models.User) {
		u.SavedPosts = append(u.SavedPosts, entry)
	})
}

func (g *fakeGateway) RemoveSavedPost(ctx context.Context, userID, postID, collectionName string) error {
	return g.mutateUser(userID, func(u *models.User) {
		kept := u.SavedPosts[:0]
		for _, e := range u.SavedPosts {
			if !(e.PostID == postID && e.CollectionName == collectionName) {
				kept = append(kept, e)
			}
		}
		u.SavedPosts = kept
	})
}

// --- PostRepository ---

func (g *fakeGateway) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	g.posts[post.ID.Hex()] = post
	return nil
}

func (g *fakeGateway) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := g.posts[id]
	if !ok {
		return nil, apperrors.NewNotFound("post", id)
	}
	return post, nil
}

func (g *fakeGateway) GetPostsByIDs(ctx context.Context, ids []string) (map[string]*models.Post, error) {
	out := make(map[string]*models.Post)
	for _, id := range ids {
		if p, ok := g.posts[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (g *fakeGateway) GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range g.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (g *fakeGateway) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range g.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (g *fakeGateway) DeletePost(ctx context.Context, id string) error {
	if _, ok := g.posts[id]; !ok {
		return apperrors.NewNotFound("post", id)
	}
	delete(g.posts, id)
	return nil
}
