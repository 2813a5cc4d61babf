package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/services"
	"github.com/lucasmnd/toile/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memGateway is a minimal in-memory persistence gateway backing the handler
// tests: one user document and a post table.
type memGateway struct {
	user  *models.User
	posts map[string]*models.Post
}

func newMemGateway() *memGateway {
	now := time.Now()
	return &memGateway{
		user: &models.User{
			ID:               primitive.NewObjectID(),
			Name:             "Jean",
			Username:         "jean",
			Email:            "jean@example.com",
			SavedCollections: []models.Collection{models.NewGeneralCollection(now)},
		},
		posts: map[string]*models.Post{},
	}
}

func (m *memGateway) get(userID string) (*models.User, error) {
	if m.user.ID.Hex() != userID {
		return nil, apperrors.NewNotFound("user", userID)
	}
	return m.user, nil
}

func (m *memGateway) CreateUser(ctx context.Context, user *models.User) error { return nil }
func (m *memGateway) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.get(id)
}
func (m *memGateway) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, apperrors.NewNotFound("user", email)
}
func (m *memGateway) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, apperrors.NewNotFound("user", username)
}
func (m *memGateway) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return nil, apperrors.NewNotFound("user", uid)
}
func (m *memGateway) UpdateUser(ctx context.Context, user *models.User) error { return nil }

func (m *memGateway) AppendCollection(ctx context.Context, userID string, col models.Collection) error {
	m.user.SavedCollections = append(m.user.SavedCollections, col)
	return nil
}
func (m *memGateway) RenameCollection(ctx context.Context, userID, collectionID, oldName, newName string) error {
	for i := range m.user.SavedCollections {
		if m.user.SavedCollections[i].ID == collectionID {
			m.user.SavedCollections[i].Name = newName
		}
	}
	for i := range m.user.SavedPosts {
		if m.user.SavedPosts[i].CollectionName == oldName {
			m.user.SavedPosts[i].CollectionName = newName
		}
	}
	return nil
}
func (m *memGateway) SetCollectionColor(ctx context.Context, userID, collectionID, color string) error {
	for i := range m.user.SavedCollections {
		if m.user.SavedCollections[i].ID == collectionID {
			m.user.SavedCollections[i].Color = color
		}
	}
	return nil
}
func (m *memGateway) SetCollectionPinned(ctx context.Context, userID, collectionID string, pinned bool) error {
	for i := range m.user.SavedCollections {
		if m.user.SavedCollections[i].ID == collectionID {
			m.user.SavedCollections[i].Pinned = pinned
		}
	}
	return nil
}
func (m *memGateway) RemoveCollection(ctx context.Context, userID, collectionID string) error {
	kept := m.user.SavedCollections[:0]
	for _, c := range m.user.SavedCollections {
		if c.ID != collectionID {
			kept = append(kept, c)
		}
	}
	m.user.SavedCollections = kept
	return nil
}
func (m *memGateway) AddSavedPost(ctx context.Context, userID string, entry models.SavedPostEntry) error {
	m.user.SavedPosts = append(m.user.SavedPosts, entry)
	return nil
}
func (m *memGateway) RemoveSavedPost(ctx context.Context, userID, postID, collectionName string) error {
	kept := m.user.SavedPosts[:0]
	for _, e := range m.user.SavedPosts {
		if !(e.PostID == postID && e.CollectionName == collectionName) {
			kept = append(kept, e)
		}
	}
	m.user.SavedPosts = kept
	return nil
}

func (m *memGateway) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	m.posts[post.ID.Hex()] = post
	return nil
}
func (m *memGateway) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFound("post", id)
}
func (m *memGateway) GetPostsByIDs(ctx context.Context, ids []string) (map[string]*models.Post, error) {
	out := make(map[string]*models.Post)
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
func (m *memGateway) GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	return nil, nil
}
func (m *memGateway) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return nil, nil
}
func (m *memGateway) DeletePost(ctx context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

func newHandlerFixture(t *testing.T) (*memGateway, *CollectionHandler, *SavedPostHandler, *echo.Echo) {
	t.Helper()
	gw := newMemGateway()
	colSvc := services.NewCollectionService(gw, gw, gw)
	spSvc := services.NewSavedPostsService(gw, gw)
	e := echo.New()
	e.Validator = validators.NewValidator()
	return gw, NewCollectionHandler(colSvc), NewSavedPostHandler(colSvc, spSvc), e
}

func doJSON(e *echo.Echo, gw *memGateway, method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: gw.user.ID.Hex(), Email: gw.user.Email})
	return rec, c
}

func TestCreateCollectionHandler(t *testing.T) {
	gw, h, _, e := newHandlerFixture(t)

	rec, c := doJSON(e, gw, http.MethodPost, "/api/v1/collections", `{"collectionName":"Lecture"}`)
	require.NoError(t, h.CreateCollection(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success    bool              `json:"success"`
		Collection models.Collection `json:"collection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Lecture", resp.Collection.Name)
	assert.NotEmpty(t, resp.Collection.ID)
}

func TestCreateCollectionHandlerDuplicate(t *testing.T) {
	gw, h, _, e := newHandlerFixture(t)

	_, c := doJSON(e, gw, http.MethodPost, "/api/v1/collections", `{"collectionName":"Lecture"}`)
	require.NoError(t, h.CreateCollection(c))

	rec, c := doJSON(e, gw, http.MethodPost, "/api/v1/collections", `{"collectionName":"Lecture"}`)
	require.NoError(t, h.CreateCollection(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestRenameGeneralCollectionHandler(t *testing.T) {
	gw, h, _, e := newHandlerFixture(t)

	rec, c := doJSON(e, gw, http.MethodPost, "/api/v1/collections/rename",
		`{"collectionId":"`+models.GeneralCollectionID+`","newName":"Autre"}`)
	require.NoError(t, h.RenameCollection(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenameUnknownCollectionHandler(t *testing.T) {
	gw, h, _, e := newHandlerFixture(t)

	rec, c := doJSON(e, gw, http.MethodPost, "/api/v1/collections/rename",
		`{"collectionId":"missing","newName":"Autre"}`)
	require.NoError(t, h.RenameCollection(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavePostHandlerToggles(t *testing.T) {
	gw, _, h, e := newHandlerFixture(t)
	post := &models.Post{Content: "bonjour"}
	require.NoError(t, gw.CreatePost(context.Background(), post))
	body := `{"postId":"` + post.ID.Hex() + `"}`

	rec, c := doJSON(e, gw, http.MethodPost, "/api/v1/save-post", body)
	require.NoError(t, h.SavePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Action  string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "saved", resp.Action)

	rec, c = doJSON(e, gw, http.MethodPost, "/api/v1/save-post", body)
	require.NoError(t, h.SavePost(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unsaved", resp.Action)
}

func TestListSavedPostsHandler(t *testing.T) {
	gw, _, h, e := newHandlerFixture(t)
	post := &models.Post{Content: "bonjour"}
	require.NoError(t, gw.CreatePost(context.Background(), post))
	gw.user.SavedPosts = []models.SavedPostEntry{{
		PostID:         post.ID.Hex(),
		CollectionName: models.GeneralCollectionName,
		SavedAt:        time.Now(),
	}}

	rec, c := doJSON(e, gw, http.MethodGet, "/api/v1/saved-posts?collectionName=All", "")
	require.NoError(t, h.ListSavedPosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success     bool                   `json:"success"`
		SavedPosts  []models.SavedPostView `json:"savedPosts"`
		Collections []models.Collection    `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.SavedPosts, 1)
	assert.Equal(t, post.ID.Hex(), resp.SavedPosts[0].PostID)
	require.Len(t, resp.Collections, 1)
	assert.Equal(t, models.GeneralCollectionName, resp.Collections[0].Name)
}

func TestUnauthenticatedRequest(t *testing.T) {
	gw, h, _, e := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader(`{"collectionName":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = gw

	err := h.CreateCollection(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
