package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/internal/word/repository"
	"github.com/wordcollab/wordcollab/internal/word/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRouter() *gin.Engine {
	g := gin.New()
	svc := service.NewStore(repository.NewMemoryRepo())
	RegisterWordRoutes(g, svc)
	RegisterWordRoutes(g.Group("/api"), svc)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

type wordJSON struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Collaborators []string `json:"collaborators"`
	CreatedAt     string   `json:"createdAt"`
}

func TestWordHandler_CreateCollaborateList(t *testing.T) {
	g := newRouter()

	// create
	w := do(g, http.MethodPost, "/words", `{"word":"  hello "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created wordJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "hello", created.Text)
	require.NotNil(t, created.Collaborators)
	require.Empty(t, created.Collaborators)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.CreatedAt)

	// collaborate
	w = do(g, http.MethodPost, "/collaborate", `{"wordId":"`+created.ID+`","name":"Bob"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated wordJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, []string{"Bob"}, updated.Collaborators)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	// list, also through the /api prefix
	for _, path := range []string{"/words", "/api/words"} {
		w = do(g, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []wordJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		require.Equal(t, created.ID, list[0].ID)
		require.Equal(t, []string{"Bob"}, list[0].Collaborators)
	}

	// get by id
	w = do(g, http.MethodGet, "/words/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWordHandler_ListEmptyIsArray(t *testing.T) {
	g := newRouter()
	w := do(g, http.MethodGet, "/words", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", w.Body.String())
}

func TestWordHandler_CreateErrors(t *testing.T) {
	g := newRouter()
	require.Equal(t, http.StatusOK, do(g, http.MethodPost, "/words", `{"word":"hello"}`).Code)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing field", `{}`, "Word is required"},
		{"blank", `{"word":"   "}`, "Word is required"},
		{"malformed json", `{"word":`, "Word is required"},
		{"duplicate", `{"word":"hello"}`, "Word already exists"},
		{"duplicate after trim", `{"word":" hello "}`, "Word already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(g, http.MethodPost, "/words", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tc.msg, errorOf(t, w))
		})
	}
}

func TestWordHandler_CollaborateErrors(t *testing.T) {
	g := newRouter()
	w := do(g, http.MethodPost, "/words", `{"word":"hello"}`)
	var created wordJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, http.StatusOK, do(g, http.MethodPost, "/collaborate", `{"wordId":"`+created.ID+`","name":"Alice"}`).Code)

	cases := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing name", `{"wordId":"` + created.ID + `"}`, http.StatusBadRequest, "Word ID and name are required"},
		{"blank name", `{"wordId":"` + created.ID + `","name":"  "}`, http.StatusBadRequest, "Word ID and name are required"},
		{"missing id", `{"name":"Alice"}`, http.StatusBadRequest, "Word ID and name are required"},
		{"duplicate", `{"wordId":"` + created.ID + `","name":" Alice "}`, http.StatusBadRequest, "Collaborator already exists"},
		{"unknown word", `{"wordId":"` + primitive.NewObjectID().Hex() + `","name":"Alice"}`, http.StatusNotFound, "Word not found"},
		{"malformed id", `{"wordId":"xyz","name":"Alice"}`, http.StatusNotFound, "Word not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(g, http.MethodPost, "/collaborate", tc.body)
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.msg, errorOf(t, w))
		})
	}
}

func TestWordHandler_Bulk(t *testing.T) {
	g := newRouter()
	require.Equal(t, http.StatusOK, do(g, http.MethodPost, "/words", `{"word":"apple"}`).Code)

	w := do(g, http.MethodPost, "/api/words/bulk", `{"words":"apple, banana,, cherry "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Created []wordJSON `json:"created"`
		Skipped []struct {
			Word  string `json:"word"`
			Error string `json:"error"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Created, 2)
	require.Len(t, res.Skipped, 1)
	require.Equal(t, "apple", res.Skipped[0].Word)

	w = do(g, http.MethodPost, "/words/bulk", `{"words":" , "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWordHandler_GetUnknown(t *testing.T) {
	g := newRouter()
	w := do(g, http.MethodGet, "/words/"+primitive.NewObjectID().Hex(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Word not found", errorOf(t, w))
}

// downService fails every call the way an unreachable store would.
type downService struct{}

var errDown = errors.New("dial tcp 10.0.0.5:27017: connection refused")

func unavailable() error { return errors.Join(service.ErrUnavailable, errDown) }

func (downService) List(context.Context) ([]*word.Word, error)         { return nil, unavailable() }
func (downService) Get(context.Context, string) (*word.Word, error)    { return nil, unavailable() }
func (downService) Create(context.Context, string) (*word.Word, error) { return nil, unavailable() }
func (downService) CreateMany(context.Context, []string) (*service.BulkResult, error) {
	return nil, unavailable()
}
func (downService) AddCollaborator(context.Context, string, string) (*word.Word, error) {
	return nil, unavailable()
}

func TestWordHandler_StoreFailuresDoNotLeak(t *testing.T) {
	g := gin.New()
	RegisterWordRoutes(g, downService{})

	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/words", "", "Failed to fetch words"},
		{http.MethodPost, "/words", `{"word":"hello"}`, "Failed to add word"},
		{http.MethodPost, "/collaborate", `{"wordId":"abc","name":"Bob"}`, "Failed to add collaborator"},
		{http.MethodPost, "/words/bulk", `{"words":"a,b"}`, "Failed to add words"},
	}
	for _, tc := range cases {
		w := do(g, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, w.Code, tc.path)
		require.Equal(t, tc.msg, errorOf(t, w))
		require.NotContains(t, w.Body.String(), "27017")
	}
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, StatusFor(service.ErrWordRequired))
	require.Equal(t, http.StatusBadRequest, StatusFor(service.ErrCollaboratorExists))
	require.Equal(t, http.StatusNotFound, StatusFor(service.ErrWordNotFound))
	require.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
