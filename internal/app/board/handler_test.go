package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bulletin/internal/httperr"
	"bulletin/internal/providers/search"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := search.NewClient(search.Config{}, zap.NewNop())
	require.NoError(t, client.Bootstrap())
	t.Cleanup(func() {
		_ = client.Close()
	})

	repo := NewRepository(client, zap.NewNop())
	service := NewService(repo, nil, zap.NewNop())
	handler := NewHandler(service, zap.NewNop())

	engine := gin.New()
	RegisterRoutes(engine, handler)
	return engine
}

func postBoard(t *testing.T, engine *gin.Engine, b *Board) *Board {
	t.Helper()

	body, err := json.Marshal(b)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	return &saved
}

func TestHandlerPost(t *testing.T) {
	engine := setupEngine(t)

	saved := postBoard(t, engine, newBoard("Hello, world!"))
	assert.NotEmpty(t, saved.BoardID)
	assert.Equal(t, "Hello, world!", saved.Title)
}

func TestHandlerPostMalformedBody(t *testing.T) {
	engine := setupEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload httperr.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "/", payload.Path)
	assert.Equal(t, http.StatusBadRequest, payload.Status)
	assert.NotEmpty(t, payload.Message)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestHandlerLoad(t *testing.T) {
	engine := setupEngine(t)
	saved := postBoard(t, engine, newBoard("Hello, world!"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/"+saved.BoardID, nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var loaded Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, saved.BoardID, loaded.BoardID)
	assert.Equal(t, "Hello, world!", loaded.Title)
}

func TestHandlerLoadUnknownID(t *testing.T) {
	engine := setupEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/never-assigned", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload httperr.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Invalid Board id.", payload.Message)
	assert.Equal(t, http.StatusNotFound, payload.Status)
	assert.Equal(t, "/never-assigned", payload.Path)
}

func TestHandlerComment(t *testing.T) {
	engine := setupEngine(t)
	saved := postBoard(t, engine, newBoard("Hello, world!"))

	body := `{"writer":"Yep","password":"4321","content":"It helps me a lot!!"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/comment/"+saved.BoardID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var parent Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parent))
	require.Len(t, parent.Comments, 1)
	assert.Equal(t, saved.BoardID, parent.Comments[0].BoardID)
	assert.Equal(t, "Yep", parent.Comments[0].Writer)
	assert.Greater(t, parent.Comments[0].Created, int64(0))
}

func TestHandlerCommentUnknownID(t *testing.T) {
	engine := setupEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/comment/never-assigned", strings.NewReader(`{"writer":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListStreamsNDJSON(t *testing.T) {
	engine := setupEngine(t)
	for i := 0; i < 3; i++ {
		postBoard(t, engine, newBoard(fmt.Sprintf("board %d", i)))
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/all/0/2", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/x-ndjson")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var b Board
		require.NoError(t, json.Unmarshal([]byte(line), &b))
		assert.NotEmpty(t, b.BoardID)
	}
}

func TestHandlerListBeyondRangeIsEmpty(t *testing.T) {
	engine := setupEngine(t)
	postBoard(t, engine, newBoard("only one"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/all/5/10", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))
}

func TestHandlerListRejectsNonNumericPage(t *testing.T) {
	engine := setupEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/all/x/10", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListRejectsZeroSize(t *testing.T) {
	engine := setupEngine(t)
	for i := 0; i < 3; i++ {
		postBoard(t, engine, newBoard(fmt.Sprintf("board %d", i)))
	}

	for _, path := range []string{"/all/0/0", "/all/0/-1", "/all/-1/10"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, path)

		var payload httperr.Payload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, http.StatusBadRequest, payload.Status)
	}
}

func TestHandlerDelete(t *testing.T) {
	engine := setupEngine(t)
	saved := postBoard(t, engine, newBoard("Hello, world!"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/"+saved.BoardID, nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var removed string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, saved.BoardID, removed)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/"+saved.BoardID, nil)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDeleteUnknownID(t *testing.T) {
	engine := setupEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/never-assigned", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Guards the not-ready backstop: requests racing the index bootstrap get
// a 503, not a panic or a silent success.
func TestHandlerStoreNotReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := search.NewClient(search.Config{}, zap.NewNop())
	repo := NewRepository(client, zap.NewNop())
	service := NewService(repo, nil, zap.NewNop())
	handler := NewHandler(service, zap.NewNop())

	engine := gin.New()
	RegisterRoutes(engine, handler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/some-id", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
