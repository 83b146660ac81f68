package web

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck/internal/domain"
	"github.com/studydeck/studydeck/internal/service"
	"github.com/studydeck/studydeck/internal/storage"
	"github.com/studydeck/studydeck/internal/sync"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	svc := service.New(db, &domain.SequenceGenerator{Prefix: "id"}, now, rand.New(rand.NewSource(1)))
	return NewServer(svc, db, sync.NewRunner(db, svc, t.TempDir()), now)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

const noteContent = "Mitosis: the process of cell division\nremember to review the krebs cycle"

func TestCreateNoteEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/notes", map[string]string{"content": noteContent})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[struct {
		Note       domain.Note        `json:"note"`
		Flashcards []domain.Flashcard `json:"flashcards"`
	}](t, rec)

	assert.Len(t, resp.Note.KeyPoints, 2)
	assert.Len(t, resp.Flashcards, 2)
	assert.Equal(t, "What is Mitosis?", resp.Flashcards[0].Question)
}

func TestCreateNoteEndpointRejectsBlank(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/notes", map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNoteEndpointNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/notes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleKeyPointEndpoint(t *testing.T) {
	srv := newTestServer(t)

	created := decode[struct {
		Note domain.Note `json:"note"`
	}](t, doJSON(t, srv, http.MethodPost, "/notes", map[string]string{"content": noteContent}))
	kp := created.Note.KeyPoints[0]
	require.True(t, kp.Highlighted)

	rec := doJSON(t, srv, http.MethodPost,
		"/notes/"+created.Note.ID+"/keypoints/"+kp.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	toggled := decode[domain.KeyPoint](t, rec)
	assert.False(t, toggled.Highlighted)
}

func TestStudyFlow(t *testing.T) {
	srv := newTestServer(t)

	created := decode[struct {
		Note       domain.Note        `json:"note"`
		Flashcards []domain.Flashcard `json:"flashcards"`
	}](t, doJSON(t, srv, http.MethodPost, "/notes", map[string]string{"content": noteContent}))

	rec := doJSON(t, srv, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[domain.StudySession](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+session.ID+"/answers",
		map[string]any{"flashcardId": created.Flashcards[0].ID, "correct": true})
	require.Equal(t, http.StatusOK, rec.Code)
	card := decode[domain.Flashcard](t, rec)
	assert.InDelta(t, 0.2, card.Mastery, 1e-9)
	assert.NotNil(t, card.LastReviewed)

	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+session.ID+"/end", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ended := decode[domain.StudySession](t, rec)
	assert.Equal(t, 1, ended.CardsReviewed)
	assert.Equal(t, 1, ended.CorrectAnswers)
	require.NotNil(t, ended.EndTime)

	rec = doJSON(t, srv, http.MethodGet, "/streak", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	streak := decode[map[string]int](t, rec)
	assert.Equal(t, 1, streak["streak"])
}

func TestScheduleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/schedule/proposals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	proposals := decode[[]domain.CalendarEvent](t, rec)
	require.Len(t, proposals, 5)
	assert.Equal(t, domain.PriorityHigh, proposals[0].Priority)
	assert.Equal(t, domain.PriorityLow, proposals[4].Priority)

	rec = doJSON(t, srv, http.MethodPost, "/schedule", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	events := decode[[]domain.CalendarEvent](t, rec)
	require.Len(t, events, 5)

	rec = doJSON(t, srv, http.MethodGet, "/events?from=2024-03-15&to=2024-04-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]domain.CalendarEvent](t, rec)
	assert.Len(t, listed, 5)

	rec = doJSON(t, srv, http.MethodPost, "/events/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.CalendarEvent](t, rec).Completed)

	rec = doJSON(t, srv, http.MethodPost, "/events/2/reschedule", map[string]string{"date": "2024-05-01"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/events/3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/events/999/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSourceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/sources", map[string]string{"path": "/notes/bio"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/sources", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sources := decode[[]domain.Source](t, rec)
	require.Len(t, sources, 1)
	assert.Equal(t, "local", sources[0].Type)

	rec = doJSON(t, srv, http.MethodPost, "/sources", map[string]string{"path": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/sources/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
