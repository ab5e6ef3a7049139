package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/Board/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	rooms   []domain.RoomInfo
	rosters map[domain.RoomID][]domain.Participant
	evicted []domain.RoomID
}

func (f *fakeDirectory) Rooms() []domain.RoomInfo { return f.rooms }

func (f *fakeDirectory) Roster(room domain.RoomID) []domain.Participant {
	if r, ok := f.rosters[room]; ok {
		return r
	}
	return []domain.Participant{}
}

func (f *fakeDirectory) EvictRoom(room domain.RoomID) int {
	f.evicted = append(f.evicted, room)
	return len(f.rosters[room])
}

func newRouter(dir RoomDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, dir)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newRouter(&fakeDirectory{}), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestRooms(t *testing.T) {
	dir := &fakeDirectory{rooms: []domain.RoomInfo{{ID: "r1", Participants: 2, HasSnapshot: true}}}
	w := do(newRouter(dir), http.MethodGet, "/api/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rooms":[{"room_id":"r1","participants":2,"has_snapshot":true}]}`, w.Body.String())
}

func TestParticipants(t *testing.T) {
	dir := &fakeDirectory{rosters: map[domain.RoomID][]domain.Participant{
		"r1": {{Name: "Ann", ID: "a", RoomID: "r1", ConnectionID: "secret"}},
	}}
	w := do(newRouter(dir), http.MethodGet, "/api/rooms/r1/participants")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ParticipantsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.RoomID("r1"), resp.RoomID)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "Ann", resp.Participants[0].Name)
	assert.NotContains(t, w.Body.String(), "secret")

	w = do(newRouter(dir), http.MethodGet, "/api/rooms/empty/participants")
	assert.JSONEq(t, `{"room_id":"empty","participants":[]}`, w.Body.String())
}

func TestEvictRoom(t *testing.T) {
	dir := &fakeDirectory{}
	w := do(newRouter(dir), http.MethodDelete, "/api/rooms/r1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []domain.RoomID{"r1"}, dir.evicted)
}
