package http

import (
	"net/http"
	"time"

	"github.com/dkeye/Board/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HealthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type RoomsResponse struct {
	Rooms []domain.RoomInfo `json:"rooms"`
}

type ParticipantsResponse struct {
	RoomID       domain.RoomID        `json:"room_id"`
	Participants []domain.Participant `json:"participants"`
}

// RoomDirectory is the read and evict surface the diagnostics endpoints need.
type RoomDirectory interface {
	Rooms() []domain.RoomInfo
	Roster(room domain.RoomID) []domain.Participant
	EvictRoom(room domain.RoomID) int
}

func Register(r gin.IRouter, rooms RoomDirectory) {
	r.GET("/", handlerHealth)

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) { handlerRooms(c, rooms) })
	api.GET("/rooms/:id/participants", func(c *gin.Context) { handlerParticipants(c, rooms) })
	api.DELETE("/rooms/:id", func(c *gin.Context) { handlerEvictRoom(c, rooms) })
}

func handlerHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func handlerRooms(c *gin.Context, rooms RoomDirectory) {
	c.JSON(http.StatusOK, RoomsResponse{Rooms: rooms.Rooms()})
}

func handlerParticipants(c *gin.Context, rooms RoomDirectory) {
	id := domain.RoomID(c.Param("id"))
	c.JSON(http.StatusOK, ParticipantsResponse{RoomID: id, Participants: rooms.Roster(id)})
}

func handlerEvictRoom(c *gin.Context, rooms RoomDirectory) {
	id := domain.RoomID(c.Param("id"))
	n := rooms.EvictRoom(id)
	log.Info().Str("module", "transport.http").Str("room", string(id)).Int("removed", n).Msg("room evicted via api")
	c.Status(http.StatusNoContent)
}
