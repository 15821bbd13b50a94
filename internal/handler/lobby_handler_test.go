package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

// setupHandlerTest points the package-level DB at a fresh in-memory database
// and returns a router with the lobby routes mounted. Authentication is
// simulated with an X-User-ID header so these tests exercise the handlers
// and the service, not the JWT stack.
func setupHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Set("userID", uint(id))
			}
		}
		c.Next()
	})

	games := router.Group("/api/v1/games")
	{
		games.GET("/:slug/lobbies", ListLobbies)
		games.GET("/:slug/lobbies/:token", GetLobbyByToken)
		games.POST("/:slug/lobbies", CreateLobby)
		games.DELETE("/:slug/lobbies/:token", DeleteLobby)
		games.POST("/:slug/lobbies/:token/privacy", ToggleLobbyPrivacy)
		games.POST("/:slug/lobbies/:token/slots/:slotID/join", JoinSlot)
		games.POST("/:slug/lobbies/:token/slots/:slotID/leave", LeaveSlot)
		games.POST("/:slug/lobbies/:token/slots/:slotID/kick", KickSlot)
	}
	return router
}

func seedPlayer(t *testing.T, nickname string, game *models.Game) *models.User {
	t.Helper()

	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@test.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	if game != nil {
		profile := models.GameProfile{UserID: user.ID, GameID: game.ID}
		require.NoError(t, database.DB.Create(&profile).Error)
	}
	return &user
}

func seedGame(t *testing.T, slug string, teamSize int) *models.Game {
	t.Helper()

	game := models.Game{Title: "Game " + slug, Slug: slug, TeamSize: teamSize}
	require.NoError(t, database.DB.Create(&game).Error)
	return &game
}

func performAs(router *gin.Engine, userID uint, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(int(userID)))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateLobbyEndpoint(t *testing.T) {
	router := setupHandlerTest(t)
	game := seedGame(t, "test-game", 5)
	host := seedPlayer(t, "host", game)

	w := performAs(router, host.ID, http.MethodPost, "/api/v1/games/test-game/lobbies", gin.H{
		"title": "Ranked grind",
		"size":  5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp LobbyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ranked grind", resp.Title)
	assert.Len(t, resp.Slots, 5)
	assert.Equal(t, 1, resp.FilledCount)
	require.NotNil(t, resp.Slots[0].Player)
	assert.Equal(t, host.ID, resp.Slots[0].Player.ID)
}

func TestCreateLobbyWithoutProfileRedirects(t *testing.T) {
	router := setupHandlerTest(t)
	seedGame(t, "test-game", 5)
	outsider := seedPlayer(t, "outsider", nil)

	w := performAs(router, outsider.ID, http.MethodPost, "/api/v1/games/test-game/lobbies", gin.H{
		"title": "Nope",
		"size":  5,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "profile_required")
	assert.Contains(t, w.Body.String(), "/api/v1/profiles")
}

func TestSlotEndpoints(t *testing.T) {
	router := setupHandlerTest(t)
	game := seedGame(t, "test-game", 5)
	host := seedPlayer(t, "host", game)
	player := seedPlayer(t, "player", game)
	rival := seedPlayer(t, "rival", game)

	w := performAs(router, host.ID, http.MethodPost, "/api/v1/games/test-game/lobbies", gin.H{
		"title": "Slots",
		"size":  5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var lobby LobbyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lobby))
	base := fmt.Sprintf("/api/v1/games/test-game/lobbies/%s", lobby.InviteToken)
	seat := lobby.Slots[1].ID

	// Join returns the updated slot fragment.
	w = performAs(router, player.ID, http.MethodPost, fmt.Sprintf("%s/slots/%d/join", base, seat), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var slot SlotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slot))
	require.NotNil(t, slot.Player)
	assert.Equal(t, player.ID, slot.Player.ID)
	assert.False(t, slot.IsAvailable)

	// A second claim on the same seat conflicts.
	w = performAs(router, rival.ID, http.MethodPost, fmt.Sprintf("%s/slots/%d/join", base, seat), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")

	// Leaving someone else's seat is forbidden, not missing.
	w = performAs(router, rival.ID, http.MethodPost, fmt.Sprintf("%s/slots/%d/leave", base, seat), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Kick is host-only.
	w = performAs(router, rival.ID, http.MethodPost, fmt.Sprintf("%s/slots/%d/kick", base, seat), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performAs(router, host.ID, http.MethodPost, fmt.Sprintf("%s/slots/%d/kick", base, seat), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slot))
	assert.True(t, slot.IsAvailable)

	// Unknown lobby tokens 404.
	w = performAs(router, player.ID, http.MethodPost,
		"/api/v1/games/test-game/lobbies/00000000-0000-0000-0000-000000000000/slots/1/join", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLobbiesVisibilityEndpoint(t *testing.T) {
	router := setupHandlerTest(t)
	game := seedGame(t, "test-game", 5)
	host := seedPlayer(t, "host", game)
	stranger := seedPlayer(t, "stranger", game)

	w := performAs(router, host.ID, http.MethodPost, "/api/v1/games/test-game/lobbies", gin.H{
		"title":     "Secret",
		"size":      5,
		"is_public": false,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Anonymous viewer sees nothing.
	w = performAs(router, 0, http.MethodGet, "/api/v1/games/test-game/lobbies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anon PaginatedResponse[LobbyResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.Empty(t, anon.Data)

	// Unrelated viewer sees nothing either.
	w = performAs(router, stranger.ID, http.MethodGet, "/api/v1/games/test-game/lobbies", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.Empty(t, anon.Data)

	// The host sees their private lobby.
	w = performAs(router, host.ID, http.MethodGet, "/api/v1/games/test-game/lobbies", nil)
	var mine PaginatedResponse[LobbyResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Data, 1)
	assert.Equal(t, "Secret", mine.Data[0].Title)
}

func TestLobbyDetailCanJoin(t *testing.T) {
	router := setupHandlerTest(t)
	game := seedGame(t, "test-game", 5)
	host := seedPlayer(t, "host", game)
	player := seedPlayer(t, "player", game)

	w := performAs(router, host.ID, http.MethodPost, "/api/v1/games/test-game/lobbies", gin.H{
		"title": "Affordance",
		"size":  5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var lobby LobbyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lobby))
	detail := fmt.Sprintf("/api/v1/games/test-game/lobbies/%s", lobby.InviteToken)

	// An eligible viewer may join.
	w = performAs(router, player.ID, http.MethodGet, detail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp LobbyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.CanJoin)
	assert.True(t, *resp.CanJoin)

	// The host is already seated; the reason says so.
	var hostResp LobbyResponse
	w = performAs(router, host.ID, http.MethodGet, detail, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hostResp))
	require.NotNil(t, hostResp.CanJoin)
	assert.False(t, *hostResp.CanJoin)
	assert.Equal(t, "you are already in this lobby", hostResp.CanJoinReason)

	// Anonymous detail views carry no affordance.
	var anonResp LobbyResponse
	w = performAs(router, 0, http.MethodGet, detail, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anonResp))
	assert.Nil(t, anonResp.CanJoin)
}
