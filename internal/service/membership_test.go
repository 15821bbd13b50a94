package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

func TestJoinAssignsSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	player := newPlayer(t, db, game, "player")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	target := slotAt(t, db, lobby.ID, 3)
	slot, err := svc.Join(lobby.InviteToken, target.ID, player.ID)
	require.NoError(t, err)

	require.NotNil(t, slot.PlayerID)
	assert.Equal(t, player.ID, *slot.PlayerID)
	assert.NotNil(t, slot.JoinedAt)
	assert.Equal(t, 3, slot.Position)

	// Still searching: only 2 of 5 seats taken.
	fresh, err := svc.GetByInviteToken(lobby.InviteToken)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSearching, fresh.Status)
	assert.Equal(t, 2, fresh.FilledCount())
}

func TestJoinValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	// No profile: guided to profile creation, not a generic error.
	outsider := createTestUser(t, db, "outsider")
	_, err := svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 2).ID, outsider.ID)
	assert.ErrorIs(t, err, ErrProfileRequired)

	// Taken seat: the host's.
	player := newPlayer(t, db, game, "player")
	_, err = svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 1).ID, player.ID)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Second seat for the same user.
	_, err = svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 2).ID, player.ID)
	require.NoError(t, err)
	_, err = svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 3).ID, player.ID)
	assert.ErrorIs(t, err, ErrAlreadyInLobby)

	// Unknown slot or lobby.
	_, err = svc.Join(lobby.InviteToken, 99999, player.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJoinFillsLobbyFlipsStatusOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	// Seats 2..4 fill without touching the status.
	for pos := 2; pos <= 4; pos++ {
		player := newPlayer(t, db, game, fmt.Sprintf("player-%d", pos))
		_, err := svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, pos).ID, player.ID)
		require.NoError(t, err)

		fresh, err := svc.GetByInviteToken(lobby.InviteToken)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSearching, fresh.Status)
	}

	// The transaction that fills the last seat flips the status.
	last := newPlayer(t, db, game, "player-5")
	_, err := svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 5).ID, last.ID)
	require.NoError(t, err)

	fresh, err := svc.GetByInviteToken(lobby.InviteToken)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, fresh.Status)
	assert.True(t, fresh.IsFull())
}

func TestJoinRejectedWhenNotSearching(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	require.NoError(t, db.Model(&models.Lobby{}).
		Where("id = ?", lobby.ID).
		Update("status", models.StatusCancelled).Error)

	player := newPlayer(t, db, game, "player")
	_, err := svc.Join(lobby.InviteToken, slotAt(t, db, lobby.ID, 2).ID, player.ID)
	assert.ErrorIs(t, err, ErrNotSearching)
}

func TestLeaveClearsSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	player := newPlayer(t, db, game, "player")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	target := slotAt(t, db, lobby.ID, 2)
	_, err := svc.Join(lobby.InviteToken, target.ID, player.ID)
	require.NoError(t, err)

	slot, err := svc.Leave(lobby.InviteToken, target.ID, player.ID)
	require.NoError(t, err)
	assert.Nil(t, slot.PlayerID)
	assert.Nil(t, slot.JoinedAt)

	// The seat is re-entrant.
	other := newPlayer(t, db, game, "other")
	_, err = svc.Join(lobby.InviteToken, target.ID, other.ID)
	assert.NoError(t, err)
}

func TestLeavePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	player := newPlayer(t, db, game, "player")
	bystander := newPlayer(t, db, game, "bystander")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	occupied := slotAt(t, db, lobby.ID, 2)
	_, err := svc.Join(lobby.InviteToken, occupied.ID, player.ID)
	require.NoError(t, err)

	// Someone else's seat.
	_, err = svc.Leave(lobby.InviteToken, occupied.ID, bystander.ID)
	assert.ErrorIs(t, err, ErrNotYourSlot)

	// The host's own seat is permanent.
	hostSeat := slotAt(t, db, lobby.ID, 1)
	_, err = svc.Leave(lobby.InviteToken, hostSeat.ID, host.ID)
	assert.ErrorIs(t, err, ErrHostCannotLeave)

	// Both failures left the slots untouched.
	assert.NotNil(t, slotAt(t, db, lobby.ID, 1).PlayerID)
	assert.NotNil(t, slotAt(t, db, lobby.ID, 2).PlayerID)
}

func TestLeaveDoesNotRevertStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 2)
	host := newPlayer(t, db, game, "host")
	player := newPlayer(t, db, game, "player")
	lobby := mustCreateLobby(t, svc, host, game, 2)

	seat := slotAt(t, db, lobby.ID, 2)
	_, err := svc.Join(lobby.InviteToken, seat.ID, player.ID)
	require.NoError(t, err)

	fresh, err := svc.GetByInviteToken(lobby.InviteToken)
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, fresh.Status)

	_, err = svc.Leave(lobby.InviteToken, seat.ID, player.ID)
	require.NoError(t, err)

	// Status stays in-progress even though the lobby is below capacity,
	// so the vacated seat cannot be re-claimed.
	fresh, err = svc.GetByInviteToken(lobby.InviteToken)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, fresh.Status)

	late := newPlayer(t, db, game, "late")
	_, err = svc.Join(lobby.InviteToken, seat.ID, late.ID)
	assert.ErrorIs(t, err, ErrNotSearching)
}

func TestKick(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	player := newPlayer(t, db, game, "player")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	occupied := slotAt(t, db, lobby.ID, 2)
	_, err := svc.Join(lobby.InviteToken, occupied.ID, player.ID)
	require.NoError(t, err)

	// Only the host may kick.
	_, err = svc.Kick(lobby.InviteToken, occupied.ID, player.ID)
	assert.ErrorIs(t, err, ErrNotHost)

	slot, err := svc.Kick(lobby.InviteToken, occupied.ID, host.ID)
	require.NoError(t, err)
	assert.Nil(t, slot.PlayerID)
	assert.Nil(t, slot.JoinedAt)
}

func TestKickNoOps(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	// Kicking an empty seat succeeds without changing anything.
	empty := slotAt(t, db, lobby.ID, 3)
	slot, err := svc.Kick(lobby.InviteToken, empty.ID, host.ID)
	require.NoError(t, err)
	assert.Nil(t, slot.PlayerID)

	// Self-kick is a no-op, not an eviction.
	hostSeat := slotAt(t, db, lobby.ID, 1)
	slot, err = svc.Kick(lobby.InviteToken, hostSeat.ID, host.ID)
	require.NoError(t, err)
	require.NotNil(t, slot.PlayerID)
	assert.Equal(t, host.ID, *slot.PlayerID)
}

func TestConcurrentJoinSameSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLobbyService(db)

	game := createTestGame(t, db, "test-game", 5)
	host := newPlayer(t, db, game, "host")
	u1 := newPlayer(t, db, game, "racer-1")
	u2 := newPlayer(t, db, game, "racer-2")
	lobby := mustCreateLobby(t, svc, host, game, 5)

	target := slotAt(t, db, lobby.ID, 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []*models.User{u1, u2} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.Join(lobby.InviteToken, target.ID, userID)
		}(i, user.ID)
	}
	wg.Wait()

	// Exactly one winner; the loser sees the seat as taken.
	if errs[0] == nil {
		assert.ErrorIs(t, errs[1], ErrSlotTaken)
	} else {
		assert.NoError(t, errs[1])
		assert.ErrorIs(t, errs[0], ErrSlotTaken)
	}

	// The seat holds exactly one of the two racers.
	final := slotAt(t, db, lobby.ID, 2)
	require.NotNil(t, final.PlayerID)
	assert.Contains(t, []uint{u1.ID, u2.ID}, *final.PlayerID)

	// And neither racer holds more than one seat.
	for _, user := range []*models.User{u1, u2} {
		var count int64
		db.Model(&models.Slot{}).
			Where("lobby_id = ? AND player_id = ?", lobby.ID, user.ID).
			Count(&count)
		assert.LessOrEqual(t, count, int64(1))
	}
}
