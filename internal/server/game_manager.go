package server

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/gameid"
	"github.com/lox/hearts/internal/store"
)

var (
	// ErrGameNotFound indicates the game id is unknown to the manager.
	ErrGameNotFound = errors.New("game not found")

	// ErrNotSeated indicates the user has no seat in any active game.
	ErrNotSeated = errors.New("user is not seated")

	// ErrAlreadyInGame indicates the user still holds a seat in a live
	// game and may not take another one.
	ErrAlreadyInGame = errors.New("user is already in an active game")

	// ErrNotLobbyLeader indicates a leader-only action by another seat.
	ErrNotLobbyLeader = errors.New("only the lobby leader may do that")

	// ErrNotABot indicates a bot operation aimed at a human seat.
	ErrNotABot = errors.New("seat is not a bot")
)

// managedGame pairs a game with its mutation lock. All reads for
// broadcast take the lock too, so observers only ever see a game
// between transitions, never mid-mutation.
type managedGame struct {
	mu   sync.Mutex
	game *game.Game

	// botDrive guards the bot auto-play loop: at most one loop may
	// drive a game at a time.
	botDrive atomic.Bool

	// announceMu serializes outbound announcements for the game so a
	// play landing during a trick reveal cannot clear it early.
	announceMu sync.Mutex
}

// GameManager owns the set of active games and the single open lobby
// game. It mediates between inbound actions and the game engine,
// delegating persistence to the store and bot decisions to a strategy.
//
// Persistence is write-through and best-effort: failures are logged and
// the in-memory game stays authoritative.
type GameManager struct {
	logger   *log.Logger
	store    store.Store
	strategy game.Strategy

	mu      sync.RWMutex
	games   map[string]*managedGame
	players map[string]string // userID -> gameID
	lobbyID string
	botSeq  int
}

// NewGameManager constructs a manager with one fresh lobby game open.
func NewGameManager(st store.Store, strategy game.Strategy, logger *log.Logger) *GameManager {
	m := &GameManager{
		logger:   logger.WithPrefix("game-manager"),
		store:    st,
		strategy: strategy,
		games:    make(map[string]*managedGame),
		players:  make(map[string]string),
	}
	m.mu.Lock()
	m.openLobbyLocked()
	m.mu.Unlock()
	return m
}

// openLobbyLocked creates a fresh empty lobby game. Callers hold m.mu.
func (m *GameManager) openLobbyLocked() {
	id := gameid.New()
	mg := &managedGame{game: game.New(id)}
	m.games[id] = mg
	m.lobbyID = id
	m.logger.Info("Opened new lobby game", "game", id)
	m.persist(mg.game)
}

// LobbyID returns the id of the current open lobby game.
func (m *GameManager) LobbyID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lobbyID
}

// lookup resolves a game id to its managed wrapper.
func (m *GameManager) lookup(gameID string) (*managedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mg, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return mg, nil
}

// gameFor resolves the game a user is seated in.
func (m *GameManager) gameFor(userID string) (string, *managedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gameID, ok := m.players[userID]
	if !ok {
		return "", nil, ErrNotSeated
	}
	mg, ok := m.games[gameID]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return gameID, mg, nil
}

// JoinLobby returns the game the user should be looking at: their
// in-progress game when they are already seated somewhere (marking the
// seat reconnected), otherwise the open lobby.
func (m *GameManager) JoinLobby(userID string) (string, error) {
	gameID, mg, err := m.gameFor(userID)
	if err == nil {
		mg.mu.Lock()
		defer mg.mu.Unlock()
		if seat, ok := mg.game.SeatOf(userID); ok {
			if err := mg.game.SetConnected(seat, true); err == nil {
				m.persist(mg.game)
			}
		}
		return gameID, nil
	}
	return m.LobbyID(), nil
}

// TakeSeat seats the user in the open lobby game. A user who still
// holds a seat in a live game is rejected so the player index keeps
// pointing at that game.
func (m *GameManager) TakeSeat(userID, name string, seat int) (string, error) {
	lobbyID := m.LobbyID()

	m.mu.RLock()
	existingID, seated := m.players[userID]
	existing := m.games[existingID]
	m.mu.RUnlock()

	if seated && existingID != lobbyID && existing != nil {
		existing.mu.Lock()
		live := existing.game.State != game.Finished && existing.game.State != game.Abandoned
		existing.mu.Unlock()
		if live {
			return "", fmt.Errorf("%w: %s", ErrAlreadyInGame, existingID)
		}
	}

	mg, err := m.lookup(lobbyID)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if err := mg.game.AddPlayer(seat, userID, name); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.players[userID] = lobbyID
	m.mu.Unlock()

	m.persist(mg.game)
	return lobbyID, nil
}

// LeaveSeat frees the user's seat in the lobby, or marks them
// disconnected in a started game.
func (m *GameManager) LeaveSeat(userID string) (string, error) {
	gameID, mg, err := m.gameFor(userID)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	seat, ok := mg.game.SeatOf(userID)
	if !ok {
		return "", ErrNotSeated
	}
	if err := mg.game.RemovePlayer(seat); err != nil {
		return "", err
	}

	if mg.game.State == game.Lobby {
		m.mu.Lock()
		delete(m.players, userID)
		m.mu.Unlock()
	}

	m.persist(mg.game)
	return gameID, nil
}

// ToggleReady flips the user's ready flag in their lobby game.
func (m *GameManager) ToggleReady(userID string) (string, error) {
	gameID, mg, err := m.gameFor(userID)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	seat, ok := mg.game.SeatOf(userID)
	if !ok {
		return "", ErrNotSeated
	}
	if err := mg.game.ToggleReady(seat); err != nil {
		return "", err
	}

	m.persist(mg.game)
	return gameID, nil
}

// requireLobbyLeader checks that the user holds the lobby leader seat.
// Callers hold mg.mu.
func requireLobbyLeader(mg *managedGame, userID string) error {
	seat, ok := mg.game.SeatOf(userID)
	if !ok {
		return ErrNotSeated
	}
	if seat != mg.game.LobbyLeader {
		return ErrNotLobbyLeader
	}
	return nil
}

// AddBot seats a bot in the lobby. Lobby leader only.
func (m *GameManager) AddBot(userID string, seat int) (string, error) {
	lobbyID := m.LobbyID()
	mg, err := m.lookup(lobbyID)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if err := requireLobbyLeader(mg, userID); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.botSeq++
	name := fmt.Sprintf("Bot %d", m.botSeq)
	m.mu.Unlock()

	if err := mg.game.AddBot(seat, name); err != nil {
		return "", err
	}

	m.persist(mg.game)
	return lobbyID, nil
}

// RemoveBot removes a bot from the lobby. Lobby leader only.
func (m *GameManager) RemoveBot(userID string, seat int) (string, error) {
	lobbyID := m.LobbyID()
	mg, err := m.lookup(lobbyID)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if err := requireLobbyLeader(mg, userID); err != nil {
		return "", err
	}
	if seat < 0 || seat >= game.NumSeats || mg.game.Seats[seat] == nil {
		return "", game.ErrUnknownSeat
	}
	if !mg.game.Seats[seat].IsBot {
		return "", ErrNotABot
	}
	if err := mg.game.RemovePlayer(seat); err != nil {
		return "", err
	}

	m.persist(mg.game)
	return lobbyID, nil
}

// StartedGame describes a game that just left the lobby.
type StartedGame struct {
	GameID        string
	PassDirection string
}

// StartGame starts the lobby game and immediately opens a fresh empty
// lobby so new arrivals can form the next table.
func (m *GameManager) StartGame(userID string) (StartedGame, error) {
	lobbyID := m.LobbyID()
	mg, err := m.lookup(lobbyID)
	if err != nil {
		return StartedGame{}, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if err := requireLobbyLeader(mg, userID); err != nil {
		return StartedGame{}, err
	}
	if err := mg.game.Start(); err != nil {
		return StartedGame{}, err
	}

	// Initial deal snapshot
	m.persist(mg.game)

	m.mu.Lock()
	m.openLobbyLocked()
	m.mu.Unlock()

	m.logger.Info("Game started", "game", lobbyID, "passDirection", mg.game.PassDirection)
	return StartedGame{GameID: lobbyID, PassDirection: mg.game.PassDirection.String()}, nil
}

// PassOutcome reports a committed pass.
type PassOutcome struct {
	GameID      string
	Seat        int
	AllPassed   bool
	TrickLeader int
}

// PassCards stages a three-card pass for the user's seat.
func (m *GameManager) PassCards(userID string, cards []deck.Card) (PassOutcome, error) {
	gameID, mg, err := m.gameFor(userID)
	if err != nil {
		return PassOutcome{}, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	seat, ok := mg.game.SeatOf(userID)
	if !ok {
		return PassOutcome{}, ErrNotSeated
	}
	return m.passCardsLocked(gameID, mg, seat, cards)
}

// passCardsLocked runs the engine pass and write-through. Callers hold mg.mu.
func (m *GameManager) passCardsLocked(gameID string, mg *managedGame, seat int, cards []deck.Card) (PassOutcome, error) {
	allPassed, err := mg.game.PassCards(seat, cards)
	if err != nil {
		return PassOutcome{}, err
	}
	if allPassed {
		m.persist(mg.game)
	}
	return PassOutcome{
		GameID:      gameID,
		Seat:        seat,
		AllPassed:   allPassed,
		TrickLeader: mg.game.TrickLeader,
	}, nil
}

// PlayOutcome reports a successful card play.
type PlayOutcome struct {
	GameID string
	Seat   int
	Result game.PlayResult
}

// PlayCard plays a card for the user's seat.
func (m *GameManager) PlayCard(userID string, card deck.Card) (PlayOutcome, error) {
	gameID, mg, err := m.gameFor(userID)
	if err != nil {
		return PlayOutcome{}, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	seat, ok := mg.game.SeatOf(userID)
	if !ok {
		return PlayOutcome{}, ErrNotSeated
	}
	return m.playCardLocked(gameID, mg, seat, card)
}

// playCardLocked runs the engine play and write-through. Callers hold mg.mu.
func (m *GameManager) playCardLocked(gameID string, mg *managedGame, seat int, card deck.Card) (PlayOutcome, error) {
	// The engine mutates round and trick counters during resolution;
	// capture the keys the trick row is stored under first.
	round := mg.game.Round
	trickNumber := mg.game.TrickNumber

	result, err := mg.game.PlayCard(seat, card)
	if err != nil {
		return PlayOutcome{}, err
	}

	if result.TrickComplete {
		if err := m.store.SaveTrick(gameID, round, trickNumber, result.Winner, result.Points, result.TrickCards); err != nil {
			m.logger.Error("Failed to persist trick", "game", gameID, "round", round, "trick", trickNumber, "error", err)
		}
		m.persist(mg.game)
	}
	if result.GameComplete {
		if err := m.store.SaveResults(mg.game); err != nil {
			m.logger.Error("Failed to persist results", "game", gameID, "error", err)
		}
	}

	return PlayOutcome{GameID: gameID, Seat: seat, Result: result}, nil
}

// NextBotActor returns the bot seat that should act next in the game,
// if any: an uncommitted bot pass during passing, or a bot on turn
// during play.
func (m *GameManager) NextBotActor(gameID string) (int, bool) {
	mg, err := m.lookup(gameID)
	if err != nil {
		return -1, false
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	switch mg.game.State {
	case game.Passing:
		for seat, p := range mg.game.Seats {
			if p != nil && p.IsBot && !p.HasPassed {
				return seat, true
			}
		}
	case game.Playing:
		seat := mg.game.NextActor()
		if seat >= 0 && mg.game.Seats[seat] != nil && mg.game.Seats[seat].IsBot {
			return seat, true
		}
	}
	return -1, false
}

// BotOutcome reports one bot action: either a committed pass or a play.
type BotOutcome struct {
	Pass *PassOutcome
	Play *PlayOutcome
}

// BotAct asks the strategy for a decision for the bot seat and applies
// it. The strategy must return a legal action; an illegal one surfaces
// as an engine error.
func (m *GameManager) BotAct(gameID string, seat int) (BotOutcome, error) {
	mg, err := m.lookup(gameID)
	if err != nil {
		return BotOutcome{}, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if seat < 0 || seat >= game.NumSeats || mg.game.Seats[seat] == nil {
		return BotOutcome{}, game.ErrUnknownSeat
	}
	if !mg.game.Seats[seat].IsBot {
		return BotOutcome{}, ErrNotABot
	}

	switch mg.game.State {
	case game.Passing:
		cards := m.strategy.ChooseCardsToPass(mg.game.Seats[seat].Hand)
		outcome, err := m.passCardsLocked(gameID, mg, seat, cards)
		if err != nil {
			return BotOutcome{}, err
		}
		return BotOutcome{Pass: &outcome}, nil

	case game.Playing:
		legal := mg.game.LegalPlays(seat)
		if len(legal) == 0 {
			return BotOutcome{}, game.ErrWrongTurn
		}
		card := m.strategy.ChooseCardToPlay(mg.game.Seats[seat].Hand, legal)
		outcome, err := m.playCardLocked(gameID, mg, seat, card)
		if err != nil {
			return BotOutcome{}, err
		}
		return BotOutcome{Play: &outcome}, nil

	default:
		return BotOutcome{}, game.ErrWrongPhase
	}
}

// State returns the current lifecycle state of a game.
func (m *GameManager) State(gameID string) (game.State, error) {
	mg, err := m.lookup(gameID)
	if err != nil {
		return 0, err
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return mg.game.State, nil
}

// View returns the per-viewer projection of a game.
func (m *GameManager) View(gameID, userID string) (game.View, error) {
	mg, err := m.lookup(gameID)
	if err != nil {
		return game.View{}, err
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return mg.game.ViewFor(userID), nil
}

// Disconnect handles a dropped connection: lobby seats are freed,
// seats in started games are marked disconnected.
func (m *GameManager) Disconnect(userID string) (string, error) {
	return m.LeaveSeat(userID)
}

// RemoveFinishedGames drops finished and abandoned games from memory,
// along with their player index entries. Persisted history is kept.
func (m *GameManager) RemoveFinishedGames() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, mg := range m.games {
		mg.mu.Lock()
		done := mg.game.State == game.Finished || mg.game.State == game.Abandoned
		mg.mu.Unlock()
		if !done {
			continue
		}

		delete(m.games, id)
		for userID, gameID := range m.players {
			if gameID == id {
				delete(m.players, userID)
			}
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("Removed finished games", "count", removed)
	}
	return removed
}

// RecentResults returns recent final standings from storage.
func (m *GameManager) RecentResults(limit int) ([]store.Result, error) {
	return m.store.RecentResults(limit)
}

// TryBeginBotDrive attempts to claim the bot auto-play loop for a game.
// Returns false when another loop is already driving it.
func (m *GameManager) TryBeginBotDrive(gameID string) bool {
	mg, err := m.lookup(gameID)
	if err != nil {
		return false
	}
	return mg.botDrive.CompareAndSwap(false, true)
}

// EndBotDrive releases the bot auto-play loop claim.
func (m *GameManager) EndBotDrive(gameID string) {
	if mg, err := m.lookup(gameID); err == nil {
		mg.botDrive.Store(false)
	}
}

// persist writes the game and player rows through to storage, logging
// failures. The in-memory game stays authoritative either way.
func (m *GameManager) persist(g *game.Game) {
	if err := m.store.SaveGame(g); err != nil {
		m.logger.Error("Failed to persist game", "game", g.ID, "error", err)
	}
	if err := m.store.SavePlayers(g); err != nil {
		m.logger.Error("Failed to persist players", "game", g.ID, "error", err)
	}
}
