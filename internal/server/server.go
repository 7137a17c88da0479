package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/hearts/internal/auth"
	"github.com/lox/hearts/internal/game"
)

// maxBotActions caps a single bot auto-play run. A four-bot game plays
// at most 13 tricks of 4 cards plus 4 passes per round, so this covers
// every legal game with headroom. Hitting the cap means a bug.
const maxBotActions = 1024

// Server represents the WebSocket server. It routes messages between
// connections and the game manager, and paces the table: completed
// tricks stay visible before the next trick starts, and bots pause
// between actions so humans can follow the play.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc

	manager   *GameManager
	validator auth.Validator
	clock     quartz.Clock

	trickDisplay  time.Duration
	interBotPause time.Duration

	httpServer *http.Server
}

// NewServer creates a new WebSocket server
func NewServer(config *ServerConfig, manager *GameManager, validator auth.Validator, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: config.GetServerAddress(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections:   make(map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		logger:        logger.WithPrefix("server"),
		ctx:           ctx,
		cancel:        cancel,
		manager:       manager,
		validator:     validator,
		clock:         clock,
		trickDisplay:  config.Game.TrickDisplay(),
		interBotPause: config.Game.InterBotPause(),
	}
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", len(s.connections))

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			s.mu.Unlock()

			// Free or mark the seat after the connection is gone
			if userID := conn.GetUser(); userID != "" {
				s.logger.Info("Cleaning up disconnected user", "user", userID)
				if gameID, err := s.manager.Disconnect(userID); err == nil {
					s.BroadcastLobby(gameID)
				}
			}
			s.logger.Info("Client disconnected", "total", len(s.connections))

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Authenticate resolves an auth request to an identity. With a
// validator configured the token is checked remotely; otherwise the
// client-supplied name is accepted as-is.
func (s *Server) Authenticate(data AuthData) (auth.Identity, error) {
	if s.validator != nil {
		ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
		defer cancel()

		identity, err := s.validator.Validate(ctx, data.Token)
		if err != nil {
			return auth.Identity{}, err
		}
		if identity != nil {
			return *identity, nil
		}
	}

	if data.Name == "" {
		return auth.Identity{}, fmt.Errorf("name required")
	}
	return auth.Identity{ID: data.Name, Name: data.Name}, nil
}

// BroadcastToGame sends a message to all connections watching a game
func (s *Server) BroadcastToGame(gameID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetGame() == gameID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "user", conn.GetUser())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to game", "gameId", gameID, "type", msg.Type, "recipients", count)
}

// BroadcastGameState sends each watcher their own projection of the
// game. Hands other than the viewer's are reduced to counts.
func (s *Server) BroadcastGameState(gameID string) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		if conn.GetGame() == gameID {
			conns = append(conns, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		s.SendGameState(gameID, conn)
	}
}

// BroadcastLobby sends each watcher their projection of a lobby game
func (s *Server) BroadcastLobby(gameID string) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		if conn.GetGame() == gameID {
			conns = append(conns, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		view, err := s.manager.View(gameID, conn.GetUser())
		if err != nil {
			continue
		}
		msg, err := NewMessage(MessageTypeLobbyUpdated, LobbyUpdatedData{Lobby: view})
		if err != nil {
			s.logger.Error("Failed to create lobby message", "error", err)
			continue
		}
		_ = conn.SendMessage(msg)
	}
}

// SendGameState sends one connection its projection of a game
func (s *Server) SendGameState(gameID string, conn *Connection) {
	view, err := s.manager.View(gameID, conn.GetUser())
	if err != nil {
		return
	}
	msg, err := NewMessage(MessageTypeGameState, GameStateData{Game: view})
	if err != nil {
		s.logger.Error("Failed to create game state message", "error", err)
		return
	}
	_ = conn.SendMessage(msg)
}

// SendToUser sends a message to a specific user
func (s *Server) SendToUser(userID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetUser() == userID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("user not found: %s", userID)
}

// OnGameStarted announces a started game and kicks off bot play
func (s *Server) OnGameStarted(started StartedGame) {
	msg, err := NewMessage(MessageTypeGameStarted, GameStartedData{
		GameID:        started.GameID,
		PassDirection: started.PassDirection,
	})
	if err == nil {
		s.BroadcastToGame(started.GameID, msg)
	}
	s.BroadcastGameState(started.GameID)

	go s.driveBots(started.GameID)
}

// OnCardsPassed handles a committed human pass: the passer gets an
// acknowledgement until everyone has passed, then the exchange is
// revealed to the whole table.
func (s *Server) OnCardsPassed(outcome PassOutcome, conn *Connection) {
	if outcome.AllPassed {
		go func() {
			s.announceAllPassed(outcome)
			s.driveBots(outcome.GameID)
		}()
		return
	}

	ack, err := NewMessage(MessageTypePassCardsSuccess, map[string]int{"seat": outcome.Seat})
	if err == nil {
		_ = conn.SendMessage(ack)
	}
	s.SendGameState(outcome.GameID, conn)

	go s.driveBots(outcome.GameID)
}

// OnCardPlayed handles a human play, running the trick reveal
// asynchronously so the read pump is not blocked by the display wait.
func (s *Server) OnCardPlayed(outcome PlayOutcome) {
	go func() {
		s.announcePlay(outcome.GameID, outcome.Result)
		if !outcome.Result.GameComplete {
			s.driveBots(outcome.GameID)
		}
	}()
}

// announceAllPassed reveals the exchange and the new hands
func (s *Server) announceAllPassed(outcome PassOutcome) {
	if mg, err := s.manager.lookup(outcome.GameID); err == nil {
		mg.announceMu.Lock()
		defer mg.announceMu.Unlock()
	}

	msg, err := NewMessage(MessageTypeAllCardsPassed, AllCardsPassedData{
		GameID:      outcome.GameID,
		TrickLeader: outcome.TrickLeader,
	})
	if err == nil {
		s.BroadcastToGame(outcome.GameID, msg)
	}
	s.BroadcastGameState(outcome.GameID)
}

// announcePlay broadcasts the consequences of one play. A completed
// trick is shown with all four cards for the display interval before
// the cleared table goes out. Announcements for a game run one at a
// time: a play made during the display interval queues behind it.
func (s *Server) announcePlay(gameID string, result game.PlayResult) {
	if mg, err := s.manager.lookup(gameID); err == nil {
		mg.announceMu.Lock()
		defer mg.announceMu.Unlock()
	}

	if result.TrickComplete {
		data := TrickCompletedData{
			GameID:     gameID,
			Winner:     result.Winner,
			Points:     result.Points,
			TrickCards: result.TrickCards,
		}
		if result.RoundComplete {
			data.RoundComplete = true
			data.RoundScores = result.RoundScores[:]
		}
		if result.GameComplete {
			data.GameComplete = true
			data.GameWinner = result.GameWinner
		}

		msg, err := NewMessage(MessageTypeTrickCompleted, data)
		if err == nil {
			s.BroadcastToGame(gameID, msg)
		}

		s.wait(s.trickDisplay)
	}

	s.BroadcastGameState(gameID)

	if result.GameComplete {
		s.logger.Info("Game complete", "game", gameID, "winner", result.GameWinner)
		s.manager.RemoveFinishedGames()
	}
}

// driveBots plays for every bot whose turn it is, pausing between
// actions so the table reads like play rather than a flash of state.
// Only one loop may drive a game at a time; a second caller returns
// immediately and leaves the running loop to pick up the new state.
func (s *Server) driveBots(gameID string) {
	if !s.manager.TryBeginBotDrive(gameID) {
		return
	}
	defer s.manager.EndBotDrive(gameID)

	for i := 0; i < maxBotActions; i++ {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		// The game can finish or be abandoned between iterations
		state, err := s.manager.State(gameID)
		if err != nil || (state != game.Passing && state != game.Playing) {
			return
		}

		seat, ok := s.manager.NextBotActor(gameID)
		if !ok {
			return
		}

		s.wait(s.interBotPause)

		outcome, err := s.manager.BotAct(gameID, seat)
		if err != nil {
			s.logger.Error("Bot action failed", "game", gameID, "seat", seat, "error", err)
			return
		}

		switch {
		case outcome.Pass != nil:
			if outcome.Pass.AllPassed {
				s.announceAllPassed(*outcome.Pass)
			}

		case outcome.Play != nil:
			s.announcePlay(gameID, outcome.Play.Result)
			if outcome.Play.Result.GameComplete {
				return
			}
		}
	}

	s.logger.Warn("Bot loop hit iteration cap", "game", gameID)
}

// wait blocks for the given interval on the server clock, returning
// early on shutdown.
func (s *Server) wait(d time.Duration) {
	if d <= 0 {
		return
	}

	done := make(chan struct{})
	timer := s.clock.AfterFunc(d, func() {
		close(done)
	})
	defer timer.Stop()

	select {
	case <-done:
	case <-s.ctx.Done():
	}
}
