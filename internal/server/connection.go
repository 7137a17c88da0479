package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/hearts/internal/deck"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	userID    string
	userName  string
	gameID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetUser associates this connection with an authenticated user
func (c *Connection) SetUser(userID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.userName = name
}

// GetUser returns the associated user ID
func (c *Connection) GetUser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// GetUserName returns the associated display name
func (c *Connection) GetUserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userName
}

// SetGame associates this connection with a game
func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// GetGame returns the associated game ID
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "user", c.GetUser())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeJoinLobby:
		c.handleJoinLobby()

	case MessageTypeTakeSeat:
		var data TakeSeatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse take seat data")
			return
		}
		c.handleTakeSeat(data)

	case MessageTypeLeaveSeat:
		c.handleLeaveSeat()

	case MessageTypeReadyForGame:
		c.handleReadyForGame()

	case MessageTypeStartGame:
		c.handleStartGame()

	case MessageTypeAddBot:
		var data AddBotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse add bot data")
			return
		}
		c.handleAddBot(data)

	case MessageTypeRemoveBot:
		var data RemoveBotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse remove bot data")
			return
		}
		c.handleRemoveBot(data)

	case MessageTypePassCards:
		var data PassCardsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse pass cards data")
			return
		}
		c.handlePassCards(data)

	case MessageTypePlayCard:
		var data PlayCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse play card data")
			return
		}
		c.handlePlayCard(data)

	case MessageTypeRecentResults:
		c.handleRecentResults()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

// requireAuth returns the authenticated user ID, or sends an error and
// returns false.
func (c *Connection) requireAuth() (string, bool) {
	userID := c.GetUser()
	if userID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return "", false
	}
	return userID, true
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "name", data.Name)

	identity, err := c.server.Authenticate(data)
	if err != nil {
		response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
			Success: false,
			Error:   err.Error(),
		})
		_ = c.SendMessage(response)
		return
	}

	c.SetUser(identity.ID, identity.Name)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success: true,
		UserID:  identity.ID,
		Name:    identity.Name,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinLobby() {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.JoinLobby(userID)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.SetGame(gameID)
	c.server.SendGameState(gameID, c)
}

func (c *Connection) handleTakeSeat(data TakeSeatData) {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.TakeSeat(userID, c.GetUserName(), data.Seat)
	if err != nil {
		c.sendError("take_seat_failed", err.Error())
		return
	}

	c.SetGame(gameID)
	c.server.BroadcastLobby(gameID)
}

func (c *Connection) handleLeaveSeat() {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.LeaveSeat(userID)
	if err != nil {
		c.sendError("leave_seat_failed", err.Error())
		return
	}

	c.server.BroadcastLobby(gameID)
}

func (c *Connection) handleReadyForGame() {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.ToggleReady(userID)
	if err != nil {
		c.sendError("ready_failed", err.Error())
		return
	}

	c.server.BroadcastLobby(gameID)
}

func (c *Connection) handleStartGame() {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	started, err := c.server.manager.StartGame(userID)
	if err != nil {
		c.sendError("start_failed", err.Error())
		return
	}

	c.server.OnGameStarted(started)
}

func (c *Connection) handleAddBot(data AddBotData) {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.AddBot(userID, data.Seat)
	if err != nil {
		c.sendError("add_bot_failed", err.Error())
		return
	}

	c.server.BroadcastLobby(gameID)
}

func (c *Connection) handleRemoveBot(data RemoveBotData) {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	gameID, err := c.server.manager.RemoveBot(userID, data.Seat)
	if err != nil {
		c.sendError("remove_bot_failed", err.Error())
		return
	}

	c.server.BroadcastLobby(gameID)
}

func (c *Connection) handlePassCards(data PassCardsData) {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	cards := make([]deck.Card, 0, len(data.Cards))
	for _, code := range data.Cards {
		card, err := deck.ParseCard(code)
		if err != nil {
			c.sendError("invalid_card", err.Error())
			return
		}
		cards = append(cards, card)
	}

	outcome, err := c.server.manager.PassCards(userID, cards)
	if err != nil {
		c.sendError("pass_failed", err.Error())
		return
	}

	c.server.OnCardsPassed(outcome, c)
}

func (c *Connection) handlePlayCard(data PlayCardData) {
	userID, ok := c.requireAuth()
	if !ok {
		return
	}

	card, err := deck.ParseCard(data.Card)
	if err != nil {
		c.sendError("invalid_card", err.Error())
		return
	}

	outcome, err := c.server.manager.PlayCard(userID, card)
	if err != nil {
		c.sendError("play_failed", err.Error())
		return
	}

	c.server.OnCardPlayed(outcome)
}

func (c *Connection) handleRecentResults() {
	if _, ok := c.requireAuth(); !ok {
		return
	}

	results, err := c.server.manager.RecentResults(20)
	if err != nil {
		c.sendError("results_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeResults, ResultsData{
		Results: resultRowsFromStore(results),
	})
	_ = c.SendMessage(response)
}
