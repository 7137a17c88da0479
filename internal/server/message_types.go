package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeAuth          MessageType = "auth"
	MessageTypeJoinLobby     MessageType = "join-lobby"
	MessageTypeTakeSeat      MessageType = "take-seat"
	MessageTypeLeaveSeat     MessageType = "leave-seat"
	MessageTypeReadyForGame  MessageType = "ready-for-game"
	MessageTypeStartGame     MessageType = "start-game"
	MessageTypeAddBot        MessageType = "add-bot"
	MessageTypeRemoveBot     MessageType = "remove-bot"
	MessageTypePassCards     MessageType = "pass-cards"
	MessageTypePlayCard      MessageType = "play-card"
	MessageTypeRecentResults MessageType = "recent-results"

	// Server to client messages
	MessageTypeAuthResponse      MessageType = "auth-response"
	MessageTypeLobbyUpdated      MessageType = "lobby-updated"
	MessageTypeGameStarted       MessageType = "game-started"
	MessageTypeGameState         MessageType = "game-state"
	MessageTypeTrickCompleted    MessageType = "trick-completed"
	MessageTypeAllCardsPassed    MessageType = "all-cards-passed"
	MessageTypePassCardsSuccess  MessageType = "pass-cards-success"
	MessageTypeResults           MessageType = "results"
	MessageTypeError             MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
