package server

import (
	"encoding/json"
	"time"

	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/store"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	Token string `json:"token,omitempty"`
	// Name is used when the server runs without an auth service.
	Name string `json:"name,omitempty"`
}

type TakeSeatData struct {
	Seat int `json:"seat"`
}

type AddBotData struct {
	Seat int `json:"seat"`
}

type RemoveBotData struct {
	Seat int `json:"seat"`
}

type PassCardsData struct {
	Cards []string `json:"cards"`
}

type PlayCardData struct {
	Card string `json:"card"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LobbyUpdatedData struct {
	Lobby game.View `json:"lobby"`
}

type GameStartedData struct {
	GameID        string `json:"gameId"`
	PassDirection string `json:"passDirection"`
}

type GameStateData struct {
	Game game.View `json:"game"`
}

type TrickCompletedData struct {
	GameID        string           `json:"gameId"`
	Winner        int              `json:"winner"`
	Points        int              `json:"points"`
	TrickCards    []game.TrickPlay `json:"trickCards"`
	RoundComplete bool             `json:"roundComplete,omitempty"`
	RoundScores   []int            `json:"roundScores,omitempty"`
	GameComplete  bool             `json:"gameComplete,omitempty"`
	GameWinner    int              `json:"gameWinner,omitempty"`
}

type AllCardsPassedData struct {
	GameID      string `json:"gameId"`
	TrickLeader int    `json:"trickLeader"`
}

type ResultsData struct {
	Results []ResultRow `json:"results"`
}

type ResultRow struct {
	GameID     string `json:"gameId"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	TotalScore int    `json:"totalScore"`
	Won        bool   `json:"won"`
}

// resultRowsFromStore converts store rows into the wire payload.
func resultRowsFromStore(results []store.Result) []ResultRow {
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{
			GameID:     r.GameID,
			Name:       r.Name,
			Seat:       r.Seat,
			TotalScore: r.TotalScore,
			Won:        r.Won,
		}
	}
	return rows
}
