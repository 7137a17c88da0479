package game

import "github.com/lox/hearts/internal/deck"

// SeatView is the projection of one seat sent to clients. Hand contents
// are only present for the viewer's own seat; every other seat exposes
// just the hand size.
type SeatView struct {
	Seat        int         `json:"seat"`
	Occupied    bool        `json:"occupied"`
	Name        string      `json:"name,omitempty"`
	IsBot       bool        `json:"isBot,omitempty"`
	IsConnected bool        `json:"isConnected,omitempty"`
	IsReady     bool        `json:"isReady,omitempty"`
	HandCount   int         `json:"handCount"`
	Hand        []deck.Card `json:"hand,omitempty"`
	HasPassed   bool        `json:"hasPassed,omitempty"`
	RoundScore  int         `json:"roundScore"`
	TotalScore  int         `json:"totalScore"`
	TricksWon   int         `json:"tricksWon"`
}

// View is the per-viewer projection of a game.
type View struct {
	ID            string               `json:"id"`
	State         string               `json:"state"`
	Round         int                  `json:"round"`
	TrickNumber   int                  `json:"trickNumber"`
	PassDirection string               `json:"passDirection"`
	HeartsBroken  bool                 `json:"heartsBroken"`
	TrickLeader   int                  `json:"trickLeader"`
	CurrentTrick  []TrickPlay          `json:"currentTrick"`
	NextSeat      int                  `json:"nextSeat"`
	LobbyLeader   int                  `json:"lobbyLeader"`
	Winner        int                  `json:"winner"`
	ViewerSeat    int                  `json:"viewerSeat"`
	Seats         [NumSeats]SeatView   `json:"seats"`
}

// ViewFor builds the projection of the game for one viewer. Viewers who
// are not seated see no hand contents at all.
func (g *Game) ViewFor(userID string) View {
	viewerSeat, _ := g.SeatOf(userID)

	v := View{
		ID:            g.ID,
		State:         g.State.String(),
		Round:         g.Round,
		TrickNumber:   g.TrickNumber,
		PassDirection: g.PassDirection.String(),
		HeartsBroken:  g.HeartsBroken,
		TrickLeader:   g.TrickLeader,
		CurrentTrick:  append([]TrickPlay(nil), g.CurrentTrick...),
		NextSeat:      g.NextActor(),
		LobbyLeader:   g.LobbyLeader,
		Winner:        g.Winner,
		ViewerSeat:    viewerSeat,
	}

	for i, p := range g.Seats {
		sv := SeatView{Seat: i}
		if p != nil {
			sv.Occupied = true
			sv.Name = p.Name
			sv.IsBot = p.IsBot
			sv.IsConnected = p.IsConnected
			sv.IsReady = p.IsReady
			sv.HandCount = len(p.Hand)
			sv.HasPassed = p.HasPassed
			sv.RoundScore = p.RoundScore
			sv.TotalScore = p.TotalScore
			sv.TricksWon = p.TricksWon
			if i == viewerSeat {
				sv.Hand = append([]deck.Card(nil), p.Hand...)
			}
		}
		v.Seats[i] = sv
	}
	return v
}
