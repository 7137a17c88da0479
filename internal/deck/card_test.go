package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Card
		wantErr  bool
	}{
		{
			name:     "two of clubs",
			input:    "2C",
			expected: Card{Suit: Clubs, Rank: Two},
		},
		{
			name:     "queen of spades",
			input:    "QS",
			expected: Card{Suit: Spades, Rank: Queen},
		},
		{
			name:     "ten of hearts",
			input:    "TH",
			expected: Card{Suit: Hearts, Rank: Ten},
		},
		{
			name:     "ace of diamonds",
			input:    "AD",
			expected: Card{Suit: Diamonds, Rank: Ace},
		},
		{
			name:    "invalid rank",
			input:   "XC",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "2X",
			wantErr: true,
		},
		{
			name:    "too long",
			input:   "10H",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, card)
		})
	}
}

func TestCardCodeRoundTrip(t *testing.T) {
	for suit := Clubs; suit <= Hearts; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(suit, rank)
			parsed, err := ParseCard(card.Code())
			require.NoError(t, err)
			assert.Equal(t, card, parsed)
		}
	}
}

func TestCardPoints(t *testing.T) {
	assert.Equal(t, 1, NewCard(Hearts, Two).Points())
	assert.Equal(t, 1, NewCard(Hearts, Ace).Points())
	assert.Equal(t, 13, QueenOfSpades.Points())
	assert.Equal(t, 0, NewCard(Spades, King).Points())
	assert.Equal(t, 0, TwoOfClubs.Points())
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(QueenOfSpades)
	require.NoError(t, err)
	assert.Equal(t, `"QS"`, string(data))

	var card Card
	require.NoError(t, json.Unmarshal([]byte(`"7H"`), &card))
	assert.Equal(t, Card{Suit: Hearts, Rank: Seven}, card)

	assert.Error(t, json.Unmarshal([]byte(`"ZZ"`), &card))
	assert.Error(t, json.Unmarshal([]byte(`7`), &card))
}

func TestCardDisplayOrder(t *testing.T) {
	// Clubs sort before diamonds, spades, then hearts
	assert.True(t, NewCard(Clubs, Ace).Less(NewCard(Diamonds, Two)))
	assert.True(t, NewCard(Spades, King).Less(NewCard(Hearts, Two)))
	assert.True(t, NewCard(Clubs, Two).Less(NewCard(Clubs, Three)))
}
