// Package game implements the authoritative Hearts state machine for a
// single game instance: seating, dealing, passing, trick legality,
// scoring and round/game completion.
//
// The package performs no I/O and knows nothing about connections,
// persistence or timing. Callers are expected to serialize all
// mutations per game; see internal/server for the concurrency layer.
//
// A game moves through the states lobby -> passing -> playing, looping
// back to passing (or playing, on no-pass rounds) after each 13-trick
// round, until a player reaches 100 points and the game is finished.
package game
