package pocketcube

import "errors"

// Sentinel errors for the pocketcube package.
var (
	// Input errors
	ErrInvalidMove     = errors.New("pocketcube: invalid move identifier")
	ErrInvalidNotation = errors.New("pocketcube: invalid move notation")

	// State errors
	ErrPlaybackActive = errors.New("pocketcube: playback in progress")
)
