package config

import "time"

const (
	// Model request shape
	ChatTemperature    = 0.7
	ChatCandidateCount = 1

	// How long the model's read of a turn stays on screen
	SuggestionDisplay = 5 * time.Second

	// Celebration after the eighth glass
	CelebrationDuration = 3 * time.Second

	// Avatar boop debounce
	BoopCooldown = 500 * time.Millisecond

	// Delay before the journal offers a fresh prompt
	JournalPromptDelay = 500 * time.Millisecond

	// Breathing countdown step
	BreathingTick = time.Second

	// Upper bound for one chat turn including analysis
	TurnTimeout = 90 * time.Second

	// Live audio stream block size
	AudioBlock = 100 * time.Millisecond
)
