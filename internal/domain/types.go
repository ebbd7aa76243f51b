package domain

import "time"

type MessageID string
type TodoID string
type JournalEntryID string

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Mood is what the avatar is currently showing.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodThinking    Mood = "thinking"
	MoodSleeping    Mood = "sleeping"
	MoodListening   Mood = "listening"
	MoodSad         Mood = "sad"
	MoodCalm        Mood = "calm"
	MoodCurious     Mood = "curious"
	MoodCelebrating Mood = "celebrating"
)

// Settled reports whether the mood is one a display timeout must leave alone.
func (m Mood) Settled() bool {
	return m == MoodSad || m == MoodCalm
}

// AppMode is one of the day screens.
type AppMode string

const (
	ModeChat      AppMode = "CHAT"
	ModeBreathing AppMode = "BREATHING"
	ModeTodo      AppMode = "TODO"
	ModeJournal   AppMode = "JOURNAL"
	ModeGrounding AppMode = "GROUNDING"
)

// ParseAppMode accepts the upper-case wire names.
func ParseAppMode(s string) (AppMode, error) {
	switch m := AppMode(s); m {
	case ModeChat, ModeBreathing, ModeTodo, ModeJournal, ModeGrounding:
		return m, nil
	default:
		return "", ErrUnknownMode
	}
}

type Timestamp = time.Time
