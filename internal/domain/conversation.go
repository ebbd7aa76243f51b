package domain

// ChatMessage is one bubble in the chat log. Text changes in place only
// while Streaming is true.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Streaming bool      `json:"streaming"`
	CreatedAt Timestamp `json:"created_at"`
}

// InterventionSuggestion is the model's read of a single user turn.
type InterventionSuggestion struct {
	Mood            Mood    `json:"mood" validate:"required,oneof=happy sad calm curious thinking listening celebrating"`
	Reasoning       string  `json:"reasoning" validate:"required,maxwords=5"`
	RecommendedMode AppMode `json:"recommendedMode" validate:"required,oneof=CHAT BREATHING TODO JOURNAL GROUNDING"`
}
