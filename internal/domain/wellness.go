package domain

import "time"

// TodoItem is a gentle task. MoodContext is the mood that produced it, if any.
type TodoItem struct {
	ID          TodoID `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	MoodContext Mood   `json:"mood_context,omitempty"`
}

// MaxWaterLevel is a full day of glasses.
const MaxWaterLevel = 8

// Hydration tracks glasses drunk today and when the last one was.
type Hydration struct {
	Level     int       `json:"level"`
	LastDrink time.Time `json:"last_drink"`
}

// Full reports whether no more glasses can be counted.
func (h Hydration) Full() bool {
	return h.Level >= MaxWaterLevel
}

// FillPercent is how full the avatar is drawn. It never drops below 15 so an
// empty droplet is still visible.
func (h Hydration) FillPercent() int {
	pct := h.Level * 100 / MaxWaterLevel
	return min(100, max(15, pct))
}

// NightSummary is the end-of-day reflection.
type NightSummary struct {
	WaterLevel     int         `json:"water_level"`
	CompletedTodos []*TodoItem `json:"completed_todos"`
	Gratitude      [3]string   `json:"gratitude"`
	Saved          bool        `json:"saved"`
}
