package exercise

// GroundingStep is one screen of the 5-4-3-2-1 exercise. Count is how many
// taps the step needs; zero means one tap.
type GroundingStep struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Action string `json:"action"`
	Count  int    `json:"count,omitempty"`
}

var GroundingSteps = []GroundingStep{
	{
		ID:     "start",
		Title:  "Roots in the Water",
		Text:   "Let's gently find our place here. Like a lotus flower resting on the surface, or roots holding onto the riverbed.",
		Action: "Get comfortable...",
	},
	{
		ID:     "see",
		Title:  "5 Things You See",
		Text:   "Look around gently. Find 5 things that have color or light. Let your eyes rest on them like a butterfly landing.",
		Action: "Tap when found",
		Count:  5,
	},
	{
		ID:     "touch",
		Title:  "4 Things You Can Touch",
		Text:   "Reach out or feel where you are. The fabric of your clothes, the smooth table, the air on your skin. Find 4 textures.",
		Action: "Tap when felt",
		Count:  4,
	},
	{
		ID:     "hear",
		Title:  "3 Things You Hear",
		Text:   "Close your eyes if you like. Listen for 3 sounds. A distant car? A bird? The hum of the room?",
		Action: "Tap when heard",
		Count:  3,
	},
	{
		ID:     "smell",
		Title:  "2 Things You Can Smell",
		Text:   "Breathe in... is there a scent of coffee? Rain? Or just the clean smell of air? Find 2 scents.",
		Action: "Tap when found",
		Count:  2,
	},
	{
		ID:     "taste",
		Title:  "1 Thing You Can Taste",
		Text:   "Notice one taste in your mouth. Or notice one emotion you are feeling right now, just one, and let it be.",
		Action: "Tap when noticed",
		Count:  1,
	},
	{
		ID:     "end",
		Title:  "You Are Here",
		Text:   "You are grounded. Safe. Connected. Like a tree drinking from a quiet stream.",
		Action: "Finish",
	},
}

type GroundingState struct {
	Step        GroundingStep `json:"step"`
	StepIndex   int           `json:"step_index"`
	SubProgress int           `json:"sub_progress"`
	Completed   bool          `json:"completed"`
}

type Grounding struct {
	index     int
	sub       int
	completed bool
}

func NewGrounding() *Grounding {
	return &Grounding{}
}

func (g *Grounding) Reset() {
	g.index, g.sub, g.completed = 0, 0, false
}

// Chime is the pitch for a tap on the current step; it rises as the
// exercise goes on.
func (g *Grounding) Chime() float64 {
	return 400 + float64(g.index)*50
}

// Advance records one tap. It returns true exactly once, on the tap that
// finishes the last step.
func (g *Grounding) Advance() bool {
	if g.completed {
		return false
	}

	step := GroundingSteps[g.index]
	if step.Count > 0 && g.sub < step.Count-1 {
		g.sub++
		return false
	}
	if g.index < len(GroundingSteps)-1 {
		g.index++
		g.sub = 0
		return false
	}

	g.completed = true
	return true
}

func (g *Grounding) State() GroundingState {
	return GroundingState{
		Step:        GroundingSteps[g.index],
		StepIndex:   g.index,
		SubProgress: g.sub,
		Completed:   g.completed,
	}
}
