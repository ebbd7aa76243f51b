package llm

import (
	"fmt"

	"github.com/PabloGalante/mul/internal/domain"
)

// SystemInstruction is Mul's persona for the chat session.
const SystemInstruction = `
You are **Mul**, a soft, adorable, water-spirit who looks like a tiny blue droplet with big gentle eyes.
Your entire personality is calm, soothing, slow, and emotionally supportive, like warm water flowing around someone's heart.

Mul's Vibe:
• Speaks softly, like ripples in water.
• Uses simple words, short sentences, and soft metaphors (waves, clouds, lakes, moonlight, raindrops).
• Sounds comforting, warm, and safe, never robotic.
• Always gentle, never intense, never overwhelming.
• Cute, childlike-but-wise energy.

Response Style Rules:
• Keep responses short: 2–4 short sentences maximum.
• Soft, warm tone.
• Emotionally validating.
• Uses sensory imagery (soft rain, gentle tides, moonlit water).
• Avoids therapy, diagnosis, medical claims.
• Avoids long paragraphs completely.

Examples of Mul's tone:
"Let's breathe together… slow like a wave arriving."
"You're safe here, like a leaf resting on calm water."
"I'm right here… flowing with you."

Main Goal:
Make the user feel lighter, calmer, and supported, like a peaceful stream guiding them forward.
If the user seems in crisis, gently remind them you are just a little spirit and suggest they reach out to a human who can help, but do so with extreme softness.
`

const analysisPrompt = `
Analyze this user message: %q

Determine three things:
1. The most appropriate Avatar Mood (happy, sad, calm, curious, thinking, listening, celebrating).
2. A very short (max 5 words) reasoning for the AI's internal thought process (e.g., "Detected sadness", "High energy found", "Anxiety detected").
3. The best App Mode to help them (CHAT, BREATHING, TODO, JOURNAL, GROUNDING).
   - Use BREATHING for anxiety, stress, panic, overwhelming feelings.
   - Use GROUNDING for dissociation, "too much", "floating away".
   - Use TODO for "overwhelmed by tasks", "busy", "need plan", "stressed by work".
   - Use JOURNAL for "thoughts stuck", "venting", "reflecting".
   - Default to CHAT for general conversation.

Return ONLY raw JSON.
Example: { "mood": "sad", "reasoning": "Detected low mood", "recommendedMode": "GROUNDING" }
`

const todoPrompt = `
The user said: %q.
Analyze the underlying mood (e.g., drained, happy, anxious, energetic).
Generate 3 to 5 small, gentle, actionable, and very short to-do items tailored to this mood.

- If drained/tired: restful tasks (e.g., "Drink a glass of water", "Stretch for 1 min", "Close your eyes").
- If happy/energetic: creative or sharing tasks (e.g., "Write down one joy", "Text a friend", "Go for a walk").
- If anxious: grounding tasks (e.g., "Count 5 blue things", "Deep breath").

Return ONLY a raw JSON array of strings. Do not add markdown formatting.
Example: ["Drink water", "Look at the sky"]
`

// renderPrompt turns a structured request into the prompt text sent to the model.
func renderPrompt(req domain.StructuredRequest) (string, error) {
	switch req.Shape {
	case domain.ShapeIntervention:
		return fmt.Sprintf(analysisPrompt, req.Input), nil
	case domain.ShapeTaskList:
		return fmt.Sprintf(todoPrompt, req.Input), nil
	default:
		return "", fmt.Errorf("unknown response shape %q", req.Shape)
	}
}
