package model

// Voice is one of the selectable speech styles
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Voices is the catalog offered to the client, in display order
var Voices = []Voice{
	{ID: "alloy", Name: "Alloy", Description: "Balanced Neutral", Color: "#4F46E5"},
	{ID: "echo", Name: "Echo", Description: "Deep and powerful", Color: "#6366F1"},
	{ID: "fable", Name: "Fable", Description: "Warm narration", Color: "#8B5CF6"},
	{ID: "onyx", Name: "Onyx", Description: "Majestic and solemn", Color: "#333333"},
	{ID: "nova", Name: "Nova", Description: "Friendly and professional", Color: "#10B981"},
	{ID: "shimmer", Name: "Shimmer", Description: "Light and bright", Color: "#60A5FA"},
	{ID: "coral", Name: "Coral", Description: "Gentle and calm", Color: "#F87171"},
	{ID: "verse", Name: "Verse", Description: "Vivid Poetry", Color: "#FBBF24"},
	{ID: "ballad", Name: "Ballad", Description: "Lyrical and Soft", Color: "#A78BFA"},
	{ID: "ash", Name: "Ash", Description: "Thinking calmly", Color: "#4B5563"},
	{ID: "sage", Name: "Sage", Description: "Wisdom and sophistication", Color: "#059669"},
	{ID: "amuch", Name: "Amuch", Description: "Full and natural", Color: "#F59E0B"},
	{ID: "aster", Name: "Aster", Description: "Clear and direct", Color: "#2563EB"},
	{ID: "brook", Name: "Brook", Description: "Smooth and comfortable", Color: "#3B82F6"},
	{ID: "clover", Name: "Clover", Description: "Lively and youthful", Color: "#EC4899"},
	{ID: "dan", Name: "Dan", Description: "Steady male voice", Color: "#1F2937"},
	{ID: "elan", Name: "Elan", Description: "Elegant and fluent", Color: "#7C3AED"},
}

// IsValidVoice checks an id against the catalog
func IsValidVoice(id string) bool {
	for _, v := range Voices {
		if v.ID == id {
			return true
		}
	}
	return false
}
