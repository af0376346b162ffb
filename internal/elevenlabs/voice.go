package elevenlabs

import (
	"strings"
)

// Voice is one selectable voice.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GenderAll disables the gender filter.
const GenderAll = "all"

// Filter narrows the voice list. Empty fields match everything.
type Filter struct {
	Accent string `query:"accent"`
	Gender string `query:"gender"`
	Search string `query:"search"`
}

// descriptions of the curated voices, keyed by voice name.
var descriptions = map[string]string{ //nolint:gochecknoglobals
	"Mariana":       "Soothing, Melodic, Brazilian Portuguese, Female",
	"Jarom Dastrup": "Dynamic, Energetic, American, Male",
	"Anthony B":     "Professional, Articulate, British, Male",
	"Corbin":        "Youthful, Enthusiastic, American, Male",
	"Aria":          "Expressive, Versatile, American, Female",
	"Roger":         "Confident, Authoritative, American, Male",
	"Sarah":         "Soft, Nurturing, American, Female",
	"Laura":         "Upbeat, Friendly, American, Female",
	"Charlie":       "Natural, Laid-back, Australian, Male",
	"George":        "Warm, Sophisticated, British, Male",
	"Callum":        "Intense, Dramatic, Transatlantic, Male",
	"River":         "Confident, Modern, American, Non-binary",
	"Liam":          "Articulate, Professional, American, Male",
	"Charlotte":     "Seductive, Elegant, Swedish, Female",
}

// Describe returns the curated description of name, else the accent, nationality and gender labels.
func Describe(name string, labels map[string]string) string {
	if d, ok := descriptions[name]; ok {
		return d
	}

	parts := make([]string, 0, 3) //nolint:mnd

	for _, key := range []string{"accent", "nationality", "gender"} {
		if v := labels[key]; v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, ", ")
}

// Match reports whether v passes the filter.
// Gender compares whole description terms, so "male" does not select female voices.
func (f Filter) Match(v Voice) bool {
	desc := strings.ToLower(v.Description)

	if accent := strings.ToLower(strings.TrimSpace(f.Accent)); accent != "" && !strings.Contains(desc, accent) {
		return false
	}

	if gender := strings.ToLower(strings.TrimSpace(f.Gender)); gender != "" && gender != GenderAll && !hasTerm(desc, gender) {
		return false
	}

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		return strings.Contains(strings.ToLower(v.Name), search) || strings.Contains(desc, search)
	}

	return true
}

// Apply returns the voices matching f in their original order.
func (f Filter) Apply(voices []Voice) []Voice {
	out := make([]Voice, 0, len(voices))

	for _, v := range voices {
		if f.Match(v) {
			out = append(out, v)
		}
	}

	return out
}

// Find returns the voice with id, used to show the current selection.
func Find(voices []Voice, id string) (Voice, bool) {
	for _, v := range voices {
		if v.ID == id {
			return v, true
		}
	}

	return Voice{}, false
}

func hasTerm(desc, term string) bool {
	for _, part := range strings.Split(desc, ",") {
		if strings.TrimSpace(part) == term {
			return true
		}
	}

	return false
}
