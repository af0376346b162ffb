package elevenlabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	voices := []Voice{
		{ID: "1", Name: "Aria", Description: "Expressive, Versatile, American, Female"},
		{ID: "2", Name: "George", Description: "Warm, Sophisticated, British, Male"},
		{ID: "3", Name: "Charlie", Description: "Natural, Laid-back, Australian, Male"},
		{ID: "4", Name: "River", Description: "Confident, Modern, American, Non-binary"},
	}

	ids := func(vs []Voice) []string {
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			out = append(out, v.ID)
		}

		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "empty filter", filter: Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "gender all", filter: Filter{Gender: GenderAll}, want: []string{"1", "2", "3", "4"}},
		{name: "accent", filter: Filter{Accent: "american"}, want: []string{"1", "4"}},
		{name: "male does not match female", filter: Filter{Gender: "male"}, want: []string{"2", "3"}},
		{name: "female", filter: Filter{Gender: "Female"}, want: []string{"1"}},
		{name: "search by name", filter: Filter{Search: "geo"}, want: []string{"2"}},
		{name: "search by description", filter: Filter{Search: "LAID"}, want: []string{"3"}},
		{name: "combined", filter: Filter{Accent: "british", Gender: "male", Search: "warm"}, want: []string{"2"}},
		{name: "no match", filter: Filter{Accent: "swedish"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(voices)))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Warm, Sophisticated, British, Male", Describe("George", map[string]string{"accent": "x"}))
	assert.Equal(t, "british, uk, male",
		Describe("Someone", map[string]string{"accent": "british", "nationality": "uk", "gender": "male", "age": "old"}))
}

func TestFind(t *testing.T) {
	voices := []Voice{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	v, ok := Find(voices, "b")
	assert.True(t, ok)
	assert.Equal(t, "B", v.Name)

	_, ok = Find(voices, "c")
	assert.False(t, ok)
}
