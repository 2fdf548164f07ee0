package review

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuggestions(n int) []Suggestion {
	out := make([]Suggestion, n)
	for i := range out {
		out[i] = Suggestion{
			ID:         fmt.Sprintf("s%d", i+1),
			Original:   fmt.Sprintf("did thing %d", i+1),
			Suggestion: fmt.Sprintf("Led thing %d", i+1),
		}
	}
	return out
}

func TestAcceptPreservesAcceptanceOrder(t *testing.T) {
	s := New(sampleSuggestions(5))

	require.True(t, s.Accept("s4"))
	require.True(t, s.Accept("s1"))
	require.False(t, s.Accept("s4"), "second accept must be a no-op")
	require.True(t, s.Accept("s3"))
	require.False(t, s.Accept("missing"))

	assert.Equal(t, []string{"Led thing 4", "Led thing 1", "Led thing 3"}, s.Accepted())
	remaining := s.Remaining()
	require.Len(t, remaining, 2)
	assert.Equal(t, "s2", remaining[0].ID)
	assert.Equal(t, "s5", remaining[1].ID)
	assert.Equal(t, "• Led thing 4\n• Led thing 1\n• Led thing 3", s.Text())
}

func TestEverySuggestionIsInExactlyOneSet(t *testing.T) {
	const n = 8
	s := New(sampleSuggestions(n))
	for _, id := range []string{"s2", "s7", "s2", "s5", "s7", "s8"} {
		s.Accept(id)
	}

	assert.Len(t, s.Accepted(), 4)
	assert.Len(t, s.Remaining(), n-4)

	accepted := map[string]bool{}
	for _, text := range s.Accepted() {
		accepted[text] = true
	}
	for _, sug := range s.Remaining() {
		assert.False(t, accepted[sug.Suggestion], "%s is in both sets", sug.ID)
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := sampleSuggestions(2)
	s := New(in)
	s.Accept("s1")
	assert.Equal(t, "s1", in[0].ID, "caller slice must not be mutated")

	out := s.Remaining()
	out[0].ID = "changed"
	assert.Equal(t, "s2", s.Remaining()[0].ID)
}

func TestEmptySession(t *testing.T) {
	s := New(nil)
	assert.False(t, s.Accept("s1"))
	assert.Empty(t, s.Accepted())
	assert.Empty(t, s.Remaining())
	assert.Equal(t, "", s.Text())
}
