package mistakes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/profile"
)

func q(id string) profile.Question {
	return profile.Question{ID: id, QuestionText: "?", Options: []string{"a", "b"}}
}

func TestLog_NewestFirst(t *testing.T) {
	p := profile.Default()
	assert.True(t, Log(p, q("a")))
	assert.True(t, Log(p, q("b")))
	require.Len(t, p.IncorrectQuestions, 2)
	assert.Equal(t, "b", p.IncorrectQuestions[0].ID)
}

func TestLog_DedupIsNotMoveToFront(t *testing.T) {
	p := profile.Default()
	Log(p, q("a"))
	Log(p, q("b"))
	assert.False(t, Log(p, q("a")))
	require.Len(t, p.IncorrectQuestions, 2)
	assert.Equal(t, "b", p.IncorrectQuestions[0].ID)
}

func TestLog_CapacityEvictsOldest(t *testing.T) {
	p := profile.Default()
	for i := range 101 {
		Log(p, q(fmt.Sprintf("q%d", i)))
	}
	require.Len(t, p.IncorrectQuestions, profile.MistakeCapacity)
	assert.Equal(t, "q100", p.IncorrectQuestions[0].ID)
	_, found := Find(p, "q0")
	assert.False(t, found)
	_, found = Find(p, "q1")
	assert.True(t, found)
}

func TestResolve(t *testing.T) {
	p := profile.Default()
	Log(p, q("a"))
	Log(p, q("b"))

	assert.True(t, Resolve(p, "a"))
	assert.False(t, Resolve(p, "a"))
	assert.False(t, Resolve(p, "missing"))
	require.Len(t, p.IncorrectQuestions, 1)
	assert.Equal(t, "b", p.IncorrectQuestions[0].ID)
}

func TestShortID(t *testing.T) {
	id := ShortID("match-err-123")
	assert.LessOrEqual(t, len(id), 6)
	assert.Equal(t, id, ShortID("match-err-123"))
	assert.Regexp(t, `^[0-9A-F]+$`, id)
}
