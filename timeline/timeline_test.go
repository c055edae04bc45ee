package timeline

import (
	"testing"

	"github.com/jsphweid/beattable/note"
	"github.com/stretchr/testify/assert"
)

func on(pitch, velocity uint8, delta uint32) Event {
	return Event{Kind: NoteOn, Pitch: pitch, Velocity: velocity, DeltaTicks: delta}
}

func off(pitch uint8, delta uint32) Event {
	return Event{Kind: NoteOff, Pitch: pitch, DeltaTicks: delta}
}

func repeat(n note.Note, count int) Timeline {
	res := make(Timeline, count)
	for i := range res {
		res[i] = n
	}
	return res
}

func TestSingleNoteFillsItsDuration(t *testing.T) {
	tl := Build([]Event{on(60, 100, 0), off(60, 480)})

	assert := assert.New(t)
	assert.Len(tl, 480)
	assert.Equal(repeat(note.New(60, 100), 480), tl)
}

func TestDeltaBeforeNoteOnIsSilence(t *testing.T) {
	tl := Build([]Event{on(60, 100, 3), off(60, 2)})

	want := append(repeat(note.Rest, 3), repeat(note.New(60, 100), 2)...)
	assert.Equal(t, want, tl)
}

func TestSecondNoteOnOverwritesQueuedNote(t *testing.T) {
	tl := Build([]Event{on(60, 90, 0), on(64, 90, 0), off(60, 4)})

	assert.Equal(t, repeat(note.New(64, 90), 4), tl)
}

func TestNoteOffWithNothingQueuedIsRest(t *testing.T) {
	tl := Build([]Event{off(60, 2), on(62, 10, 0), off(62, 1)})

	want := Timeline{note.Rest, note.Rest, note.New(62, 10)}
	assert.Equal(t, want, tl)
}

func TestQueuedNoteSurvivesNoteOff(t *testing.T) {
	// the queue is not cleared, a later NoteOff repeats the last note
	tl := Build([]Event{on(60, 100, 0), off(60, 1), off(60, 2)})

	assert.Equal(t, repeat(note.New(60, 100), 3), tl)
}

func TestZeroDeltaAppendsNothing(t *testing.T) {
	assert.Empty(t, Build([]Event{on(60, 100, 0), off(60, 0)}))
	assert.Empty(t, Build(nil))
}

func TestBuildAllDropsEmptyTracks(t *testing.T) {
	tracks := [][]Event{
		nil,
		{on(60, 100, 0), off(60, 2)},
		{on(61, 100, 0), off(61, 0)},
		{on(62, 100, 1), off(62, 1)},
	}

	res := BuildAll(tracks)

	assert := assert.New(t)
	assert.Len(res, 2)
	assert.Equal(repeat(note.New(60, 100), 2), res[0])
	assert.Equal(Timeline{note.Rest, note.New(62, 100)}, res[1])
}

func TestTicksMatchesBuildLength(t *testing.T) {
	events := []Event{on(60, 100, 3), off(60, 5), on(61, 1, 0), on(62, 1, 2), off(62, 7)}
	assert.Equal(t, uint64(len(Build(events))), Ticks(events))
	assert.Equal(t, uint64(0), Ticks(nil))
}
