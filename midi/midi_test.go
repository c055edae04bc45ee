package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/beattable/timeline"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gm "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func createSMF(t *testing.T) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(120))
	conductor.Close(0)
	require.NoError(t, s.Add(conductor))

	var melody smf.Track
	melody.Add(0, gm.NoteOn(0, 60, 100))
	melody.Add(480, gm.NoteOff(0, 60))
	melody.Add(10, gm.ControlChange(0, 7, 100))
	melody.Add(20, gm.NoteOn(0, 62, 80))
	melody.Add(240, gm.NoteOff(0, 62))
	melody.Close(0)
	require.NoError(t, s.Add(melody))
	return s
}

func TestFromSMF(t *testing.T) {
	stream, err := FromSMF(createSMF(t))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(480, stream.Resolution)
	assert.Len(stream.Tracks, 2)
	assert.Empty(stream.Tracks[0])
	assert.Equal([]timeline.Event{
		{Kind: timeline.NoteOn, Pitch: 60, Velocity: 100, DeltaTicks: 0},
		{Kind: timeline.NoteOff, Pitch: 60, Velocity: 0, DeltaTicks: 480},
		{Kind: timeline.NoteOn, Pitch: 62, Velocity: 80, DeltaTicks: 20},
		{Kind: timeline.NoteOff, Pitch: 62, Velocity: 0, DeltaTicks: 240},
	}, stream.Tracks[1])
}

func TestNonNoteEventsDoNotAdvanceTime(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(4)

	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(4, gm.NoteOff(0, 60))
	tr.Add(8, gm.ControlChange(0, 64, 127))
	tr.Add(0, gm.NoteOn(0, 62, 100))
	tr.Add(4, gm.NoteOff(0, 62))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	stream, err := FromSMF(s)
	require.NoError(t, err)

	var deltas []uint32
	for _, evt := range stream.Tracks[0] {
		deltas = append(deltas, evt.DeltaTicks)
	}
	assert.Equal(t, []uint32{0, 4, 0, 4}, deltas)
}

func TestDecodeWrittenFile(t *testing.T) {
	var buf bytes.Buffer
	_, err := createSMF(t).WriteTo(&buf)
	require.NoError(t, err)

	stream, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 480, stream.Resolution)
	assert.Len(t, stream.Tracks[1], 4)
}

func TestReadMidiFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = createSMF(t).WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	stream, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, stream.Tracks, 2)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a midi file")))
	assert.True(t, errors.Is(err, ErrDecode))

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.True(t, errors.Is(err, ErrDecode))
}
