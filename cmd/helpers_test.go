package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	gm "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// createMidiBytes is a two beat melody at 480 ticks per beat: C5 for a
// beat, then A5 for a beat.
func createMidiBytes(t *testing.T) []byte {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(480, gm.NoteOff(0, 60))
	tr.Add(0, gm.NoteOn(0, 69, 80))
	tr.Add(480, gm.NoteOff(0, 69))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func createMidiFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "melody.mid")
	require.NoError(t, os.WriteFile(path, createMidiBytes(t), 0644))
	return path
}
