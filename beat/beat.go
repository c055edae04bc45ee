// Package beat collapses dense per-tick timelines into one note per beat
// window by majority vote.
package beat

import (
	"github.com/jsphweid/beattable/note"
	"github.com/pkg/errors"
)

var ErrBeatResolution = errors.New("beat resolution must be positive")

// Downsample splits tl into consecutive windows of beatResolution ticks and
// keeps the most common note of each. A trailing partial window is dropped.
func Downsample(tl []note.Note, beatResolution int) ([]note.Note, error) {
	if beatResolution <= 0 {
		return nil, errors.Wrapf(ErrBeatResolution, "got %d", beatResolution)
	}

	numBeats := len(tl) / beatResolution
	res := make([]note.Note, 0, numBeats)
	for b := 0; b < numBeats; b++ {
		start := b * beatResolution
		res = append(res, Winner(tl[start:start+beatResolution]))
	}
	return res, nil
}

// voteKey is the identity a note votes under: every rest shares one key,
// sounding notes are keyed by pitch and velocity. Notes with equal keys are
// exactly the notes note.Note.Equal reports equal.
type voteKey struct {
	pitch    uint8
	velocity uint8
	sounding bool
}

func keyOf(n note.Note) voteKey {
	pitch, sounding := n.Pitch()
	if !sounding {
		return voteKey{}
	}
	return voteKey{pitch: pitch, velocity: n.Velocity(), sounding: true}
}

// Winner returns the note occurring most often in window. Ties go to the
// note seen first. An empty window yields a rest.
func Winner(window []note.Note) note.Note {
	counts := make(map[voteKey]int)
	var order []note.Note
	for _, n := range window {
		k := keyOf(n)
		if _, seen := counts[k]; !seen {
			order = append(order, n)
		}
		counts[k]++
	}

	best := note.Rest
	bestCount := 0
	for _, n := range order {
		if c := counts[keyOf(n)]; c > bestCount {
			best = n
			bestCount = c
		}
	}
	return best
}
