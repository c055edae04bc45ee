// Package note holds the Note value type shared by the timeline and the
// downsampler, and the symbolic text form written into playback tables.
package note

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RestToken is the text form of a rest. It can never collide with a real
// note because every real note starts with a pitch class letter.
const RestToken = "1"

// MaxPitch is the largest pitch a 7-bit MIDI data byte can carry.
const MaxPitch = 127

var PitchClasses = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var ErrInvalidNote = errors.New("invalid note")

// Note is a single sounding pitch with its velocity, or a rest. The zero
// value is a rest.
type Note struct {
	pitch    uint8
	velocity uint8
	sounding bool
}

// Rest is silence: no pitch and a velocity of 0.
var Rest = Note{}

func New(pitch, velocity uint8) Note {
	return Note{pitch: pitch, velocity: velocity, sounding: true}
}

func (n Note) IsRest() bool {
	return !n.sounding
}

// Pitch returns the absolute MIDI pitch and false for a rest.
func (n Note) Pitch() (uint8, bool) {
	return n.pitch, n.sounding
}

func (n Note) Velocity() uint8 {
	return n.velocity
}

// Name is the pitch class name. Empty for a rest.
func (n Note) Name() string {
	if n.IsRest() {
		return ""
	}
	return PitchClasses[int(n.pitch)%len(PitchClasses)]
}

// Octave is pitch div 12. Only meaningful when the note is sounding.
func (n Note) Octave() int {
	return int(n.pitch) / len(PitchClasses)
}

// Equal reports whether two notes count as the same vote: both rests, or the
// same pitch played at the same velocity.
func (n Note) Equal(o Note) bool {
	if n.IsRest() || o.IsRest() {
		return n.IsRest() && o.IsRest()
	}
	return n.pitch == o.pitch && n.velocity == o.velocity
}

// Encode renders the note as "<name><octave>" or RestToken.
func (n Note) Encode() string {
	if n.IsRest() {
		return RestToken
	}
	return n.Name() + strconv.Itoa(n.Octave())
}

func (n Note) String() string {
	return n.Encode()
}

// Decode is the inverse of Encode. The velocity travels separately in the
// output tables, so it is supplied by the caller and ignored for rests.
func Decode(s string, velocity uint8) (Note, error) {
	if s == RestToken {
		return Rest, nil
	}

	class := -1
	var rest string
	// two letter names first so "Db4" is not read as "D" + "b4"
	for _, width := range []int{2, 1} {
		if len(s) <= width {
			continue
		}
		for i, name := range PitchClasses {
			if len(name) == width && strings.HasPrefix(s, name) {
				class = i
				rest = s[width:]
				break
			}
		}
		if class >= 0 {
			break
		}
	}
	if class < 0 {
		return Rest, errors.Wrapf(ErrInvalidNote, "unknown pitch class in %q", s)
	}

	// only the form Encode writes: plain digits, no sign, no leading zero
	if !isDigits(rest) || (len(rest) > 1 && rest[0] == '0') {
		return Rest, errors.Wrapf(ErrInvalidNote, "bad octave in %q", s)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Rest, errors.Wrapf(ErrInvalidNote, "bad octave in %q", s)
	}
	pitch := octave*len(PitchClasses) + class
	if pitch > MaxPitch {
		return Rest, errors.Wrapf(ErrInvalidNote, "%q is above pitch %d", s, MaxPitch)
	}
	return New(uint8(pitch), velocity), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
