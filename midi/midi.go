package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/beattable/timeline"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrDecode = errors.New("could not decode midi")

// Stream is what the conversion needs out of a midi file: the resolution in
// ticks per beat and, per track, its note events in order.
type Stream struct {
	Resolution int
	Tracks     [][]timeline.Event
}

func ReadMidiFile(filepath string) (*Stream, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "reading %v: %v", filepath, err)
	}
	return Decode(bytes.NewReader(dat))
}

func Decode(r io.Reader) (s *Stream, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrapf(ErrDecode, "parser panicked: %v", r)
		}
	}()

	parsed, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "parsing: %v", err)
	}
	return FromSMF(parsed)
}

// FromSMF keeps NoteOn and NoteOff messages. Every other event is dropped
// together with its delta, so its time never reaches the timeline.
func FromSMF(parsed *smf.SMF) (*Stream, error) {
	ticks, ok := parsed.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Wrapf(ErrDecode, "unsupported time format %v", parsed.TimeFormat)
	}
	if ticks == 0 {
		return nil, errors.Wrap(ErrDecode, "resolution is 0 ticks per beat")
	}

	res := &Stream{Resolution: int(ticks)}
	for i, track := range parsed.Tracks {
		var events []timeline.Event
		for _, event := range track {
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				events = append(events, timeline.Event{
					Kind:       timeline.NoteOn,
					Pitch:      key,
					Velocity:   velocity,
					DeltaTicks: event.Delta,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, timeline.Event{
					Kind:       timeline.NoteOff,
					Pitch:      key,
					Velocity:   velocity,
					DeltaTicks: event.Delta,
				})
			}
		}
		log.WithFields(log.Fields{"track": i, "events": len(events)}).Debug("decoded track")
		res.Tracks = append(res.Tracks, events)
	}
	return res, nil
}

func (s *Stream) String() string {
	return fmt.Sprintf("Stream{Resolution: %d, Tracks: %d}", s.Resolution, len(s.Tracks))
}
