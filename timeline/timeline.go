// Package timeline expands a track's delta-timed note events into a dense
// per-tick sequence of notes.
package timeline

import "github.com/jsphweid/beattable/note"

type Kind uint8

const (
	NoteOn Kind = iota
	NoteOff
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	}
	return "Unknown"
}

// Event is one note event as decoded from a track. DeltaTicks is the time
// since the previous event on the same track.
type Event struct {
	Kind       Kind
	Pitch      uint8
	Velocity   uint8
	DeltaTicks uint32
}

type Timeline = []note.Note

// Build expands events into one note per tick.
//
// The delta before a NoteOn is silence: the note only sounds after it. The
// delta before a NoteOff is filled with whatever note was last turned on. A
// second NoteOn before a NoteOff replaces the queued note; tracks are
// monophonic.
func Build(events []Event) Timeline {
	var res Timeline
	queued := note.Rest
	for _, evt := range events {
		switch evt.Kind {
		case NoteOn:
			res = appendN(res, note.Rest, evt.DeltaTicks)
			queued = note.New(evt.Pitch, evt.Velocity)
		case NoteOff:
			res = appendN(res, queued, evt.DeltaTicks)
		}
	}
	return res
}

// Ticks is the length Build would produce for events.
func Ticks(events []Event) uint64 {
	var total uint64
	for _, evt := range events {
		if evt.Kind == NoteOn || evt.Kind == NoteOff {
			total += uint64(evt.DeltaTicks)
		}
	}
	return total
}

// BuildAll builds one timeline per track and drops the empty ones.
func BuildAll(tracks [][]Event) []Timeline {
	var res []Timeline
	for _, events := range tracks {
		tl := Build(events)
		if len(tl) > 0 {
			res = append(res, tl)
		}
	}
	return res
}

func appendN(tl Timeline, n note.Note, count uint32) Timeline {
	for i := uint32(0); i < count; i++ {
		tl = append(tl, n)
	}
	return tl
}
