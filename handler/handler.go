// Package handler turns a decoded event stream into downsampled beat tracks.
package handler

import (
	"github.com/jsphweid/beattable/beat"
	"github.com/jsphweid/beattable/constants"
	"github.com/jsphweid/beattable/midi"
	"github.com/jsphweid/beattable/model"
	"github.com/jsphweid/beattable/note"
	"github.com/jsphweid/beattable/timeline"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrIndex         = errors.New("track index out of range")
	ErrTooManyTicks  = errors.New("stream is too long")
)

type options struct {
	maxTicks uint64
}

type Option func(*options)

// WithMaxTicks overrides the MAX_TICKS limit on the summed length of all
// dense timelines.
func WithMaxTicks(limit uint64) Option {
	return func(o *options) {
		o.maxTicks = limit
	}
}

// MidiHandler holds the dense timelines and beat tracks of one stream. It
// is built once by New and only read afterwards.
type MidiHandler struct {
	resolution     int
	sampleRate     int
	beatResolution int
	timelines      []timeline.Timeline
	tracks         [][]note.Note
}

// New builds every non-empty track's timeline and downsamples it to
// resolution / sampleRate ticks per window. Streams longer than the tick
// limit are rejected before any timeline is allocated.
func New(stream *midi.Stream, sampleRate int, opts ...Option) (*MidiHandler, error) {
	o := options{maxTicks: constants.GetMaxTicks()}
	for _, opt := range opts {
		opt(&o)
	}

	if stream == nil {
		return nil, errors.Wrap(ErrConfiguration, "no stream")
	}
	if sampleRate <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "sample rate must be positive, got %d", sampleRate)
	}
	beatResolution := stream.Resolution / sampleRate
	if beatResolution <= 0 {
		return nil, errors.Wrapf(ErrConfiguration,
			"resolution %d / sample rate %d leaves no ticks per beat", stream.Resolution, sampleRate)
	}

	var total uint64
	for _, events := range stream.Tracks {
		total += timeline.Ticks(events)
	}
	if total > o.maxTicks {
		return nil, errors.Wrapf(ErrTooManyTicks, "%d ticks, limit is %d", total, o.maxTicks)
	}

	h := &MidiHandler{
		resolution:     stream.Resolution,
		sampleRate:     sampleRate,
		beatResolution: beatResolution,
		timelines:      timeline.BuildAll(stream.Tracks),
	}
	for i, tl := range h.timelines {
		track, err := beat.Downsample(tl, beatResolution)
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "track %d: %v", i, err)
		}
		log.WithFields(log.Fields{
			"track": i,
			"ticks": len(tl),
			"beats": len(track),
		}).Debug("downsampled track")
		h.tracks = append(h.tracks, track)
	}
	return h, nil
}

func (h *MidiHandler) NumTracks() int {
	return len(h.tracks)
}

func (h *MidiHandler) SampleRate() int {
	return h.sampleRate
}

func (h *MidiHandler) Resolution() int {
	return h.resolution
}

func (h *MidiHandler) BeatResolution() int {
	return h.beatResolution
}

func (h *MidiHandler) checkIndex(track int) error {
	if track < 0 || track >= len(h.tracks) {
		return errors.Wrapf(ErrIndex, "track %d of %d", track, len(h.tracks))
	}
	return nil
}

// Notes returns the encoded beat notes of a track.
func (h *MidiHandler) Notes(track int) ([]string, error) {
	if err := h.checkIndex(track); err != nil {
		return nil, err
	}
	return encodeNotes(h.tracks[track]), nil
}

func (h *MidiHandler) Velocities(track int) ([]int, error) {
	if err := h.checkIndex(track); err != nil {
		return nil, err
	}
	return velocities(h.tracks[track]), nil
}

// Tracks returns every beat track with notes and velocities side by side.
func (h *MidiHandler) Tracks() []model.Track {
	return toModel(h.tracks)
}

// Timelines is the same view over the dense per-tick timelines.
func (h *MidiHandler) Timelines() []model.Track {
	return toModel(h.timelines)
}

func (h *MidiHandler) Song(id string, name string) model.Song {
	return model.Song{
		Id:             id,
		Name:           name,
		SampleRate:     h.sampleRate,
		Resolution:     h.resolution,
		BeatResolution: h.beatResolution,
		Tracks:         h.Tracks(),
	}
}

func toModel(seqs [][]note.Note) []model.Track {
	res := make([]model.Track, 0, len(seqs))
	for _, seq := range seqs {
		res = append(res, model.Track{
			Notes:      encodeNotes(seq),
			Velocities: velocities(seq),
		})
	}
	return res
}

func encodeNotes(seq []note.Note) []string {
	res := make([]string, len(seq))
	for i, n := range seq {
		res[i] = n.Encode()
	}
	return res
}

func velocities(seq []note.Note) []int {
	res := make([]int, len(seq))
	for i, n := range seq {
		res[i] = int(n.Velocity())
	}
	return res
}
