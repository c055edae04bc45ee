package model

// Track is one downsampled track ready for emission: parallel note tokens
// and velocities, one entry per beat window.
type Track struct {
	Notes      []string `json:"notes"`
	Velocities []int    `json:"velocities"`
}

type Song struct {
	Id             string  `json:"id"`
	Name           string  `json:"name"`
	SampleRate     int     `json:"sample_rate"`
	Resolution     int     `json:"resolution"`
	BeatResolution int     `json:"beat_resolution"`
	Tracks         []Track `json:"tracks"`
}
