// Package emit writes beat tracks as C arrays placed in program memory of
// the playback board.
package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/beattable/model"
	"github.com/pkg/errors"
)

type Options struct {
	// Prefix of every array name, followed by the 1-based track number.
	Prefix string
	// Velocity adds a "<prefix><n>a" array after each note array.
	Velocity bool
}

const arrayFormat = "__prog__ unsigned short %s%d%s[] __attribute__((space(prog))) = {\n%s\n};\n"

func Track(i int, track model.Track, opts Options) string {
	out := fmt.Sprintf(arrayFormat, opts.Prefix, i+1, "f", strings.Join(track.Notes, ","))
	if opts.Velocity {
		vels := make([]string, len(track.Velocities))
		for j, v := range track.Velocities {
			vels[j] = strconv.Itoa(v)
		}
		out += "\n" + fmt.Sprintf(arrayFormat, opts.Prefix, i+1, "a", strings.Join(vels, ","))
	}
	return out
}

func Write(w io.Writer, tracks []model.Track, opts Options) error {
	outputs := make([]string, len(tracks))
	for i, track := range tracks {
		outputs[i] = Track(i, track, opts)
	}
	if _, err := io.WriteString(w, strings.Join(outputs, "\n")+"\n"); err != nil {
		return errors.Wrap(err, "writing arrays")
	}
	return nil
}
