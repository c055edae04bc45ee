package cmd

import (
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/beattable/constants"
	"github.com/jsphweid/beattable/emit"
	"github.com/jsphweid/beattable/handler"
	"github.com/jsphweid/beattable/midi"
	"github.com/jsphweid/beattable/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	sampleRate int
	velocity   bool
	output     string
	prefix     string
	watch      bool
}

var convertOpts convertOptions

func init() {
	convertCmd.Flags().IntVarP(&convertOpts.sampleRate, "sample-rate", "s", constants.DefaultSampleRate,
		"what fraction of the resolution to sample")
	convertCmd.Flags().BoolVarP(&convertOpts.velocity, "velocity", "v", false, "include velocity in output")
	convertCmd.Flags().StringVarP(&convertOpts.output, "output", "o", "", "output to this file instead of stdout")
	convertCmd.Flags().StringVarP(&convertOpts.prefix, "prefix", "p", constants.DefaultPrefix, "prefix for the array names")
	convertCmd.Flags().BoolVar(&convertOpts.watch, "watch", false, "convert again whenever the midi file changes")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert MIDI_FILE",
	Short: "Converts a midi file to C arrays",
	Long:  `Converts a midi file to C arrays of notes (and optionally velocities), one per track.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			abs, _ := filepath.Abs(path)
			return errors.Errorf("there is no file at '%v'", abs)
		}
		if err := convertFile(path, convertOpts, cmd.OutOrStdout()); err != nil {
			return err
		}
		if convertOpts.watch {
			return watch(path, convertOpts, cmd.OutOrStdout())
		}
		return nil
	},
}

func Convert(path string, sampleRate int) (*handler.MidiHandler, error) {
	stream, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	h, err := handler.New(stream, sampleRate)
	if err != nil {
		return nil, err
	}

	beats := make([]int, 0, h.NumTracks())
	for _, tr := range h.Tracks() {
		beats = append(beats, len(tr.Notes))
	}
	log.WithFields(log.Fields{
		"file":            path,
		"resolution":      h.Resolution(),
		"beat_resolution": h.BeatResolution(),
		"tracks":          h.NumTracks(),
		"beats":           util.Sum(beats),
	}).Info("converted midi file")
	return h, nil
}

func convertFile(path string, opts convertOptions, stdout io.Writer) error {
	h, err := Convert(path, opts.sampleRate)
	if err != nil {
		return err
	}

	emitOpts := emit.Options{Prefix: opts.prefix, Velocity: opts.velocity}
	if opts.output == "" {
		return emit.Write(stdout, h.Tracks(), emitOpts)
	}

	outputPath, err := filepath.Abs(opts.output)
	if err != nil {
		return errors.Wrap(err, "resolving output path")
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "could not create output file")
	}
	defer f.Close()

	if err := emit.Write(f, h.Tracks(), emitOpts); err != nil {
		return err
	}
	log.Infof("Output saved to: %v", outputPath)
	return nil
}

var (
	watchInterval = 500 * time.Millisecond
	watchSettle   = time.Second
)

type watcher struct {
	path    string
	opts    convertOptions
	stdout  io.Writer
	lastMod time.Time
}

func newWatcher(path string, opts convertOptions, stdout io.Writer) (*watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "watching")
	}
	return &watcher{path: path, opts: opts, stdout: stdout, lastMod: info.ModTime()}, nil
}

// run polls the file's modification time and converts again once writes
// have settled. It returns when stop is closed.
func (w *watcher) run(stop <-chan struct{}) {
	debounced := debounce.New(watchSettle)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	log.WithField("file", w.path).Info("watching for changes")
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				log.WithError(err).Warn("could not stat watched file")
				continue
			}
			if info.ModTime().Equal(w.lastMod) {
				continue
			}
			w.lastMod = info.ModTime()
			debounced(func() {
				if err := convertFile(w.path, w.opts, w.stdout); err != nil {
					log.WithError(err).Error("conversion failed")
				}
			})
		}
	}
}

func watch(path string, opts convertOptions, stdout io.Writer) error {
	w, err := newWatcher(path, opts, stdout)
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	stop := make(chan struct{})
	go func() {
		<-interrupt
		close(stop)
	}()
	w.run(stop)
	return nil
}
