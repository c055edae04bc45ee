package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/beattable/constants"
	"github.com/jsphweid/beattable/db"
	"github.com/jsphweid/beattable/emit"
	"github.com/jsphweid/beattable/handler"
	"github.com/jsphweid/beattable/midi"
	"github.com/jsphweid/beattable/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var store db.Store

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over http",
	Long:  `Accepts midi uploads over http, converts them and keeps the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.NewStore()
		if err != nil {
			return err
		}
		SetStore(s)
		return serve()
	},
}

func SetStore(s db.Store) {
	store = s
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/songs/{id}", HandleGetSong).Methods("GET")
	router.HandleFunc("/songs/{id}/header", HandleGetHeader).Methods("GET")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func parseSampleRate(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("sampleRate")
	if raw == "" {
		return constants.DefaultSampleRate, nil
	}
	rate, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(handler.ErrConfiguration, "sampleRate %q is not an integer", raw)
	}
	return rate, nil
}

func HandleConvert(w http.ResponseWriter, r *http.Request) {
	sampleRate, err := parseSampleRate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, errors.Wrap(err, "reading upload"))
		return
	}

	stream, err := midi.Decode(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	h, err := handler.New(stream, sampleRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	song := h.Song(uuid.New().String(), r.URL.Query().Get("name"))
	if err := store.PutSong(song); err != nil {
		log.WithError(err).Error("could not store song")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.WithFields(log.Fields{"id": song.Id, "tracks": len(song.Tracks)}).Info("converted upload")
	writeJSON(w, song)
}

func getSong(w http.ResponseWriter, r *http.Request) (model.Song, bool) {
	song, err := store.GetSong(mux.Vars(r)["id"])
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return song, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return song, false
	}
	return song, true
}

func HandleGetSong(w http.ResponseWriter, r *http.Request) {
	if song, ok := getSong(w, r); ok {
		writeJSON(w, song)
	}
}

func HandleGetHeader(w http.ResponseWriter, r *http.Request) {
	velocity := false
	if raw := r.URL.Query().Get("velocity"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.Errorf("velocity %q is not a boolean", raw))
			return
		}
		velocity = v
	}

	song, ok := getSong(w, r)
	if !ok {
		return
	}

	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = constants.DefaultPrefix
	}

	w.Header().Set("Content-Type", "text/plain")
	if err := emit.Write(w, song.Tracks, emit.Options{Prefix: prefix, Velocity: velocity}); err != nil {
		log.WithError(err).Error("could not write header")
	}
}

func serve() error {
	addr := ":" + constants.GetPort()
	log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, NewRouter())
}
