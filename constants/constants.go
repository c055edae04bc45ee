package constants

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

const DefaultSampleRate = 1

const DefaultPrefix = "song_ch"

// largest midi upload the server reads into memory
const MaxUploadSize = 16 * 1024 * 1024

// DefaultMaxTicks bounds the dense timelines of one conversion, summed over
// all tracks.
const DefaultMaxTicks = 1 << 22

func GetMaxTicks() uint64 {
	limit, err := strconv.ParseUint(os.Getenv("MAX_TICKS"), 10, 64)
	if err != nil || limit == 0 {
		return DefaultMaxTicks
	}
	return limit
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// GetDynamoEndpoint is empty when songs should be kept in memory.
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMODB_ENDPOINT")
}

func GetDynamoRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetSongsTable() string {
	table := os.Getenv("SONGS_TABLE")
	if table != "" {
		return table
	}
	return "beattable-songs"
}

func GetLogLevel() log.Level {
	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
