package db

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/beattable/constants"
	"github.com/jsphweid/beattable/model"
	"github.com/jsphweid/beattable/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("song not found")

type Store interface {
	PutSong(song model.Song) error
	GetSong(id string) (model.Song, error)
}

// NewStore returns a DynamoDB store when DYNAMODB_ENDPOINT is set and an
// in-memory one otherwise.
func NewStore() (Store, error) {
	endpoint := constants.GetDynamoEndpoint()
	if endpoint == "" {
		log.Info("DYNAMODB_ENDPOINT not set, keeping songs in memory")
		return NewMemoryStore(), nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	log.WithFields(log.Fields{"endpoint": endpoint, "table": constants.GetSongsTable()}).Info("using DynamoDB song store")
	return NewDynamoStore(dynamodb.New(sess), constants.GetSongsTable()), nil
}

type MemoryStore struct {
	mu    sync.RWMutex
	songs map[string]model.Song
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{songs: make(map[string]model.Song)}
}

func (s *MemoryStore) PutSong(song model.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs[song.Id] = song
	return nil
}

func (s *MemoryStore) GetSong(id string) (model.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	song, ok := s.songs[id]
	if !ok {
		return model.Song{}, errors.Wrapf(ErrNotFound, "id %v", id)
	}
	return song, nil
}

func (s *MemoryStore) Ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return util.GetKeysSorted(s.songs)
}

type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) PutSong(song model.Song) error {
	tracks, err := json.Marshal(song.Tracks)
	if err != nil {
		return errors.Wrap(err, "encoding tracks")
	}

	item := map[string]*dynamodb.AttributeValue{
		"PK":             {S: aws.String(song.Id)},
		"Name":           {S: aws.String(song.Name)},
		"SampleRate":     {N: aws.String(strconv.Itoa(song.SampleRate))},
		"Resolution":     {N: aws.String(strconv.Itoa(song.Resolution))},
		"BeatResolution": {N: aws.String(strconv.Itoa(song.BeatResolution))},
		"Tracks":         {S: aws.String(string(tracks))},
	}
	_, err = s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	return nil
}

func (s *DynamoStore) GetSong(id string) (model.Song, error) {
	var song model.Song
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return song, errors.Wrap(err, "error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return song, errors.Wrapf(ErrNotFound, "id %v", id)
	}

	v := out.Item
	song.Id = aws.StringValue(v["PK"].S)
	if v["Name"] != nil {
		song.Name = aws.StringValue(v["Name"].S)
	}
	song.SampleRate = readInt(v["SampleRate"])
	song.Resolution = readInt(v["Resolution"])
	song.BeatResolution = readInt(v["BeatResolution"])
	if v["Tracks"] != nil && v["Tracks"].S != nil {
		if err := json.Unmarshal([]byte(*v["Tracks"].S), &song.Tracks); err != nil {
			return song, errors.Wrapf(err, "decoding tracks of %v", id)
		}
	}
	return song, nil
}

func readInt(av *dynamodb.AttributeValue) int {
	if av == nil || av.N == nil {
		return 0
	}
	n, _ := strconv.Atoi(*av.N)
	return n
}
