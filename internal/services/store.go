package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
	"github.com/TalineFS/Dashboards/pkg/logger"
)

var ErrDatasetNotFound = errors.New("dataset not found")

type storeEntry struct {
	dataset  *models.Dataset
	lastUsed time.Time
}

// DatasetStore holds parsed uploads in memory, keyed by dataset ID.
// Parsing is memoized by content hash: uploading identical bytes twice
// returns the dataset already on hand instead of re-parsing. Idle datasets
// expire on a cron sweep; nothing is written to disk.
type DatasetStore struct {
	mu     sync.RWMutex
	byID   map[string]*storeEntry
	byHash map[string]string // content hash -> dataset ID

	ingest  *IngestService
	ttl     time.Duration
	sweeper *cron.Cron
}

func NewDatasetStore(ingest *IngestService, cfg *config.DatasetConfig) *DatasetStore {
	return &DatasetStore{
		byID:   make(map[string]*storeEntry),
		byHash: make(map[string]string),
		ingest: ingest,
		ttl:    time.Duration(cfg.TTLHours) * time.Hour,
	}
}

// Put parses the upload and stores the result. When the same bytes were
// uploaded before and the dataset is still resident, the existing dataset
// is returned with reused=true and no parsing happens.
func (s *DatasetStore) Put(data []byte, name string) (ds *models.Dataset, reused bool, err error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(data))

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byHash[hash]; ok {
		if entry, ok := s.byID[id]; ok {
			entry.lastUsed = time.Now()
			return entry.dataset, true, nil
		}
		delete(s.byHash, hash)
	}

	parsed, err := s.ingest.Parse(data, name)
	if err != nil {
		return nil, false, err
	}
	parsed.ID = uuid.NewString()
	parsed.Hash = hash
	parsed.Uploaded = time.Now()

	s.byID[parsed.ID] = &storeEntry{dataset: parsed, lastUsed: time.Now()}
	s.byHash[hash] = parsed.ID
	return parsed, false, nil
}

// Get returns the dataset and refreshes its idle timer.
func (s *DatasetStore) Get(id string) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	entry.lastUsed = time.Now()
	return entry.dataset, nil
}

func (s *DatasetStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[id]
	if !ok {
		return ErrDatasetNotFound
	}
	delete(s.byHash, entry.dataset.Hash)
	delete(s.byID, id)
	return nil
}

func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// StartSweeper schedules expiry of idle datasets every cleanupMins.
func (s *DatasetStore) StartSweeper(cleanupMins int) error {
	if cleanupMins <= 0 {
		cleanupMins = 15
	}
	s.sweeper = cron.New()
	_, err := s.sweeper.AddFunc(fmt.Sprintf("@every %dm", cleanupMins), func() {
		if n := s.Sweep(time.Now()); n > 0 {
			logger.Info().Int("expired", n).Msg("dataset sweep")
		}
	})
	if err != nil {
		return err
	}
	s.sweeper.Start()
	return nil
}

func (s *DatasetStore) StopSweeper() {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
}

// Sweep removes datasets idle longer than the TTL and returns how many
// were dropped.
func (s *DatasetStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, entry := range s.byID {
		if now.Sub(entry.lastUsed) > s.ttl {
			delete(s.byHash, entry.dataset.Hash)
			delete(s.byID, id)
			expired++
		}
	}
	return expired
}
