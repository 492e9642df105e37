// Package store keeps snapshots of declared route tables in a bbolt file so
// a restarted process can tell what changed since its last run.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
	bolt "go.etcd.io/bbolt"
)

var routesBucket = []byte("routes")

var ErrClosed = errors.New("store: closed")

type Snapshot struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Routes    []string  `json:"routes"`
}

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open route store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(routesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init route store: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRoutes replaces the snapshot stored under name.
func (s *Store) SaveRoutes(name string, routes []string) error {
	if s.db == nil {
		return ErrClosed
	}
	data, err := json.Marshal(Snapshot{Name: name, Timestamp: time.Now().UTC(), Routes: routes})
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(routesBucket).Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	log.Info().Str("snapshot", name).Int("routes", len(routes)).Msg("Saved route snapshot")
	return nil
}

// LoadRoutes returns the snapshot stored under name. ok is false when there
// is none.
func (s *Store) LoadRoutes(name string) (snap Snapshot, ok bool, err error) {
	if s.db == nil {
		return Snapshot{}, false, ErrClosed
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(routesBucket).Get([]byte(name))
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return snap, ok, nil
}

// Names lists the stored snapshot names in key order.
func (s *Store) Names() ([]string, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(routesBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
