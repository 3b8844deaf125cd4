package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var prefsBucket = []byte("prefs")

// Store is a small string key/value store on top of bbolt. Values are the raw
// JSON documents, so a corrupt value is detected on read, not on write.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, 1*time.Second)
}

// NewStoreWithTimeout opens the database, waiting at most timeout for the file lock.
func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(prefsBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetItem returns the raw value for key and whether it was present.
func (s *Store) GetItem(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(prefsBucket).Get([]byte(key))
		if data != nil {
			value = string(data)
			found = true
		}
		return nil
	})
	return value, found, err
}

func (s *Store) SetItem(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Put([]byte(key), []byte(value))
	})
}

func (s *Store) RemoveItem(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Delete([]byte(key))
	})
}

// SelectedAPIs returns the ordered selection. A missing or malformed value
// reads as an empty list.
func (s *Store) SelectedAPIs() []string {
	var ids []string
	if !s.readJSON(KeySelectedAPIs, &ids) {
		return []string{}
	}
	return ids
}

// CustomAPIs returns the custom source definitions. A missing or malformed
// value reads as an empty list.
func (s *Store) CustomAPIs() []CustomAPI {
	var apis []CustomAPI
	if !s.readJSON(KeyCustomAPIs, &apis) {
		return []CustomAPI{}
	}
	return apis
}

func (s *Store) SetSelectedAPIs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.writeJSON(KeySelectedAPIs, ids)
}

// AddCustomAPI appends api to the custom list and returns its selection id.
func (s *Store) AddCustomAPI(api CustomAPI) (string, error) {
	var id string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(prefsBucket)

		var apis []CustomAPI
		if data := b.Get([]byte(KeyCustomAPIs)); data != nil {
			if err := json.Unmarshal(data, &apis); err != nil {
				// Replace a corrupt list rather than refusing the write
				apis = nil
			}
		}
		apis = append(apis, api)

		data, err := json.Marshal(apis)
		if err != nil {
			return err
		}
		id = CustomPrefix + strconv.Itoa(len(apis)-1)
		return b.Put([]byte(KeyCustomAPIs), data)
	})
	return id, err
}

func (s *Store) readJSON(key string, v interface{}) bool {
	raw, found, err := s.GetItem(key)
	if err != nil || !found {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

func (s *Store) writeJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.SetItem(key, string(data))
}
