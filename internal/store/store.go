// Package store persists the operator's credentials and campaign
// selection so they survive restarts. It is a plain key/value layer
// over BoltDB; callers decide how a storage failure degrades, the
// store only reports it.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Keys shared with the overview region that writes the selection.
const (
	KeyBearerToken = "bearer_token"
	KeyOutboundID  = "outbound_id"
	KeyCampaignID  = "campaign_id"
)

var bucketCredentials = []byte("credentials")

// Credentials is the persisted triple. BearerToken and OutboundID must
// both be non-empty for the dashboard to count as configured.
type Credentials struct {
	BearerToken string
	OutboundID  string
	CampaignID  string
}

// Configured reports whether both required identifiers are present.
func (c Credentials) Configured() bool {
	return c.BearerToken != "" && c.OutboundID != ""
}

// Store is a BoltDB-backed key/value store.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCredentials)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value for key, empty when unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCredentials).Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key, trimmed of surrounding whitespace.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCredentials).Put([]byte(key), []byte(strings.TrimSpace(value)))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCredentials).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Credentials reads the whole persisted triple in one transaction.
func (s *Store) Credentials() (Credentials, error) {
	var creds Credentials
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCredentials)
		if v := b.Get([]byte(KeyBearerToken)); v != nil {
			creds.BearerToken = string(v)
		}
		if v := b.Get([]byte(KeyOutboundID)); v != nil {
			creds.OutboundID = string(v)
		}
		if v := b.Get([]byte(KeyCampaignID)); v != nil {
			creds.CampaignID = string(v)
		}
		return nil
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	return creds, nil
}

// SaveCredentials persists the token and outbound id together. The
// campaign selection is written separately by the overview flow.
func (s *Store) SaveCredentials(bearerToken, outboundID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCredentials)
		if err := b.Put([]byte(KeyBearerToken), []byte(strings.TrimSpace(bearerToken))); err != nil {
			return err
		}
		return b.Put([]byte(KeyOutboundID), []byte(strings.TrimSpace(outboundID)))
	})
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// IsConfigured reports whether both required identifiers are stored.
func (s *Store) IsConfigured() (bool, error) {
	creds, err := s.Credentials()
	if err != nil {
		return false, err
	}
	return creds.Configured(), nil
}

// Clear removes the whole persisted triple.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCredentials)
		for _, key := range []string{KeyBearerToken, KeyOutboundID, KeyCampaignID} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
