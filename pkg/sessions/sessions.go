// Package sessions stores bearer-token sessions and rate-limit counters
// in an embedded Badger database. Badger's native TTL handles expiry, so
// no sweeper goroutine is needed.
package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/soumetsu/soumetsu/internal/crypto"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
)

const (
	sessionKeyPrefix   = "session:"
	rateLimitKeyPrefix = "ratelimit:"
)

// DefaultTTL is the session lifetime when config leaves it unset.
const DefaultTTL = 30 * 24 * time.Hour

// Config holds session store configuration.
type Config struct {
	// Path is the Badger data directory. Empty means in-memory, which
	// drops all sessions on restart.
	Path string `mapstructure:"path" yaml:"path"`

	// TTL is the session lifetime. Sessions refresh on use once past
	// half-life, so active users never log out.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Session is the payload stored per token. The token itself is never
// persisted, only its SHA-256.
type Session struct {
	UserID     int64                 `json:"user_id"`
	Privileges privileges.Privileges `json:"privileges"`
	CreatedAt  time.Time             `json:"created_at"`
	ExpiresAt  time.Time             `json:"expires_at"`
	IPAddress  string                `json:"ip_address"`
}

// Store wraps the Badger database.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) the session store at the configured path.
func Open(cfg Config) (*Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create mints a new session and returns the bearer token. The caller
// must hand the token to the client; it cannot be recovered later.
func (s *Store) Create(userID int64, privs privileges.Privileges, ip string) (string, *Session, error) {
	token, err := crypto.NewToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	session := &Session{
		UserID:     userID,
		Privileges: privs,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		IPAddress:  ip,
	}

	if err := s.put(token, session, s.ttl); err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Get resolves a token to its session. Sessions past their half-life are
// re-armed to the full TTL (sliding window).
func (s *Store) Get(token string) (*Session, error) {
	key := sessionKey(token)

	var session Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		// TTL eviction is lazy; treat a stale payload as gone.
		_ = s.Delete(token)
		return nil, models.ErrSessionExpired
	}

	if session.ExpiresAt.Sub(now) < s.ttl/2 {
		session.ExpiresAt = now.Add(s.ttl)
		if err := s.put(token, &session, s.ttl); err != nil {
			return nil, err
		}
	}

	return &session, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *Store) Delete(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
}

// DeleteAllForUser drops every session belonging to the user. Used when
// an account is banned so moderation takes effect immediately.
func (s *Store) DeleteAllForUser(userID int64) error {
	prefix := []byte(sessionKeyPrefix)

	return s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var session Session
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			})
			if err != nil {
				continue
			}
			if session.UserID == userID {
				stale = append(stale, item.KeyCopy(nil))
			}
		}

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping verifies the store is usable, for readiness probes.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("session store is closed")
	}
	return nil
}

// IncrementCounter bumps a fixed-window rate counter and returns the new
// count within the current window.
func (s *Store) IncrementCounter(name string, window time.Duration) (int64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("counter window must be positive, got %s", window)
	}
	// Bucket in nanoseconds so sub-second windows work.
	bucket := time.Now().UnixNano() / int64(window)
	key := []byte(fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, name, bucket))

	var count int64
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			count = 1
		case err != nil:
			return err
		default:
			err = item.Value(func(val []byte) error {
				parsed, perr := strconv.ParseInt(string(val), 10, 64)
				if perr != nil {
					return perr
				}
				count = parsed + 1
				return nil
			})
			if err != nil {
				return err
			}
		}

		entry := badger.NewEntry(key, []byte(strconv.FormatInt(count, 10))).
			WithTTL(2 * window)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bump rate counter: %w", err)
	}
	return count, nil
}

func (s *Store) put(token string, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(token), payload).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func sessionKey(token string) []byte {
	return []byte(sessionKeyPrefix + crypto.HashToken(token))
}
