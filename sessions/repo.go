package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

const (
	sessionKeyPrefix = "session:"
	codeKeyPrefix    = "code:"
)

// Repo stores sessions and authorization codes as JSON in a Store.
type Repo struct {
	store Store
}

// NewRepo creates a repository over the given store.
func NewRepo(store Store) *Repo {
	return &Repo{store: store}
}

func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func CodeKey(code string) string {
	return codeKeyPrefix + code
}

// SaveSession stores a session under session:<sessionID>.
func (r *Repo) SaveSession(ctx context.Context, sessionID string, session *Session, ttl time.Duration) error {
	return r.put(ctx, SessionKey(sessionID), session, ttl)
}

// GetSession returns errors.ErrNotFound when the session is unknown or expired.
func (r *Repo) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.store.Get(ctx, SessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "[Repo.GetSession] decode %s", SessionKey(sessionID))
	}
	return &session, nil
}

func (r *Repo) DeleteSession(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, SessionKey(sessionID))
}

// SaveCode stores an authorization code record under code:<code>.
func (r *Repo) SaveCode(ctx context.Context, code string, record *AuthorizationCode, ttl time.Duration) error {
	return r.put(ctx, CodeKey(code), record, ttl)
}

// ConsumeCode returns the record for code and removes it from the store.
//
// When the store implements Taker the read and delete are a single atomic
// step. Otherwise the record is read and then deleted, and two concurrent
// redemptions of the same code can both observe it before either delete lands.
func (r *Repo) ConsumeCode(ctx context.Context, code string) (*AuthorizationCode, error) {
	key := CodeKey(code)

	var data []byte
	var err error
	if taker, ok := r.store.(Taker); ok {
		data, err = taker.Take(ctx, key)
		if err != nil {
			return nil, err
		}
	} else {
		data, err = r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := r.store.Delete(ctx, key); err != nil {
			return nil, errors.Wrapf(err, "[Repo.ConsumeCode] delete %s", key)
		}
	}

	var record AuthorizationCode
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrapf(err, "[Repo.ConsumeCode] decode %s", key)
	}
	return &record, nil
}

func (r *Repo) put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "[Repo] encode %s", key)
	}
	return r.store.Put(ctx, key, data, ttl)
}
