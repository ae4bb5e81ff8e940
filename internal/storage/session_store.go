package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionStore persists one client's session under the token and user keys
type SessionStore struct {
	kv        KV
	namespace string
}

// NewSessionStore scopes the keys by namespace, e.g. a chat id. An empty namespace uses the bare keys.
func NewSessionStore(kv KV, namespace string) *SessionStore {
	return &SessionStore{kv: kv, namespace: namespace}
}

func (s *SessionStore) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// Save writes the token and the user profile
func (s *SessionStore) Save(ctx context.Context, sess models.Session) error {
	user, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(KeyToken), []byte(sess.Token)); err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(KeyUser), user)
}

// Load returns the stored session or ErrNotFound
func (s *SessionStore) Load(ctx context.Context) (*models.Session, error) {
	token, err := s.kv.Get(ctx, s.key(KeyToken))
	if err != nil {
		return nil, err
	}
	data, err := s.kv.Get(ctx, s.key(KeyUser))
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	sess.Token = string(token)
	sess.Role = models.ParseRole(string(sess.Role))
	return &sess, nil
}

// Clear removes both keys
func (s *SessionStore) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, s.key(KeyToken))
	if derr := s.kv.Delete(ctx, s.key(KeyUser)); derr != nil && !errors.Is(derr, ErrNotFound) {
		return derr
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
