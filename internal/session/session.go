// Package session holds authenticated identities in Redis, keyed by
// opaque server-generated tokens delivered to the browser in a cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"agritrack/internal/model"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

const keyPrefix = "session:"

var ErrNotFound = errors.New("session not found")

// Session is the identity carried for the lifetime of a login.
type Session struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

// Create stores sess under a fresh random token and returns the token.
// Tokens carry no information; identity lives only server-side.
func (s Store) Create(ctx context.Context, sess Session) (string, error) {
	tb := make([]byte, 32)
	if _, err := rand.Read(tb); err != nil {
		return "", errors.Wrap(err, "error generating session token")
	}
	token := base64.RawURLEncoding.EncodeToString(tb)

	val, err := json.Marshal(sess)
	if err != nil {
		return "", errors.Wrapf(err, "error marshalling Session for UserID: %s", sess.UserID)
	}
	if err = s.Redis.Set(ctx, keyPrefix+token, val, s.TTL).Err(); err != nil {
		return "", errors.Wrapf(err, "error storing Session for UserID: %s", sess.UserID)
	}
	return token, nil
}

// Get resolves a token to its Session and refreshes the inactivity
// window. Unknown or expired tokens yield ErrNotFound.
func (s Store) Get(ctx context.Context, token string) (Session, error) {
	var sess Session
	val, err := s.Redis.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sess, ErrNotFound
		}
		return sess, errors.Wrap(err, "error getting Session")
	}
	if err = json.Unmarshal([]byte(val), &sess); err != nil {
		return sess, errors.Wrap(err, "error unmarshalling Session")
	}
	if err = s.Redis.Expire(ctx, keyPrefix+token, s.TTL).Err(); err != nil {
		return sess, errors.Wrapf(err, "error refreshing Session TTL for UserID: %s", sess.UserID)
	}
	return sess, nil
}

// Destroy invalidates a token. Destroying an unknown token is a no-op.
func (s Store) Destroy(ctx context.Context, token string) error {
	if err := s.Redis.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "error deleting Session")
	}
	return nil
}
