// Package session keeps track of who is signed in on this device.
package session

import (
	"context"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/persist"
)

// Store is the session store. The zero session is signed out.
type Store struct {
	c *persist.Container[models.SessionState]
}

func New(backend kv.Backend) *Store {
	return &Store{
		c: persist.NewContainer(backend, models.SessionState{}, persist.Options[models.SessionState]{
			Key:       constants.SessionStorageKey,
			Version:   constants.SchemaVersion,
			Clone:     models.SessionState.Clone,
			Normalize: normalize,
		}),
	}
}

// Login records email as the signed-in user. The address is not checked here.
func (s *Store) Login(email string) {
	_ = s.c.Update(func(st *models.SessionState) (bool, error) {
		e := email
		st.Email = &e
		st.IsLoggedIn = true
		return true, nil
	})
	logger.Info("Signed in", "email", email)
}

// Logout clears the signed-in user
func (s *Store) Logout() {
	_ = s.c.Update(func(st *models.SessionState) (bool, error) {
		st.Email = nil
		st.IsLoggedIn = false
		return true, nil
	})
	logger.Info("Signed out")
}

func (s *Store) State() models.SessionState {
	return s.c.Get()
}

func (s *Store) IsLoggedIn() bool {
	return s.c.Get().IsLoggedIn
}

func (s *Store) Email() string {
	return s.c.Get().EmailOrEmpty()
}

func (s *Store) Subscribe(fn func(models.SessionState)) func() {
	return s.c.Subscribe(fn)
}

func (s *Store) Hydrate(ctx context.Context) error {
	return s.c.Hydrate(ctx)
}

func (s *Store) Hydrated() bool {
	return s.c.Hydrated()
}

func (s *Store) Flush(ctx context.Context) error {
	return s.c.Flush(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.c.Close(ctx)
}

func (s *Store) Status() persist.Status {
	return s.c.Status()
}

// normalize keeps IsLoggedIn in step with Email for state written by hand or by older builds
func normalize(st models.SessionState) models.SessionState {
	st.IsLoggedIn = st.Email != nil
	return st
}
