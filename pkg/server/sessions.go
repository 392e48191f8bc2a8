package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/slidecraft/slidecraft/pkg/api"
	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
	"github.com/slidecraft/slidecraft/pkg/validate"
)

const (
	DefaultSessionTTL = 30 * time.Minute
	cleanupInterval   = 5 * time.Minute
)

// Session is one user's form plus its submission controller. The registry
// is pinned at creation so a catalog reload never invalidates a form that is
// being edited.
type Session struct {
	ID        string
	CreatedAt time.Time

	registry   *registry.Registry
	controller *submit.Controller

	mu   sync.Mutex
	form *form.State
}

// Form returns a copy of the current form.
func (s *Session) Form() *form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// ReplaceForm installs f after checking its references.
func (s *Session) ReplaceForm(f *form.State) error {
	if err := f.CheckReferences(s.registry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
	return nil
}

func (s *Session) Response() api.SessionResponse {
	f := s.Form()
	resp := api.SessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Form:      f,
		Status:    s.controller.Status(),
		Result:    s.controller.Result(),
		CanSubmit: !s.controller.Disabled(f),
	}
	if err := validate.Check(f, s.registry); err != nil {
		resp.Reason = err.Error()
	}
	return resp
}

// SessionStore keeps sessions in memory and forgets them after a period of
// inactivity.
type SessionStore struct {
	items *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		items: cache.New(ttl, cleanupInterval),
	}
}

func (st *SessionStore) Create(reg *registry.Registry, controller *submit.Controller, f *form.State) *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		registry:   reg,
		controller: controller,
		form:       f,
	}
	st.items.SetDefault(sess.ID, sess)
	return sess
}

// Get returns the session and extends its lifetime.
func (st *SessionStore) Get(id string) (*Session, bool) {
	v, ok := st.items.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	st.items.SetDefault(id, sess)
	return sess, true
}

func (st *SessionStore) Delete(id string) bool {
	if _, ok := st.items.Get(id); !ok {
		return false
	}
	st.items.Delete(id)
	return true
}

func (st *SessionStore) Len() int {
	return st.items.ItemCount()
}
