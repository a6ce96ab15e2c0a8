package admin

import (
	"context"
	"errors"
	"sync"

	"github.com/eshaffer321/ragadmin-go/internal/auth"
	"github.com/eshaffer321/ragadmin-go/internal/observe"
	internalTypes "github.com/eshaffer321/ragadmin-go/internal/types"
)

// SessionStatus is the lifecycle position of a session
type SessionStatus string

const (
	StatusLoggedOut         SessionStatus = "logged_out"
	StatusLoggingIn         SessionStatus = "logging_in"
	StatusLoggedIn          SessionStatus = "logged_in"
	StatusLoggedInNoProfile SessionStatus = "logged_in_no_profile"
)

// SessionState is a snapshot of the session.
// IsAuthenticated is always Token != "".
type SessionState struct {
	Token           string
	IsAuthenticated bool
	User            *User
	Loading         bool
	Error           string
	Status          SessionStatus
}

// SessionOptions configures a SessionStore
type SessionOptions struct {
	Logger Logger
}

// SessionStore owns the authentication state of one process: the bearer
// token, the signed-in profile and the outcome of the last login. The
// token is mirrored into a TokenStore so it survives restarts.
type SessionStore struct {
	auth   Authenticator
	tokens TokenStore
	logger Logger

	// pub orders state changes and their delivery to subscribers
	pub  sync.Mutex
	mu   sync.Mutex
	subs observe.Subscribers[SessionState]

	token     string
	user      *User
	loading   bool
	errMsg    string
	loggingIn bool

	// epoch changes whenever the token is replaced or dropped, so a
	// profile lookup for an older token cannot touch the state
	epoch uint64
	wg    sync.WaitGroup
}

// NewSessionStore creates a logged-out store. Call Init to restore a
// stored session.
func NewSessionStore(authenticator Authenticator, tokens TokenStore, opts *SessionOptions) *SessionStore {
	if opts == nil {
		opts = &SessionOptions{}
	}
	if tokens == nil {
		tokens = auth.NewMemoryTokenStore("")
	}
	return &SessionStore{
		auth:   authenticator,
		tokens: tokens,
		logger: opts.Logger,
	}
}

// Init loads the stored token. When one is found the profile is fetched
// in the background; if that fetch is rejected the token is discarded
// and the session is logged out.
func (s *SessionStore) Init(ctx context.Context) error {
	if err := s.restore(); err != nil {
		return err
	}

	if s.Token() == "" {
		return nil
	}

	s.validateAsync(context.WithoutCancel(ctx))
	return nil
}

// Dispose releases the store. The store is process-scoped so there is
// nothing to release.
func (s *SessionStore) Dispose() {}

// Wait blocks until background profile lookups have finished
func (s *SessionStore) Wait() {
	s.wg.Wait()
}

// restore reads the token slot into the state without contacting the backend
func (s *SessionStore) restore() error {
	token, err := s.tokens.Load()
	if err != nil {
		return err
	}

	s.mutate(func() bool {
		if token == s.token {
			return false
		}
		s.token = token
		s.user = nil
		s.epoch++
		return true
	})
	return nil
}

// ValidateSession fetches the profile for the current token. A rejected
// token is removed from storage and the session is logged out; caller
// cancellation leaves the session as it was.
func (s *SessionStore) ValidateSession(ctx context.Context) error {
	s.mu.Lock()
	token, epoch := s.token, s.epoch
	s.mu.Unlock()

	if token == "" {
		return ErrNotAuthenticated
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if s.logger != nil {
			s.logger.Warn("Stored token rejected, logging out", "error", err)
		}

		s.mutate(func() bool {
			if epoch != s.epoch {
				return false
			}
			s.clearStorage()
			s.token = ""
			s.user = nil
			s.epoch++
			return true
		})
		return err
	}

	s.mutate(func() bool {
		if epoch != s.epoch {
			return false
		}
		s.user = user
		return true
	})
	return nil
}

// Login validates creds, exchanges them for a token, persists the token
// and records the profile. Invalid credentials return *ValidationErrors
// without contacting the backend or changing state. Only one login may
// be in flight; a concurrent call returns ErrLoginInProgress.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	if err := auth.ValidateCredentials(creds); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.loggingIn {
		s.mu.Unlock()
		return nil, ErrLoginInProgress
	}
	s.loggingIn = true
	s.mu.Unlock()

	s.mutate(func() bool {
		s.loading = true
		s.errMsg = ""
		return true
	})

	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		msg := internalTypes.Detail(err)
		if msg == "" {
			msg = internalTypes.LoginFailedMessage
		}

		s.mutate(func() bool {
			s.clearStorage()
			s.token = ""
			s.user = nil
			s.loading = false
			s.loggingIn = false
			s.errMsg = msg
			s.epoch++
			return true
		})
		return nil, err
	}

	if err := s.tokens.Save(resp.AccessToken); err != nil && s.logger != nil {
		s.logger.Error("Failed to persist token", "error", err)
	}

	s.mutate(func() bool {
		s.token = resp.AccessToken
		s.user = resp.User
		s.loading = false
		s.loggingIn = false
		s.errMsg = ""
		s.epoch++
		return true
	})

	if resp.User == nil {
		s.validateAsync(context.WithoutCancel(ctx))
	}

	return resp, nil
}

// Logout removes the stored token and clears the session. It makes no
// backend call and is safe to call when already logged out.
func (s *SessionStore) Logout() {
	s.mutate(func() bool {
		s.clearStorage()
		if s.token == "" && s.user == nil {
			return false
		}
		s.token = ""
		s.user = nil
		s.epoch++
		return true
	})
}

// Token returns the current bearer token, "" when logged out
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current snapshot
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for every state change. Callbacks must not call
// Login or Logout synchronously.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	return s.subs.Subscribe(fn)
}

func (s *SessionStore) validateAsync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.ValidateSession(ctx); err != nil && s.logger != nil {
			s.logger.Debug("Profile lookup failed", "error", err)
		}
	}()
}

// mutate applies fn under the lock and publishes when it reports a change
func (s *SessionStore) mutate(fn func() bool) {
	s.pub.Lock()
	defer s.pub.Unlock()

	s.mu.Lock()
	changed := fn()
	snap := s.snapshot()
	s.mu.Unlock()

	if changed {
		s.subs.Publish(snap)
	}
}

// clearStorage empties the token slot; callers hold mu
func (s *SessionStore) clearStorage() {
	if err := s.tokens.Clear(); err != nil && s.logger != nil {
		s.logger.Error("Failed to clear stored token", "error", err)
	}
}

func (s *SessionStore) snapshot() SessionState {
	state := SessionState{
		Token:           s.token,
		IsAuthenticated: s.token != "",
		User:            s.user,
		Loading:         s.loading,
		Error:           s.errMsg,
	}

	switch {
	case s.loading:
		state.Status = StatusLoggingIn
	case s.token == "":
		state.Status = StatusLoggedOut
	case s.user == nil:
		state.Status = StatusLoggedInNoProfile
	default:
		state.Status = StatusLoggedIn
	}
	return state
}

type sessionKey struct{}

// WithSession scopes s to ctx
func WithSession(ctx context.Context, s *SessionStore) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the store scoped by WithSession.
// It panics when ctx carries none.
func SessionFromContext(ctx context.Context) *SessionStore {
	s, ok := ctx.Value(sessionKey{}).(*SessionStore)
	if !ok || s == nil {
		panic("admin: SessionFromContext called outside a session scope")
	}
	return s
}
