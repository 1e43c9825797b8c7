// Package auth resolves the acting user: password login, registration, and
// restoring the persisted session snapshot against the live user records.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rentalcore/internal/collection"
	"rentalcore/internal/ids"
	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

// Logger records authentication events. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// RegisterInput carries the fields a new account supplies.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Phone    *string
}

// Resolver holds the authenticated state for one process. It is either
// unauthenticated or bound to a single user.
type Resolver struct {
	users    repo.Users
	store    *collection.Store
	params   HashParams
	throttle *throttle
	now      func() time.Time
	ids      ids.Generator
	logger   Logger

	mu      sync.Mutex
	current *domain.User
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHashParams overrides the argon2id cost parameters.
func WithHashParams(p HashParams) Option { return func(r *Resolver) { r.params = p } }

// WithThrottle overrides failed-login throttling.
func WithThrottle(cfg ThrottleConfig) Option {
	return func(r *Resolver) { r.throttle = newThrottle(cfg) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides id generation for new accounts.
func WithIDGenerator(g ids.Generator) Option {
	return func(r *Resolver) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver constructs an unauthenticated resolver over repos.
func NewResolver(repos *repo.Repositories, opts ...Option) *Resolver {
	r := &Resolver{
		users:    repos.Users,
		store:    repos.Store(),
		params:   DefaultHashParams,
		throttle: newThrottle(DefaultThrottle),
		now:      time.Now,
		ids:      ids.Default,
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Current returns the authenticated user.
func (r *Resolver) Current() (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return domain.User{}, false
	}
	return *r.current, true
}

// Context attaches the authenticated user to ctx for workflow calls. It
// returns ctx unchanged when nobody is signed in.
func (r *Resolver) Context(ctx context.Context) context.Context {
	if u, ok := r.Current(); ok {
		return domain.ContextWithActor(ctx, u)
	}
	return ctx
}

func (r *Resolver) authenticate(ctx context.Context, u domain.User) error {
	if err := collection.SaveSlot(ctx, r.store, domain.SlotCurrentUser, u); err != nil {
		return err
	}
	r.mu.Lock()
	r.current = &u
	r.mu.Unlock()
	return nil
}

func (r *Resolver) clear(ctx context.Context) error {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
	return collection.ClearSlot(ctx, r.store, domain.SlotCurrentUser)
}

// Login reports whether the credentials belong to an active user and, if so,
// authenticates as that user.
func (r *Resolver) Login(ctx context.Context, email, password string) bool {
	_, err := r.LoginErr(ctx, email, password)
	return err == nil
}

// LoginErr is Login with the failure reason.
func (r *Resolver) LoginErr(ctx context.Context, email, password string) (domain.User, error) {
	now := r.now()
	if r.throttle.blocked(email, now) {
		r.logger.Warn("login throttled", "email", email)
		return domain.User{}, ErrThrottled
	}
	user, ok := r.users.FindByEmail(ctx, email)
	if !ok {
		r.throttle.fail(email, now)
		return domain.User{}, ErrInvalidCredentials
	}
	valid, upgrade := VerifySecret(user.Password, password)
	if !valid {
		r.throttle.fail(email, now)
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.User{}, ErrInactive
	}
	r.throttle.reset(email)
	if upgrade {
		user = r.upgradeSecret(ctx, user, password)
	}
	if err := r.authenticate(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("persist session: %w", err)
	}
	r.logger.Info("login", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// upgradeSecret replaces a legacy stored secret with an argon2id hash. A
// failed upgrade leaves the login intact and is retried on the next login.
func (r *Resolver) upgradeSecret(ctx context.Context, user domain.User, password string) domain.User {
	hashed, err := HashSecret(password, r.params)
	if err != nil {
		r.logger.Warn("secret upgrade failed", "user_id", user.ID, "error", err)
		return user
	}
	if _, err := r.users.Update(ctx, user.ID, func(u domain.User) domain.User {
		u.Password = hashed
		return u
	}); err != nil {
		r.logger.Warn("secret upgrade failed", "user_id", user.ID, "error", err)
		return user
	}
	user.Password = hashed
	return user
}

// Register reports whether a new account was created. It fails only when the
// email is already taken or the input is malformed.
func (r *Resolver) Register(ctx context.Context, in RegisterInput) bool {
	_, err := r.RegisterErr(ctx, in)
	return err == nil
}

// RegisterErr is Register with the failure reason. On success the new user
// is authenticated.
func (r *Resolver) RegisterErr(ctx context.Context, in RegisterInput) (domain.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" || !in.Role.Valid() {
		return domain.User{}, ErrInvalidInput
	}
	if _, taken := r.users.FindByEmail(ctx, in.Email); taken {
		return domain.User{}, ErrEmailTaken
	}
	hashed, err := HashSecret(in.Password, r.params)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash secret: %w", err)
	}
	user := domain.User{
		ID:        r.ids.NewID(),
		Email:     in.Email,
		Password:  hashed,
		Name:      in.Name,
		Role:      in.Role,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: domain.NewTimestamp(r.now()),
	}
	if err := r.users.Add(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	if err := r.authenticate(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("persist session: %w", err)
	}
	r.logger.Info("registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// RestoreSession re-resolves the persisted snapshot against the live users.
// A snapshot whose user vanished or was deactivated is discarded.
func (r *Resolver) RestoreSession(ctx context.Context) bool {
	snapshot, ok := collection.LoadSlot[domain.User](ctx, r.store, domain.SlotCurrentUser)
	if !ok {
		return false
	}
	live, found := r.users.FindByID(ctx, snapshot.ID)
	if !found || !live.IsActive {
		if err := r.clear(ctx); err != nil {
			r.logger.Warn("clear stale session failed", "user_id", snapshot.ID, "error", err)
		}
		return false
	}
	r.mu.Lock()
	r.current = &live
	r.mu.Unlock()
	return true
}

// Logout clears the session slot and the in-process state.
func (r *Resolver) Logout(ctx context.Context) error {
	if err := r.clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
