package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentalcore/internal/collection"
	"rentalcore/internal/ids"
	"rentalcore/internal/infra/persistence/memory"
	"rentalcore/internal/repo"
	"rentalcore/pkg/domain"
)

type fixture struct {
	repos    *repo.Repositories
	backend  *memory.Store
	resolver *Resolver
	now      time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{backend: memory.NewStore(), now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	f.repos = repo.New(collection.New(f.backend))
	seq := 0
	base := []Option{
		WithHashParams(fastParams),
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(ids.GeneratorFunc(func() string {
			seq++
			return "user-" + string(rune('a'+seq-1))
		})),
	}
	f.resolver = NewResolver(f.repos, append(base, opts...)...)
	return f
}

func (f *fixture) addUser(t *testing.T, u domain.User) {
	t.Helper()
	if err := f.repos.Users.Add(context.Background(), u); err != nil {
		t.Fatalf("add user: %v", err)
	}
}

func TestLoginWithLegacySecretUpgradesHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, domain.User{ID: "tenant-1", Email: "tenant@rental.com", Password: "tenant123", Role: domain.RoleTenant, IsActive: true})

	if !f.resolver.Login(ctx, "tenant@rental.com", "tenant123") {
		t.Fatalf("expected login success")
	}
	current, ok := f.resolver.Current()
	if !ok || current.ID != "tenant-1" {
		t.Fatalf("expected tenant-1 authenticated, got %v %v", current, ok)
	}
	stored, _ := f.repos.Users.FindByID(ctx, "tenant-1")
	if !IsHashed(stored.Password) {
		t.Fatalf("expected stored secret upgraded, got %q", stored.Password)
	}
	snapshot, ok := collection.LoadSlot[domain.User](ctx, f.repos.Store(), domain.SlotCurrentUser)
	if !ok || snapshot.ID != "tenant-1" {
		t.Fatalf("expected session snapshot persisted, got %v %v", snapshot, ok)
	}

	if err := f.resolver.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !f.resolver.Login(ctx, "tenant@rental.com", "tenant123") {
		t.Fatalf("expected login with upgraded hash")
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, domain.User{ID: "u1", Email: "off@rental.com", Password: "pw", IsActive: false, Role: domain.RoleOwner})
	f.addUser(t, domain.User{ID: "u2", Email: "on@rental.com", Password: "pw", IsActive: true, Role: domain.RoleOwner})

	cases := []struct {
		email, password string
		want            error
	}{
		{"missing@rental.com", "pw", ErrInvalidCredentials},
		{"on@rental.com", "nope", ErrInvalidCredentials},
		{"off@rental.com", "pw", ErrInactive},
	}
	for _, tc := range cases {
		if _, err := f.resolver.LoginErr(ctx, tc.email, tc.password); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.email, tc.want, err)
		}
		if f.resolver.Login(ctx, tc.email, tc.password) {
			t.Errorf("%s: boolean login should fail", tc.email)
		}
	}
	if _, ok := f.resolver.Current(); ok {
		t.Fatalf("failed logins must not authenticate")
	}
	if _, ok := collection.LoadSlot[domain.User](ctx, f.repos.Store(), domain.SlotCurrentUser); ok {
		t.Fatalf("failed logins must not write the session slot")
	}
}

func TestLoginThrottlesRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithThrottle(ThrottleConfig{Burst: 2, Refill: time.Minute}))
	f.addUser(t, domain.User{ID: "u1", Email: "a@rental.com", Password: "right", IsActive: true, Role: domain.RoleTenant})

	for range 2 {
		if _, err := f.resolver.LoginErr(ctx, "a@rental.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
	if _, err := f.resolver.LoginErr(ctx, "A@rental.com", "right"); !errors.Is(err, ErrThrottled) {
		t.Fatalf("expected throttled even with the right secret, got %v", err)
	}
	f.now = f.now.Add(time.Minute)
	if _, err := f.resolver.LoginErr(ctx, "a@rental.com", "right"); err != nil {
		t.Fatalf("expected login after refill, got %v", err)
	}
	// success resets the bucket
	for range 2 {
		_, _ = f.resolver.LoginErr(ctx, "a@rental.com", "wrong")
	}
	if _, err := f.resolver.LoginErr(ctx, "a@rental.com", "right"); !errors.Is(err, ErrThrottled) {
		t.Fatalf("expected a fresh bucket to drain again, got %v", err)
	}
}

func TestDefaultResolverDoesNotThrottle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, domain.User{ID: "u1", Email: "t@rental.com", Password: "right", IsActive: true, Role: domain.RoleTenant})
	for range 10 {
		if f.resolver.Login(ctx, "t@rental.com", "wrong") {
			t.Fatalf("wrong secret must fail")
		}
	}
	if _, err := f.resolver.LoginErr(ctx, "t@rental.com", "right"); err != nil {
		t.Fatalf("expected correct credentials accepted after failures, got %v", err)
	}
}

func TestThrottleDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithThrottle(ThrottleConfig{}))
	f.addUser(t, domain.User{ID: "u1", Email: "a@rental.com", Password: "right", IsActive: true, Role: domain.RoleTenant})
	for range 20 {
		_, _ = f.resolver.LoginErr(ctx, "a@rental.com", "wrong")
	}
	if !f.resolver.Login(ctx, "a@rental.com", "right") {
		t.Fatalf("expected login with throttling disabled")
	}
}

func TestRegisterRejectsDuplicateEmailWithoutWriting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, domain.User{ID: "u1", Email: "taken@rental.com", Password: "pw", IsActive: true, Role: domain.RoleTenant})
	before, _, _ := f.backend.Load(ctx, domain.BucketUsers)

	if f.resolver.Register(ctx, RegisterInput{Email: "taken@rental.com", Password: "x", Name: "Dup", Role: domain.RoleTenant}) {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := f.resolver.RegisterErr(ctx, RegisterInput{Email: "taken@rental.com", Password: "x", Name: "Dup", Role: domain.RoleTenant}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	after, _, _ := f.backend.Load(ctx, domain.BucketUsers)
	if string(before) != string(after) {
		t.Fatalf("users collection changed on duplicate registration")
	}
	if _, ok := f.resolver.Current(); ok {
		t.Fatalf("duplicate registration must not authenticate")
	}
}

func TestRegisterCreatesActiveUserAndAuthenticates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	phone := "555-0100"
	user, err := f.resolver.RegisterErr(ctx, RegisterInput{Email: "new@rental.com", Password: "secret", Name: "New", Role: domain.RoleOwner, Phone: &phone})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != "user-a" || !user.IsActive || !user.CreatedAt.Equal(f.now) {
		t.Fatalf("unexpected user %+v", user)
	}
	if !IsHashed(user.Password) {
		t.Fatalf("expected hashed secret")
	}
	if current, ok := f.resolver.Current(); !ok || current.ID != user.ID {
		t.Fatalf("expected registered user authenticated")
	}
	if _, err := f.resolver.RegisterErr(ctx, RegisterInput{Email: "x@rental.com", Password: "p", Name: "X", Role: "root"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid role rejection, got %v", err)
	}
	if _, err := f.resolver.RegisterErr(ctx, RegisterInput{Email: "x@rental.com", Password: "p", Name: "  ", Role: domain.RoleTenant}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected blank name rejection, got %v", err)
	}
	if _, ok := f.repos.Users.FindByEmail(ctx, "x@rental.com"); ok {
		t.Fatalf("rejected registrations must not write users")
	}
}

func TestRestoreSessionRejectsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, domain.User{ID: "u1", Email: "a@rental.com", Password: "pw", IsActive: true, Role: domain.RoleTenant})
	if !f.resolver.Login(ctx, "a@rental.com", "pw") {
		t.Fatalf("login failed")
	}

	fresh := NewResolver(f.repos, WithHashParams(fastParams))
	if !fresh.RestoreSession(ctx) {
		t.Fatalf("expected live session restored")
	}

	if _, err := f.repos.Users.Update(ctx, "u1", func(u domain.User) domain.User {
		u.IsActive = false
		return u
	}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	stale := NewResolver(f.repos)
	if stale.RestoreSession(ctx) {
		t.Fatalf("deactivated user must not be restored")
	}
	if _, ok := stale.Current(); ok {
		t.Fatalf("expected unauthenticated after stale restore")
	}
	if _, ok := collection.LoadSlot[domain.User](ctx, f.repos.Store(), domain.SlotCurrentUser); ok {
		t.Fatalf("expected stale slot cleared")
	}
}

func TestRestoreSessionRemovedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := collection.SaveSlot(ctx, f.repos.Store(), domain.SlotCurrentUser, domain.User{ID: "ghost", IsActive: true}); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if f.resolver.RestoreSession(ctx) {
		t.Fatalf("vanished user must not be restored")
	}
	if f.resolver.RestoreSession(ctx) {
		t.Fatalf("empty slot must not restore")
	}
}

func TestContextCarriesActor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, ok := domain.ActorFromContext(f.resolver.Context(ctx)); ok {
		t.Fatalf("unauthenticated resolver must not attach an actor")
	}
	f.addUser(t, domain.User{ID: "u1", Email: "a@rental.com", Password: "pw", IsActive: true, Role: domain.RoleTenant})
	f.resolver.Login(ctx, "a@rental.com", "pw")
	actor, ok := domain.ActorFromContext(f.resolver.Context(ctx))
	if !ok || actor.ID != "u1" {
		t.Fatalf("expected actor u1, got %v %v", actor, ok)
	}
}
