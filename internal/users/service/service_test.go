package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/password"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

type fakeUserRepo struct {
	byEmail map[string]repository.User
	created []repository.User
	updated map[uuid.UUID]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]repository.User),
		updated: make(map[uuid.UUID]string),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (repository.User, error) {
	return r.create(email, passwordHash)
}

func (r *fakeUserRepo) CreateTx(ctx context.Context, tx pgx.Tx, email, passwordHash string) (repository.User, error) {
	return r.create(email, passwordHash)
}

func (r *fakeUserRepo) create(email, passwordHash string) (repository.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return repository.User{}, apperr.Conflict("email already registered")
	}
	user := repository.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.byEmail[email] = user
	r.created = append(r.created, user)
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	return r.lookup(email)
}

func (r *fakeUserRepo) GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (repository.User, error) {
	return r.lookup(email)
}

func (r *fakeUserRepo) lookup(email string) (repository.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return repository.User{}, apperr.NotFound("account not found")
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, apperr.NotFound("account not found")
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for email, u := range r.byEmail {
		if u.ID == id {
			u.PasswordHash = passwordHash
			r.byEmail[email] = u
			r.updated[id] = passwordHash
			return nil
		}
	}
	return apperr.NotFound("account not found")
}

var _ repository.Repository = (*fakeUserRepo)(nil)

type fakeMerger struct {
	sessions []string
}

func (m *fakeMerger) Merge(ctx context.Context, sessionID string, userID uuid.UUID) error {
	m.sessions = append(m.sessions, sessionID)
	return nil
}

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string     { return "test-secret" }
func (testJWTConfig) GetJWTAccessTTL() time.Duration { return time.Hour }

func TestRegister_NormalizesEmailAndMergesGuestCart(t *testing.T) {
	repo := newFakeUserRepo()
	merger := &fakeMerger{}
	svc := New(repo, merger, testJWTConfig{}, logger.New("test"))

	resp, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    " Jane@Example.COM ",
		Password: "hunter2hunter2",
	}, "sess-7")
	if err != nil {
		t.Fatalf("expected register to succeed, got %v", err)
	}

	if resp.User.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %s", resp.User.Email)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected an access token")
	}
	if len(merger.sessions) != 1 || merger.sessions[0] != "sess-7" {
		t.Fatalf("expected guest cart merged for sess-7, got %v", merger.sessions)
	}
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := password.Hash("correct-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.byEmail["jane@example.com"] = repository.User{ID: uuid.New(), Email: "jane@example.com", PasswordHash: hash}

	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	_, err = svc.Login(context.Background(), transport.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	}, "")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLogin_UnknownEmailRejected(t *testing.T) {
	svc := New(newFakeUserRepo(), &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, "")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLogin_MatchesCaseInsensitiveEmail(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := password.Hash("correct-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.byEmail["jane@example.com"] = repository.User{ID: uuid.New(), Email: "jane@example.com", PasswordHash: hash}

	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "Jane@Example.com",
		Password: "correct-password",
	}, ""); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestChangePassword_WrongCurrentPasswordRejected(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := password.Hash("original-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	userID := uuid.New()
	repo.byEmail["jane@example.com"] = repository.User{ID: userID, Email: "jane@example.com", PasswordHash: hash}

	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	err = svc.ChangePassword(context.Background(), userID, transport.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-password",
	})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("expected no password update, got %d", len(repo.updated))
	}
}

func TestChangePassword_ReplacesStoredHash(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := password.Hash("temp-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	userID := uuid.New()
	repo.byEmail["jane@example.com"] = repository.User{ID: userID, Email: "jane@example.com", PasswordHash: hash}

	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	if err := svc.ChangePassword(context.Background(), userID, transport.ChangePasswordRequest{
		CurrentPassword: "temp-password",
		NewPassword:     "chosen-password",
	}); err != nil {
		t.Fatalf("expected change to succeed, got %v", err)
	}

	newHash, ok := repo.updated[userID]
	if !ok {
		t.Fatalf("expected a password update for the account")
	}
	if err := password.Compare(newHash, "chosen-password"); err != nil {
		t.Fatalf("expected stored hash to match the new password: %v", err)
	}
}

func TestFindOrCreateTx_ExistingAccountReturnsNoPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.byEmail["jane@example.com"] = repository.User{ID: uuid.New(), Email: "jane@example.com"}
	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	user, temp, err := svc.FindOrCreateTx(context.Background(), nil, "Jane@Example.com")
	if err != nil {
		t.Fatalf("expected lookup to succeed, got %v", err)
	}
	if temp != "" {
		t.Fatalf("expected no temp password for existing account, got %q", temp)
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("expected existing account, got %s", user.Email)
	}
}

func TestFindOrCreateTx_NewAccountGetsUsableTempPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := New(repo, &fakeMerger{}, testJWTConfig{}, logger.New("test"))

	user, temp, err := svc.FindOrCreateTx(context.Background(), nil, "new@example.com")
	if err != nil {
		t.Fatalf("expected creation to succeed, got %v", err)
	}
	if temp == "" {
		t.Fatalf("expected a temp password for the new account")
	}
	if err := password.Compare(user.PasswordHash, temp); err != nil {
		t.Fatalf("expected temp password to match stored hash: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 account created, got %d", len(repo.created))
	}
}
