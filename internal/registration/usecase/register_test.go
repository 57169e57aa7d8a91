package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/shopbite/internal/pkg/config"
	"github.com/shandysiswandi/shopbite/internal/pkg/goerror"
	"github.com/shandysiswandi/shopbite/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
	"github.com/shandysiswandi/shopbite/internal/registration/entity"
)

type fakeDB struct {
	byEmail   map[string]entity.Credential
	createErr error
	deleteErr error

	created      []entity.NewCredential
	deleted      []string
	deleteCtxErr error
}

func (f *fakeDB) CreateCredential(_ context.Context, in entity.NewCredential) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeDB) GetCredentialByEmail(_ context.Context, email string) (*entity.Credential, error) {
	if cred, ok := f.byEmail[email]; ok {
		return &cred, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) DeleteCredential(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCtxErr = ctx.Err()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMessaging struct {
	publishErr error
	published  []UserRegisteredEvent
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeIdempotency struct {
	err   error
	calls int
}

func (f *fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeHash struct{}

func (fakeHash) Hash(plaintext string) ([]byte, error) { return []byte("hashed:" + plaintext), nil }
func (fakeHash) Verify(hashed, plaintext string) bool  { return hashed == "hashed:"+plaintext }

type fakeUUID struct{ id string }

func (f fakeUUID) Generate() string { return f.id }

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

func newTestUsecase(t *testing.T, db *fakeDB, msg *fakeMessaging, idemp *fakeIdempotency) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  registration:\n    publish_timeout: 1\n"))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	return New(Dependency{
		RepoDB:        db,
		RepoMessaging: msg,
		Idempotency:   idemp,
		Validator:     v10,
		Config:        cfg,
		Hasher:        fakeHash{},
		UUID:          fakeUUID{id: "3f1a7b58-9c1e-4b7a-8a44-2f3f0a9d6e21"},
		Clock:         fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Instrument:    instrument.NewNoop(),
	})
}

func TestRegister(t *testing.T) {
	input := RegisterInput{Name: "John", Email: "john@x.com", Password: "Password@0"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		// Act
		out, err := uc.Register(context.Background(), input)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "John" || out.Email != "john@x.com" {
			t.Fatalf("unexpected output: %+v", out)
		}
		if len(out.Roles) != 1 || out.Roles[0] != entity.RoleUser {
			t.Fatalf("expected roles [USER], got %v", out.Roles)
		}
		if len(db.created) != 1 {
			t.Fatalf("expected one stored credential, got %d", len(db.created))
		}
		if db.created[0].PasswordHash != "hashed:Password@0" {
			t.Fatalf("expected hashed password to be stored, got %q", db.created[0].PasswordHash)
		}
		if !db.created[0].Enabled {
			t.Fatal("expected new credential to be enabled")
		}
		if len(msg.published) != 1 {
			t.Fatalf("expected exactly one published event, got %d", len(msg.published))
		}
		if msg.published[0].UserID != out.ID || msg.published[0].Email != "john@x.com" {
			t.Fatalf("event does not match stored credential: %+v", msg.published[0])
		}
	})

	t.Run("PublishFailureRollsBackCredential", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{publishErr: errors.New("broker unavailable")}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		// Act
		out, err := uc.Register(context.Background(), input)

		// Assert
		if err == nil || out != nil {
			t.Fatalf("expected error, got out=%+v err=%v", out, err)
		}
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
			t.Fatalf("expected server error, got %v", err)
		}
		if len(db.created) != 1 || len(db.deleted) != 1 {
			t.Fatalf("expected create then compensating delete, got created=%d deleted=%d", len(db.created), len(db.deleted))
		}
		if db.deleted[0] != db.created[0].ID {
			t.Fatalf("rollback deleted %q, want %q", db.deleted[0], db.created[0].ID)
		}
	})

	t.Run("CallerCancellationStillRollsBack", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{publishErr: context.Canceled}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Act
		_, err := uc.Register(ctx, input)

		// Assert
		if err == nil {
			t.Fatal("expected error after canceled publish")
		}
		if len(db.created) != 1 || len(db.deleted) != 1 {
			t.Fatalf("expected create then compensating delete, got created=%d deleted=%d", len(db.created), len(db.deleted))
		}
		if db.deleteCtxErr != nil {
			t.Fatalf("rollback must run detached from the caller's cancellation, got ctx err %v", db.deleteCtxErr)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		db := &fakeDB{byEmail: map[string]entity.Credential{
			"john@x.com": {ID: "existing", Email: "john@x.com"},
		}}
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		// Act
		_, err := uc.Register(context.Background(), input)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
		if len(db.created) != 0 || len(msg.published) != 0 {
			t.Fatalf("conflict must not store or publish, got created=%d published=%d", len(db.created), len(msg.published))
		}
	})

	t.Run("InsertConflict", func(t *testing.T) {
		// Arrange
		db := &fakeDB{createErr: goerror.ErrConflict}
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		// Act
		_, err := uc.Register(context.Background(), input)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
		if len(msg.published) != 0 || len(db.deleted) != 0 {
			t.Fatalf("insert conflict must not publish or delete, got published=%d deleted=%d", len(msg.published), len(db.deleted))
		}
	})

	t.Run("WeakPassword", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, db, msg, &fakeIdempotency{})

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{Name: "John", Email: "john@x.com", Password: "password"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input error, got %v", err)
		}
		if len(db.created) != 0 || len(msg.published) != 0 {
			t.Fatalf("validation failure must not touch dependencies")
		}
	})

	t.Run("IdempotencyKeyDuplicate", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{}
		idemp := &fakeIdempotency{err: idempotency.ErrAlreadyCompleted}
		uc := newTestUsecase(t, db, msg, idemp)

		withKey := input
		withKey.IdempotencyKey = "req-1"

		// Act
		_, err := uc.Register(context.Background(), withKey)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
		if idemp.calls != 1 {
			t.Fatalf("expected guarded execution, got %d calls", idemp.calls)
		}
		if len(db.created) != 0 || len(msg.published) != 0 {
			t.Fatalf("duplicate request must not re-run registration")
		}
	})

	t.Run("IdempotencyKeyInProgress", func(t *testing.T) {
		// Arrange
		idemp := &fakeIdempotency{err: idempotency.ErrAlreadyInProgress}
		uc := newTestUsecase(t, &fakeDB{}, &fakeMessaging{}, idemp)

		withKey := input
		withKey.IdempotencyKey = "req-1"

		// Act
		_, err := uc.Register(context.Background(), withKey)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeTooManyRequest {
			t.Fatalf("expected too many request error, got %v", err)
		}
	})
}
