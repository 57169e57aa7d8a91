package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/pkg/goerror"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
)

type fakeDB struct {
	upsertErr error
	listErr   error

	rows    map[string]entity.Account
	upserts int
}

func (f *fakeDB) UpsertAccount(_ context.Context, in entity.UpsertAccount) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.rows == nil {
		f.rows = map[string]entity.Account{}
	}

	f.upserts++
	row, ok := f.rows[in.UserID]
	if !ok {
		row = entity.Account{UserID: in.UserID, CreatedAt: in.At}
	}
	row.Name = in.Name
	row.Email = in.Email
	row.UpdatedAt = in.At
	f.rows[in.UserID] = row
	return nil
}

func (f *fakeDB) GetAccountByID(_ context.Context, userID string) (*entity.Account, error) {
	if row, ok := f.rows[userID]; ok {
		return &row, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) ListAccounts(_ context.Context, limit, _ int32) ([]entity.Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := make([]entity.Account, 0, len(f.rows))
	for _, row := range f.rows {
		if int32(len(items)) >= limit {
			break
		}
		items = append(items, row)
	}
	return items, nil
}

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

func newTestUsecase(t *testing.T, db *fakeDB) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	return New(Dependency{
		RepoDB:     db,
		Validator:  v10,
		Clock:      fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Instrument: instrument.NewNoop(),
	})
}

func TestApplyUserRegistered(t *testing.T) {
	input := ApplyUserRegisteredInput{
		UserID: "8d9f2a6e-1b3c-4d5e-9f70-123456789abc",
		Name:   "Mark",
		Email:  "mark@x.com",
	}

	t.Run("CreatesProjectionRow", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		uc := newTestUsecase(t, db)

		// Act
		err := uc.ApplyUserRegistered(context.Background(), input)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		row, ok := db.rows[input.UserID]
		if !ok {
			t.Fatalf("expected projection row for %s", input.UserID)
		}
		if row.Name != "Mark" || row.Email != "mark@x.com" {
			t.Fatalf("unexpected row: %+v", row)
		}
	})

	t.Run("DoubleApplyLeavesSingleIdenticalRow", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		uc := newTestUsecase(t, db)

		// Act
		if err := uc.ApplyUserRegistered(context.Background(), input); err != nil {
			t.Fatalf("first apply: %v", err)
		}
		first := db.rows[input.UserID]
		if err := uc.ApplyUserRegistered(context.Background(), input); err != nil {
			t.Fatalf("second apply: %v", err)
		}

		// Assert
		if len(db.rows) != 1 {
			t.Fatalf("expected one row after redelivery, got %d", len(db.rows))
		}
		second := db.rows[input.UserID]
		if second != first {
			t.Fatalf("redelivery changed the row: first=%+v second=%+v", first, second)
		}
		if db.upserts != 2 {
			t.Fatalf("expected both deliveries to reach the store, got %d", db.upserts)
		}
	})

	t.Run("StoreFailurePropagates", func(t *testing.T) {
		// Arrange
		db := &fakeDB{upsertErr: errors.New("connection reset")}
		uc := newTestUsecase(t, db)

		// Act
		err := uc.ApplyUserRegistered(context.Background(), input)

		// Assert
		if err == nil {
			t.Fatal("expected store failure to propagate so the message is redelivered")
		}
	})

	t.Run("InvalidPayloadIsDropped", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		uc := newTestUsecase(t, db)

		// Act
		err := uc.ApplyUserRegistered(context.Background(), ApplyUserRegisteredInput{
			UserID: "not-a-uuid",
			Name:   "Mark",
			Email:  "mark@x.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("invalid payloads must be dropped, got %v", err)
		}
		if db.upserts != 0 {
			t.Fatalf("invalid payload must not reach the store")
		}
	})
}

func TestGetAccount(t *testing.T) {
	userID := "8d9f2a6e-1b3c-4d5e-9f70-123456789abc"

	t.Run("Found", func(t *testing.T) {
		// Arrange
		db := &fakeDB{rows: map[string]entity.Account{
			userID: {UserID: userID, Name: "Mark", Email: "mark@x.com"},
		}}
		uc := newTestUsecase(t, db)

		// Act
		acc, err := uc.GetAccount(context.Background(), GetAccountInput{UserID: userID})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if acc.Email != "mark@x.com" {
			t.Fatalf("unexpected account: %+v", acc)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{})

		// Act
		_, err := uc.GetAccount(context.Background(), GetAccountInput{UserID: userID})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("InvalidID", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{})

		// Act
		_, err := uc.GetAccount(context.Background(), GetAccountInput{UserID: "abc"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("DefaultLimit", func(t *testing.T) {
		// Arrange
		db := &fakeDB{rows: map[string]entity.Account{
			"u1": {UserID: "u1"},
			"u2": {UserID: "u2"},
		}}
		uc := newTestUsecase(t, db)

		// Act
		items, err := uc.ListAccounts(context.Background(), ListAccountsInput{})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 accounts, got %d", len(items))
		}
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{})

		// Act
		_, err := uc.ListAccounts(context.Background(), ListAccountsInput{Limit: 500})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{listErr: errors.New("connection reset")})

		// Act
		_, err := uc.ListAccounts(context.Background(), ListAccountsInput{Limit: 10})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
			t.Fatalf("expected server error, got %v", err)
		}
	})
}
