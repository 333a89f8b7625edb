package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/stretchr/testify/require"

	"eventticketing/internal/domain"
)

func TestAttendeeRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		attendee *domain.Attendee
		mock     func(mock sqlmock.Sqlmock)
		wantErr  bool
		errIs    error
	}{
		{
			name: "success",
			attendee: &domain.Attendee{
				UserID:    "user-uuid-1",
				EventID:   "event-uuid-1",
				Status:    domain.StatusRegistered,
				CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendees`).
					WithArgs("user-uuid-1", "event-uuid-1", domain.StatusRegistered, nil, false, nil,
						time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("attendee-uuid-1"))
			},
		},
		{
			name: "unique violation returns ErrAlreadyRegistered",
			attendee: &domain.Attendee{
				UserID:    "user-uuid-1",
				EventID:   "event-uuid-1",
				Status:    domain.StatusRegistered,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendees`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "attendees_user_id_event_id_key"})
			},
			wantErr: true,
			errIs:   domain.ErrAlreadyRegistered,
		},
		{
			name: "db error",
			attendee: &domain.Attendee{
				UserID:    "user-uuid-1",
				EventID:   "event-uuid-1",
				Status:    domain.StatusRegistered,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendees`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			err = repo.Create(ctx, tt.attendee)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "attendee-uuid-1", tt.attendee.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func attendeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "event_id", "status", "notes", "is_paid", "payment_amount", "created_at", "updated_at",
	})
}

func TestAttendeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Attendee
		wantErr bool
		errIs   error
	}{
		{
			name: "success with null optionals",
			id:   "attendee-uuid-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attendees WHERE id = \$1`).
					WithArgs("attendee-uuid-1").
					WillReturnRows(attendeeRows().
						AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "REGISTERED", nil, false, nil, now, now))
			},
			want: &domain.Attendee{
				ID:        "attendee-uuid-1",
				UserID:    "user-uuid-1",
				EventID:   "event-uuid-1",
				Status:    domain.StatusRegistered,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "success with notes and payment",
			id:   "attendee-uuid-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attendees WHERE id = \$1`).
					WithArgs("attendee-uuid-2").
					WillReturnRows(attendeeRows().
						AddRow("attendee-uuid-2", "user-uuid-1", "event-uuid-1", "CONFIRMED", "VIP guest", true, 50.0, now, now))
			},
			want: func() *domain.Attendee {
				notes := "VIP guest"
				amount := 50.0
				return &domain.Attendee{
					ID:            "attendee-uuid-2",
					UserID:        "user-uuid-1",
					EventID:       "event-uuid-1",
					Status:        domain.StatusConfirmed,
					Notes:         &notes,
					IsPaid:        true,
					PaymentAmount: &amount,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
			}(),
		},
		{
			name: "not found",
			id:   "nonexistent",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attendees WHERE id = \$1`).
					WithArgs("nonexistent").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendeeRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT (.+) FROM attendees ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 20).
		WillReturnRows(attendeeRows().
			AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "REGISTERED", nil, false, nil, now, now).
			AddRow("attendee-uuid-2", "user-uuid-2", "event-uuid-1", "CONFIRMED", nil, true, 25.0, now, now))

	repo := NewAttendeeRepository(db)
	attendees, total, err := repo.List(ctx, domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.Len(t, attendees, 2)
	require.Equal(t, domain.StatusConfirmed, attendees[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendeeRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM attendees WHERE event_id = \$1`).
		WithArgs("event-uuid-1").
		WillReturnRows(attendeeRows().
			AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "ATTENDED", nil, false, nil, now, now))

	repo := NewAttendeeRepository(db)
	attendees, err := repo.ListByEventID(ctx, "event-uuid-1")
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	require.Equal(t, domain.StatusAttended, attendees[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendeeRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("status only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE attendees SET updated_at = NOW\(\), status = \$1 WHERE id = \$2`).
			WithArgs(domain.StatusCancelled, "attendee-uuid-1").
			WillReturnRows(attendeeRows().
				AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "CANCELLED", nil, false, nil, now, now))

		repo := NewAttendeeRepository(db)
		status := domain.StatusCancelled
		got, err := repo.Update(ctx, "attendee-uuid-1", domain.AttendeeUpdate{Status: &status})
		require.NoError(t, err)
		require.Equal(t, domain.StatusCancelled, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("payment fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE attendees SET updated_at = NOW\(\), is_paid = \$1, payment_amount = \$2 WHERE id = \$3`).
			WithArgs(true, 50.0, "attendee-uuid-1").
			WillReturnRows(attendeeRows().
				AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "REGISTERED", nil, true, 50.0, now, now))

		repo := NewAttendeeRepository(db)
		paid := true
		amount := 50.0
		got, err := repo.Update(ctx, "attendee-uuid-1", domain.AttendeeUpdate{IsPaid: &paid, PaymentAmount: &amount})
		require.NoError(t, err)
		require.True(t, got.IsPaid)
		require.NotNil(t, got.PaymentAmount)
		require.Equal(t, 50.0, *got.PaymentAmount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update falls back to get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM attendees WHERE id = \$1`).
			WithArgs("attendee-uuid-1").
			WillReturnRows(attendeeRows().
				AddRow("attendee-uuid-1", "user-uuid-1", "event-uuid-1", "REGISTERED", nil, false, nil, now, now))

		repo := NewAttendeeRepository(db)
		got, err := repo.Update(ctx, "attendee-uuid-1", domain.AttendeeUpdate{})
		require.NoError(t, err)
		require.Equal(t, "attendee-uuid-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE attendees SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewAttendeeRepository(db)
		status := domain.StatusConfirmed
		_, err = repo.Update(ctx, "nonexistent", domain.AttendeeUpdate{Status: &status})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendeeRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "attendee-uuid-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendees WHERE id = \$1`).
					WithArgs("attendee-uuid-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found zero rows affected",
			id:   "nonexistent",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendees WHERE id = \$1`).
					WithArgs("nonexistent").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
