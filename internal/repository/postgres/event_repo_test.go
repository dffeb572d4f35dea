package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventhub/internal/domain"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{"id", "name", "description", "date", "location", "organizer_id", "participant_ids", "created_at", "updated_at"}

var (
	testCreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testEventDate = time.Date(2030, 6, 1, 18, 0, 0, 0, time.UTC)
)

func eventRow(participants string) *sqlmock.Rows {
	return sqlmock.NewRows(eventRowColumns).
		AddRow("ev-1", "GopherCon", "Talks", testEventDate, "Berlin", "org-1", participants, testCreatedAt, testCreatedAt)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		location string
		mock     func(mock sqlmock.Sqlmock)
		wantID   string
		wantErr  error
	}{
		{
			name:     "success",
			location: "Berlin",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, description, date, location, organizer_id, created_at, updated_at\)`).
					WithArgs("GopherCon", "Talks", testEventDate, "Berlin", "org-1", testCreatedAt, testCreatedAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "empty location stored as null",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("GopherCon", "Talks", testEventDate, nil, "org-1", testCreatedAt, testCreatedAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-2"))
			},
			wantID: "ev-uuid-2",
		},
		{
			name: "organizer foreign key violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrOrganizerNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			event := domain.NewEvent("GopherCon", "Talks", testEventDate, tt.location, "org-1", testCreatedAt, testCreatedAt)
			err = NewEventRepository(db).Create(ctx, event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, event.ID)
				require.Empty(t, event.Participants)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, date, location, organizer_id, participant_ids, created_at, updated_at FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(eventRow("{u-1,u-2}"))
			},
			want: &domain.Event{
				ID:           "ev-1",
				Name:         "GopherCon",
				Description:  "Talks",
				Date:         testEventDate,
				Location:     "Berlin",
				OrganizerID:  "org-1",
				Participants: []string{"u-1", "u-2"},
				CreatedAt:    testCreatedAt,
				UpdatedAt:    testCreatedAt,
			},
		},
		{
			name: "empty participants",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id`).
					WithArgs("ev-1").
					WillReturnRows(eventRow("{}"))
			},
			want: &domain.Event{
				ID:           "ev-1",
				Name:         "GopherCon",
				Description:  "Talks",
				Date:         testEventDate,
				Location:     "Berlin",
				OrganizerID:  "org-1",
				Participants: []string{},
				CreatedAt:    testCreatedAt,
				UpdatedAt:    testCreatedAt,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM events ORDER BY date ASC`).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("ev-1", "A", "a", testEventDate, nil, "org-1", "{}", testCreatedAt, testCreatedAt).
			AddRow("ev-2", "B", "b", testEventDate, "Paris", "org-2", "{u-1}", testCreatedAt, testCreatedAt))

	events, err := NewEventRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "", events[0].Location)
	require.Equal(t, []string{"u-1"}, events[1].Participants)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	name := "Renamed"
	location := ""

	t.Run("only provided fields are set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1, location = \$2\s+WHERE id = \$3`).
			WithArgs("Renamed", nil, "ev-1").
			WillReturnRows(eventRow("{u-1}"))

		e, err := NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{Name: &name, Location: &location})
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update reads current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id`).WithArgs("ev-1").WillReturnRows(eventRow("{}"))

		_, err = NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET`).WillReturnError(sql.ErrNoRows)

		_, err = NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{Name: &name})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(context.Background(), "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_AddParticipant(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "appended",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events\s+SET participant_ids = array_append\(participant_ids, \$2::uuid\)`).
					WithArgs("ev-1", "u-1").
					WillReturnRows(eventRow("{u-1}"))
			},
		},
		{
			name: "already registered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events`).WithArgs("ev-1", "u-1").WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM events WHERE id = \$1\)`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "event missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events`).WithArgs("ev-1", "u-1").WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			e, err := NewEventRepository(db).AddParticipant(context.Background(), "ev-1", "u-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, e)
			} else {
				require.NoError(t, err)
				require.Equal(t, []string{"u-1"}, e.Participants)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
