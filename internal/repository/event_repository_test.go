package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilamalka1/onboard-api/internal/models"
)

var eventRowColumns = []string{"id", "event_name", "description", "event_date", "start_time", "end_time", "audience_type", "audience_value", "created_at", "updated_at"}

func TestEventRepositoryListDecodesAudience(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	day := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + eventColumns + " FROM events WHERE audience_type = $1 ORDER BY event_date ASC, start_time LIMIT 20 OFFSET 0")).
		WithArgs(models.AudienceStudents).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("e1", "Advising", "", day, "09:00", "10:00", "students", []byte(`["111111111"]`), time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE audience_type = $1")).
		WithArgs(models.AudienceStudents).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	events, total, err := repo.List(context.Background(), models.EventFilter{AudienceType: models.AudienceStudents})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"111111111"}, events[0].AudienceValue.Students)
	assert.Equal(t, "2030-05-01", events[0].EventDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateEncodesAudience(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	date, err := models.ParseDate("2030-05-01")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO events").
		WithArgs(sqlmock.AnyArg(), "Fair", "", "2030-05-01", "10:00", "12:00", "degree", []byte(`"Biology"`), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{EventName: "Fair", EventDate: date, StartTime: "10:00", EndTime: "12:00", AudienceType: "degree", AudienceValue: models.AudienceText("Biology")}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}
