package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func grade(v float64) *float64 { return &v }

func TestRosterEntryCompletionBoundary(t *testing.T) {
	var entry RosterEntry

	entry.SetGrade(grade(59))
	assert.False(t, entry.Completed)

	entry.SetGrade(grade(60))
	assert.True(t, entry.Completed)

	entry.SetGrade(nil)
	assert.False(t, entry.Completed)
	assert.Nil(t, entry.Grade)
}

func TestAudienceValueJSONShapes(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"audienceType":"students","audienceValue":["S1","S2"]}`), &ev))
	assert.Equal(t, []string{"S1", "S2"}, ev.AudienceValue.Students)

	require.NoError(t, json.Unmarshal([]byte(`{"audienceType":"degree","audienceValue":"Biology"}`), &ev))
	assert.Equal(t, "Biology", ev.AudienceValue.Text)
	assert.False(t, ev.AudienceValue.IsList())

	require.NoError(t, json.Unmarshal([]byte(`{"audienceType":"all","audienceValue":null}`), &ev))
	assert.True(t, ev.AudienceValue.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"audienceValue":42}`), &ev))

	out, err := json.Marshal(AudienceStudentIDs())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestAudienceValueBSON(t *testing.T) {
	in := Event{ID: "e1", AudienceType: AudienceStudents, AudienceValue: AudienceStudentIDs("111111111")}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, bson.A{"111111111"}, doc["audienceValue"])

	var out Event
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, []string{"111111111"}, out.AudienceValue.Students)
}

func TestAudienceValueSQL(t *testing.T) {
	v, err := AudienceText("CS100").Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`"CS100"`), v)

	var a AudienceValue
	require.NoError(t, a.Scan([]byte(`["1","2"]`)))
	assert.Equal(t, []string{"1", "2"}, a.Students)
}

func TestDateParsing(t *testing.T) {
	d, err := ParseDate("2030-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2030-05-01", d.String())
	assert.Equal(t, time.Local, d.Location())

	var ex Exam
	require.NoError(t, json.Unmarshal([]byte(`{"examDate":"2030-06-15"}`), &ex))
	assert.Equal(t, 15, ex.ExamDate.Day())

	assert.Error(t, json.Unmarshal([]byte(`{"examDate":"15/06/2030"}`), &ex))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2030-01-02", scanned.String())
}

func TestDuplicateKeyErrorMatchesSentinel(t *testing.T) {
	err := error(&DuplicateKeyError{Field: "email"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = NormalizePage(2, 500)
	assert.Equal(t, MaxPageSize, size)
}
