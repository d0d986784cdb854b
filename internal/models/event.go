package models

import "time"

// Audience types recognised on events.
const (
	AudienceAll      = "all"
	AudienceDegree   = "degree"
	AudienceCourse   = "course"
	AudienceStudents = "students"
)

// AudienceTypes lists every supported audience type.
var AudienceTypes = []string{AudienceAll, AudienceDegree, AudienceCourse, AudienceStudents}

// Event is a calendar entry visible to an audience of students.
type Event struct {
	ID            string        `db:"id" json:"id" bson:"_id"`
	EventName     string        `db:"event_name" json:"eventName" bson:"eventName"`
	Description   string        `db:"description" json:"description" bson:"description"`
	EventDate     Date          `db:"event_date" json:"eventDate" bson:"eventDate"`
	StartTime     string        `db:"start_time" json:"startTime" bson:"startTime"`
	EndTime       string        `db:"end_time" json:"endTime" bson:"endTime"`
	AudienceType  string        `db:"audience_type" json:"audienceType" bson:"audienceType"`
	AudienceValue AudienceValue `db:"audience_value" json:"audienceValue" bson:"audienceValue"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// EventFilter lists events, optionally restricted to an audience type or a date range.
type EventFilter struct {
	AudienceType string
	From         *Date
	To           *Date
	Page         int
	PageSize     int
	SortOrder    string
}
