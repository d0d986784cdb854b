package academic

import (
	"sort"
	"time"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// WorkloadWeeks is the number of week buckets on the admin summary.
const WorkloadWeeks = 4

// UpcomingHorizonDays bounds the upcoming events list.
const UpcomingHorizonDays = 7

func daysFrom(now time.Time, d models.Date) int {
	today := models.NewDate(now)
	// Calendar arithmetic on dates avoids DST drift.
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// WeekBucket places date in a 1-based week counted from today. Past and unset dates have no bucket.
func WeekBucket(date models.Date, now time.Time) (int, bool) {
	if date.IsZero() {
		return 0, false
	}
	diff := daysFrom(now, date)
	if diff < 0 {
		return 0, false
	}
	return diff/7 + 1, true
}

// Workload counts exams and assignments per week for the next WorkloadWeeks weeks.
func Workload(exams []models.Exam, assignments []models.Assignment, now time.Time) []models.WeeklyWorkload {
	weeks := make([]models.WeeklyWorkload, WorkloadWeeks)
	for i := range weeks {
		weeks[i].Week = i + 1
	}
	for _, exam := range exams {
		if w, ok := WeekBucket(exam.ExamDate, now); ok && w <= WorkloadWeeks {
			weeks[w-1].Exams++
		}
	}
	for _, a := range assignments {
		if w, ok := WeekBucket(a.DueDate, now); ok && w <= WorkloadWeeks {
			weeks[w-1].Assignments++
		}
	}
	return weeks
}

// UpcomingEvents returns events dated between today and horizonDays ahead inclusive, earliest first.
func UpcomingEvents(events []models.Event, now time.Time, horizonDays int) []models.Event {
	out := make([]models.Event, 0)
	for _, event := range events {
		if event.EventDate.IsZero() {
			continue
		}
		diff := daysFrom(now, event.EventDate)
		if diff >= 0 && diff <= horizonDays {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EventDate.Equal(out[j].EventDate.Time) {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].EventDate.Before(out[j].EventDate.Time)
	})
	return out
}

// StudentsPerDegree counts students by degree program in catalog order; programs outside the
// catalog follow, sorted by name.
func StudentsPerDegree(students []models.Student) []models.DegreeCount {
	counts := make(map[string]int)
	for _, s := range students {
		counts[s.DegreeProgram]++
	}
	out := make([]models.DegreeCount, 0, len(counts))
	for _, program := range models.DegreePrograms {
		if n, ok := counts[program]; ok {
			out = append(out, models.DegreeCount{DegreeProgram: program, Students: n})
			delete(counts, program)
		}
	}
	extra := make([]string, 0, len(counts))
	for program := range counts {
		extra = append(extra, program)
	}
	sort.Strings(extra)
	for _, program := range extra {
		out = append(out, models.DegreeCount{DegreeProgram: program, Students: counts[program]})
	}
	return out
}

// Calendar merges events, exams and assignments into dated entries sorted by date then start time.
func Calendar(events []models.Event, exams []models.Exam, assignments []models.Assignment) []models.CalendarEntry {
	entries := make([]models.CalendarEntry, 0, len(events)+len(exams)+len(assignments))
	for _, e := range events {
		entries = append(entries, models.CalendarEntry{
			Kind: models.CalendarEvent, ID: e.ID, Title: e.EventName, Date: e.EventDate,
			StartTime: e.StartTime, EndTime: e.EndTime,
		})
	}
	for _, e := range exams {
		entries = append(entries, models.CalendarEntry{
			Kind: models.CalendarExam, ID: e.ID, Title: e.ExamName, Date: e.ExamDate, CourseCode: e.CourseCode,
		})
	}
	for _, a := range assignments {
		entries = append(entries, models.CalendarEntry{
			Kind: models.CalendarAssignment, ID: a.ID, Title: a.Title, Date: a.DueDate, CourseCode: a.CourseCode,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date.Time) {
			return entries[i].Date.Before(entries[j].Date.Time)
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries
}

// CourseworkFor keeps the exams and assignments of the given course codes.
func CourseworkFor(codes []string, exams []models.Exam, assignments []models.Assignment) ([]models.Exam, []models.Assignment) {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	outExams := make([]models.Exam, 0)
	for _, e := range exams {
		if _, ok := set[e.CourseCode]; ok {
			outExams = append(outExams, e)
		}
	}
	outAssignments := make([]models.Assignment, 0)
	for _, a := range assignments {
		if _, ok := set[a.CourseCode]; ok {
			outAssignments = append(outAssignments, a)
		}
	}
	return outExams, outAssignments
}
