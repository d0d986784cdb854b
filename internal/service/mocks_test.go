package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/pkg/jobs"
)

type mockStudentRepo struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	createErr  error
	err        error
	seq        int
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	m := &mockStudentRepo{students: make(map[string]models.Student)}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *mockStudentRepo) sorted() []models.Student {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.sorted(), len(m.students), nil
}

func (m *mockStudentRepo) All(ctx context.Context) ([]models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.students[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *mockStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.students {
		if s.StudentID == studentID {
			found := s
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockStudentRepo) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.StudentID == studentID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	student.ID = fmt.Sprintf("stu-%d", m.seq)
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return models.ErrNotFound
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

type mockCourseRepo struct {
	courses     map[string]models.Course
	takenCodes  map[string]bool
	createErrs  []error
	createCalls int
	err         error
	seq         int
}

func newMockCourseRepo(courses ...models.Course) *mockCourseRepo {
	m := &mockCourseRepo{courses: make(map[string]models.Course), takenCodes: make(map[string]bool)}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseRepo) sorted() []models.Course {
	out := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.sorted(), len(m.courses), nil
}

func (m *mockCourseRepo) All(ctx context.Context) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c.EnrolledStudents = append(models.Roster{}, c.EnrolledStudents...)
	return &c, nil
}

func (m *mockCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.CourseCode == code {
			found := c
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	if m.takenCodes[code] {
		return true, nil
	}
	for _, c := range m.courses {
		if c.CourseCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) ExistsByLecturerEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for _, c := range m.courses {
		if c.LecturerEmail == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	m.seq++
	course.ID = fmt.Sprintf("crs-%d", m.seq)
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return models.ErrNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

// memRepo backs the assignment, exam and event mocks.
type memRepo[T any] struct {
	items map[string]T
	id    func(*T) *string
	err   error
	seq   int
}

func newMemRepo[T any](id func(*T) *string, items ...T) *memRepo[T] {
	m := &memRepo[T]{items: make(map[string]T), id: id}
	for i := range items {
		m.items[*id(&items[i])] = items[i]
	}
	return m
}

func (m *memRepo[T]) all() []T {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.items[k])
	}
	return out
}

func (m *memRepo[T]) find(id string) (*T, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &item, nil
}

func (m *memRepo[T]) create(item *T) error {
	if m.err != nil {
		return m.err
	}
	m.seq++
	*m.id(item) = fmt.Sprintf("id-%d", m.seq)
	m.items[*m.id(item)] = *item
	return nil
}

func (m *memRepo[T]) update(item *T) error {
	if _, ok := m.items[*m.id(item)]; !ok {
		return models.ErrNotFound
	}
	m.items[*m.id(item)] = *item
	return nil
}

func (m *memRepo[T]) remove(id string) error {
	if _, ok := m.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockAssignmentRepo struct {
	*memRepo[models.Assignment]
	lastFilter models.CourseworkFilter
}

func newMockAssignmentRepo(items ...models.Assignment) *mockAssignmentRepo {
	return &mockAssignmentRepo{memRepo: newMemRepo(func(a *models.Assignment) *string { return &a.ID }, items...)}
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, int, error) {
	m.lastFilter = filter
	return m.all(), len(m.items), nil
}
func (m *mockAssignmentRepo) All(ctx context.Context) ([]models.Assignment, error) {
	return m.all(), m.err
}
func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	return m.find(id)
}
func (m *mockAssignmentRepo) Create(ctx context.Context, item *models.Assignment) error {
	return m.create(item)
}
func (m *mockAssignmentRepo) Update(ctx context.Context, item *models.Assignment) error {
	return m.update(item)
}
func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error { return m.remove(id) }

type mockExamRepo struct {
	*memRepo[models.Exam]
}

func newMockExamRepo(items ...models.Exam) *mockExamRepo {
	return &mockExamRepo{memRepo: newMemRepo(func(e *models.Exam) *string { return &e.ID }, items...)}
}

func (m *mockExamRepo) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, int, error) {
	return m.all(), len(m.items), nil
}
func (m *mockExamRepo) All(ctx context.Context) ([]models.Exam, error) { return m.all(), m.err }
func (m *mockExamRepo) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	return m.find(id)
}
func (m *mockExamRepo) Create(ctx context.Context, item *models.Exam) error { return m.create(item) }
func (m *mockExamRepo) Update(ctx context.Context, item *models.Exam) error { return m.update(item) }
func (m *mockExamRepo) Delete(ctx context.Context, id string) error { return m.remove(id) }

type mockEventRepo struct {
	*memRepo[models.Event]
}

func newMockEventRepo(items ...models.Event) *mockEventRepo {
	return &mockEventRepo{memRepo: newMemRepo(func(e *models.Event) *string { return &e.ID }, items...)}
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	return m.all(), len(m.items), nil
}
func (m *mockEventRepo) All(ctx context.Context) ([]models.Event, error) { return m.all(), m.err }
func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return m.find(id)
}
func (m *mockEventRepo) Create(ctx context.Context, e *models.Event) error { return m.create(e) }
func (m *mockEventRepo) Update(ctx context.Context, e *models.Event) error { return m.update(e) }
func (m *mockEventRepo) Delete(ctx context.Context, id string) error { return m.remove(id) }

type recordingInvalidator struct {
	reasons []string
}

func (r *recordingInvalidator) ProjectionsChanged(ctx context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

type mockCacheRepo struct {
	store   map[string]interface{}
	deleted []string
	getErr  error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{store: make(map[string]interface{})}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	value, ok := m.store[key]
	if !ok {
		return errCacheMiss
	}
	return copyInto(value, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.store[key] = value
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.deleted = append(m.deleted, pattern)
	n := len(m.store)
	m.store = make(map[string]interface{})
	return n, nil
}

type mockQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *mockQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func ptr(f float64) *float64 { return &f }

func future(days int) models.Date {
	return models.NewDate(time.Now().AddDate(0, 0, days))
}
