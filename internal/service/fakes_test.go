package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (f *fakePublisher) Publish(_ context.Context, evt realtime.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, evt := range f.events {
		out = append(out, evt.Topic)
	}
	return out
}

type fakeEnrollmentStore struct {
	mu          sync.Mutex
	enrollments map[string]models.Enrollment
	students    map[string]string
	nextID      int
	deleted     []string
	cascaded    bool
	removedRows int64
}

func newFakeEnrollmentStore(items ...models.Enrollment) *fakeEnrollmentStore {
	f := &fakeEnrollmentStore{enrollments: map[string]models.Enrollment{}, students: map[string]string{}}
	for _, e := range items {
		f.enrollments[e.ID] = e
	}
	return f
}

func (f *fakeEnrollmentStore) List(_ context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EnrollmentDetail
	for _, e := range f.enrollments {
		if filter.ClassID != "" && e.ClassID != filter.ClassID {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		out = append(out, models.EnrollmentDetail{Enrollment: e, StudentName: f.students[e.StudentID]})
	}
	return out, len(out), nil
}

func (f *fakeEnrollmentStore) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	items, _, err := f.List(ctx, models.EnrollmentFilter{ClassID: classID})
	return items, err
}

func (f *fakeEnrollmentStore) FindByID(_ context.Context, id string) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (f *fakeEnrollmentStore) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	e, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EnrollmentDetail{Enrollment: *e, StudentName: f.students[e.StudentID]}, nil
}

func (f *fakeEnrollmentStore) CountActiveByClass(_ context.Context, classID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.enrollments {
		if e.ClassID == classID && e.Status == models.EnrollmentStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeEnrollmentStore) ExistsForStudent(_ context.Context, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = fmt.Sprintf("enr-%d", f.nextID)
	f.enrollments[e.ID] = *e
	return nil
}

func (f *fakeEnrollmentStore) UpdatePayment(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.enrollments[e.ID]; !ok {
		return sql.ErrNoRows
	}
	f.enrollments[e.ID] = *e
	return nil
}

func (f *fakeEnrollmentStore) UpdateStatus(_ context.Context, id string, status models.EnrollmentStatus, actor string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	e.UpdatedBy = actor
	f.enrollments[id] = e
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id string, cascade bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.enrollments[id]; !ok {
		return 0, sql.ErrNoRows
	}
	delete(f.enrollments, id)
	f.deleted = append(f.deleted, id)
	f.cascaded = cascade
	if cascade {
		return f.removedRows, nil
	}
	return 0, nil
}

type fakeAttendanceStore struct {
	mu         sync.Mutex
	records    map[string]*models.Attendance
	nextID     int
	lastFilter models.AttendanceFilter
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: map[string]*models.Attendance{}}
}

func sessionKey(enrollmentID string, session int) string {
	return fmt.Sprintf("%s#%d", enrollmentID, session)
}

func (f *fakeAttendanceStore) Create(_ context.Context, record *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(record.EnrollmentID, record.SessionNumber)
	if _, ok := f.records[key]; ok {
		return repository.ErrDuplicateSession
	}
	f.nextID++
	record.ID = fmt.Sprintf("att-%d", f.nextID)
	cp := *record
	f.records[key] = &cp
	return nil
}

func (f *fakeAttendanceStore) FindByID(_ context.Context, id string) (*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceStore) FindBySession(_ context.Context, enrollmentID string, session int) (*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[sessionKey(enrollmentID, session)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeAttendanceStore) Exists(_ context.Context, enrollmentID string, session int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[sessionKey(enrollmentID, session)]
	return ok, nil
}

func (f *fakeAttendanceStore) ExistsForEnrollment(_ context.Context, enrollmentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EnrollmentID == enrollmentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceStore) UpdateMark(_ context.Context, record *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(record.EnrollmentID, record.SessionNumber)
	if _, ok := f.records[key]; !ok {
		return sql.ErrNoRows
	}
	cp := *record
	f.records[key] = &cp
	return nil
}

func (f *fakeAttendanceStore) List(_ context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []models.Attendance
	for _, r := range f.records {
		if filter.ClassID != "" && r.ClassID != filter.ClassID {
			continue
		}
		if filter.EnrollmentID != "" && r.EnrollmentID != filter.EnrollmentID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAttendanceStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeClassFinder map[string]models.ClassDetail

func (f fakeClassFinder) FindByID(_ context.Context, id string) (*models.ClassDetail, error) {
	c, ok := f[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

type fakeStudentFinder map[string]models.Student

func (f fakeStudentFinder) FindByID(_ context.Context, id string) (*models.Student, error) {
	s, ok := f[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	n := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			n++
		}
	}
	return n, nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func newTestCache(repo *memoryCache) *CacheService {
	return NewCacheService(repo, nil, time.Minute, nil, true)
}
