package service

import (
	"context"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

// FeedService supplies the record sets pushed over realtime subscriptions.
type FeedService struct {
	attendance  attendanceLister
	enrollments rosterLister
	hub         *realtime.Hub
}

// NewFeedService constructs a FeedService bound to hub.
func NewFeedService(attendance attendanceLister, enrollments rosterLister, hub *realtime.Hub) *FeedService {
	return &FeedService{attendance: attendance, enrollments: enrollments, hub: hub}
}

// WatchAttendance pushes the class's attendance records now and after every change.
func (s *FeedService) WatchAttendance(ctx context.Context, classID string, push func([]models.Attendance)) func() {
	filter := realtime.Filter{Topic: realtime.TopicAttendance, ClassID: classID}
	return realtime.Watch(ctx, s.hub, filter, s.attendanceLoader(classID), push)
}

// WatchEnrollments pushes the class's enrollments now and after every change.
func (s *FeedService) WatchEnrollments(ctx context.Context, classID string, push func([]models.EnrollmentDetail)) func() {
	filter := realtime.Filter{Topic: realtime.TopicEnrollments, ClassID: classID}
	return realtime.Watch(ctx, s.hub, filter, s.enrollmentLoader(classID), push)
}

func (s *FeedService) attendanceLoader(classID string) realtime.Loader[models.Attendance] {
	return func(ctx context.Context) ([]models.Attendance, error) {
		return s.attendance.List(ctx, models.AttendanceFilter{ClassID: classID})
	}
}

func (s *FeedService) enrollmentLoader(classID string) realtime.Loader[models.EnrollmentDetail] {
	return func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return s.enrollments.ListByClass(ctx, classID)
	}
}
