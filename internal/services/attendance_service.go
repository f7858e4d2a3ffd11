package services

import (
	"context"
	"time"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/timeutil"
	"desynflow-backend/internal/validation"
)

// AttendanceStore is the slice of the attendance repository this service
// needs.
type AttendanceStore interface {
	Upsert(ctx context.Context, a *models.Attendance) error
	ListByTeamAndDate(ctx context.Context, teamID int, date time.Time) ([]*models.Attendance, error)
	ListByUser(ctx context.Context, userID int, from, to time.Time) ([]*models.Attendance, error)
}

type AttendanceService struct {
	Store AttendanceStore
}

func NewAttendanceService(store AttendanceStore) *AttendanceService {
	return &AttendanceService{Store: store}
}

// Upsert records attendance for a user on a day. Re-submitting the same
// (user, team, date) overwrites the earlier record instead of duplicating
// it, so marking twice is safe.
func (s *AttendanceService) Upsert(ctx context.Context, req *models.UpsertAttendanceRequest) (*models.Attendance, error) {
	if fields := validation.ValidateAttendanceUpsert(req); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, badInputf("date must be YYYY-MM-DD")
	}

	record := &models.Attendance{
		UserID: req.UserID,
		TeamID: req.TeamID,
		Date:   date,
		Status: req.Status,
		Notes:  req.Notes,
	}

	if req.CheckIn != "" {
		t, err := time.Parse(time.RFC3339, req.CheckIn)
		if err != nil {
			return nil, badInputf("check_in must be RFC3339")
		}
		record.CheckIn = &t
	}
	if req.CheckOut != "" {
		t, err := time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			return nil, badInputf("check_out must be RFC3339")
		}
		record.CheckOut = &t
	}
	if record.CheckIn != nil && record.CheckOut != nil && record.CheckOut.Before(*record.CheckIn) {
		return nil, badInputf("check_out cannot be before check_in")
	}

	if err := s.Store.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// TeamSheet returns the attendance sheet for one team on one day.
func (s *AttendanceService) TeamSheet(ctx context.Context, teamID int, date string) ([]*models.Attendance, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, badInputf("date must be YYYY-MM-DD")
	}
	return s.Store.ListByTeamAndDate(ctx, teamID, day)
}

// UserHistory returns one user's attendance between two days inclusive.
func (s *AttendanceService) UserHistory(ctx context.Context, userID int, from, to string) ([]*models.Attendance, error) {
	fromDay, err := timeutil.ParseDate(from)
	if err != nil {
		return nil, badInputf("from must be YYYY-MM-DD")
	}
	toDay, err := timeutil.ParseDate(to)
	if err != nil {
		return nil, badInputf("to must be YYYY-MM-DD")
	}
	if toDay.Before(fromDay) {
		return nil, badInputf("to cannot be before from")
	}
	return s.Store.ListByUser(ctx, userID, fromDay, toDay)
}
