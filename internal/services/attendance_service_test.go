package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"desynflow-backend/internal/models"
)

func TestAttendanceUpsertIsIdempotent(t *testing.T) {
	store := newFakeAttendance()
	svc := NewAttendanceService(store)

	req := &models.UpsertAttendanceRequest{
		UserID: 3,
		TeamID: 1,
		Date:   "2026-04-02",
		Status: models.AttendancePresent,
	}

	first, err := svc.Upsert(context.Background(), req)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Second submission for the same (user, team, date) corrects the
	// record instead of duplicating it.
	req.Status = models.AttendanceLate
	second, err := svc.Upsert(context.Background(), req)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second upsert created new record: id %d vs %d", second.ID, first.ID)
	}

	sheet, _ := svc.TeamSheet(context.Background(), 1, "2026-04-02")
	if len(sheet) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sheet))
	}
	if sheet[0].Status != models.AttendanceLate {
		t.Errorf("status = %q, want late", sheet[0].Status)
	}
}

func TestAttendanceRejectsUnknownStatus(t *testing.T) {
	svc := NewAttendanceService(newFakeAttendance())

	_, err := svc.Upsert(context.Background(), &models.UpsertAttendanceRequest{
		UserID: 3,
		TeamID: 1,
		Date:   "2026-04-02",
		Status: "vacationing",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttendanceCheckOutBeforeCheckIn(t *testing.T) {
	svc := NewAttendanceService(newFakeAttendance())

	checkIn := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(-time.Hour)

	_, err := svc.Upsert(context.Background(), &models.UpsertAttendanceRequest{
		UserID:   3,
		TeamID:   1,
		Date:     "2026-04-02",
		Status:   models.AttendancePresent,
		CheckIn:  checkIn.Format(time.RFC3339),
		CheckOut: checkOut.Format(time.RFC3339),
	})
	if err == nil {
		t.Fatal("expected error for check_out before check_in")
	}
}

func TestAttendanceHistoryRange(t *testing.T) {
	store := newFakeAttendance()
	svc := NewAttendanceService(store)

	for _, date := range []string{"2026-04-01", "2026-04-02", "2026-04-10"} {
		if _, err := svc.Upsert(context.Background(), &models.UpsertAttendanceRequest{
			UserID: 3, TeamID: 1, Date: date, Status: models.AttendancePresent,
		}); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	history, err := svc.UserHistory(context.Background(), 3, "2026-04-01", "2026-04-05")
	if err != nil {
		t.Fatalf("UserHistory: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 records in range, got %d", len(history))
	}

	if _, err := svc.UserHistory(context.Background(), 3, "2026-04-05", "2026-04-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}
