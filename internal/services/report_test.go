package services

import (
	"strings"
	"testing"
	"time"

	"campusgate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffRecord(employeeID uint, name, date string) models.AttendanceRecord {
	id := employeeID
	return models.AttendanceRecord{
		EmployeeID:   &id,
		EmployeeName: name,
		Date:         date,
		TimeIn:       "08:00:00",
	}
}

func TestWeeklyCompliance(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	employees := []models.Employee{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}

	records := []models.AttendanceRecord{
		// Alice: four distinct days in the trailing week
		staffRecord(1, "Alice", "2026-08-25"),
		staffRecord(1, "Alice", "2026-08-26"),
		staffRecord(1, "Alice", "2026-08-27"),
		staffRecord(1, "Alice", "2026-08-28"),
		// Bob: three days, one of them outside the window
		staffRecord(2, "Bob", "2026-08-20"),
		staffRecord(2, "Bob", "2026-08-27"),
		staffRecord(2, "Bob", "2026-08-28"),
	}

	report := WeeklyCompliance(records, employees, now)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 50.0, report.Percentage)
}

func TestWeeklyComplianceIgnoresUnknownAndGuestRecords(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	employees := []models.Employee{{ID: 1, Name: "Alice"}}

	records := []models.AttendanceRecord{
		// records of a deleted employee never push the count past the roster
		staffRecord(7, "Ghost", "2026-08-25"),
		staffRecord(7, "Ghost", "2026-08-26"),
		staffRecord(7, "Ghost", "2026-08-27"),
		staffRecord(7, "Ghost", "2026-08-28"),
		{EmployeeName: "Visitor", Date: "2026-08-28", TimeIn: "09:00:00", IsGuest: true},
	}

	report := WeeklyCompliance(records, employees, now)
	assert.Equal(t, 0, report.Count)
	assert.Equal(t, 1, report.Total)
}

func TestMonthlyCompliance(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	employees := []models.Employee{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}

	var records []models.AttendanceRecord
	// Alice: 16 days this month, Bob: 15
	for day := 1; day <= 16; day++ {
		date := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		records = append(records, staffRecord(1, "Alice", date))
		if day <= 15 {
			records = append(records, staffRecord(2, "Bob", date))
		}
	}

	report := MonthlyCompliance(records, employees, now)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 50.0, report.Percentage)
}

func TestAverageDailyPresence(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	records := []models.AttendanceRecord{
		// two staff on the first day, one on the second
		staffRecord(1, "Alice", "2026-08-10"),
		staffRecord(2, "Bob", "2026-08-10"),
		staffRecord(1, "Alice", "2026-08-11"),
		// outside the month
		staffRecord(1, "Alice", "2026-07-30"),
	}

	report := AverageDailyPresence(records, now)
	assert.Equal(t, 1.5, report.AvgPresence)
	assert.Equal(t, 2, report.DaysTracked)
	assert.Equal(t, 3, report.TotalRecords)
}

func TestMonthlyRanking(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	var records []models.AttendanceRecord
	add := func(id uint, name string, days int) {
		for day := 1; day <= days; day++ {
			date := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			records = append(records, staffRecord(id, name, date))
		}
	}
	add(1, "Alice", 18)
	add(2, "Bob", 12)
	add(3, "Carol", 9)
	add(4, "Dave", 3)

	ranking := MonthlyRanking(records, now)
	require.Len(t, ranking, 4)

	assert.Equal(t, "Alice", ranking[0].Name)
	assert.Equal(t, "Excellent", ranking[0].Status)
	assert.Equal(t, "Good", ranking[1].Status)
	assert.Equal(t, "Fair", ranking[2].Status)
	assert.Equal(t, "Low", ranking[3].Status)
}

func TestPresenceStatusBands(t *testing.T) {
	assert.Equal(t, "Excellent", PresenceStatus(16))
	assert.Equal(t, "Good", PresenceStatus(12))
	assert.Equal(t, "Fair", PresenceStatus(8))
	assert.Equal(t, "Low", PresenceStatus(7))
	assert.Equal(t, "Low", PresenceStatus(0))
}

func TestPeakDayInWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	records := []models.AttendanceRecord{
		staffRecord(1, "Alice", "2026-08-30"),
		staffRecord(2, "Bob", "2026-08-30"),
		staffRecord(3, "Carol", "2026-08-30"),
		staffRecord(1, "Alice", "2026-08-29"),
		// heavy day outside the 7-day window
		staffRecord(1, "Alice", "2026-08-01"),
		staffRecord(2, "Bob", "2026-08-01"),
		staffRecord(3, "Carol", "2026-08-01"),
		staffRecord(4, "Dave", "2026-08-01"),
	}

	peak := PeakDayInWindow(records, now, 7)
	assert.Equal(t, "2026-08-30", peak.Date)
	assert.Equal(t, 3, peak.Count)

	peak = PeakDayInWindow(records, now, 30)
	assert.Equal(t, "2026-08-01", peak.Date)
	assert.Equal(t, 4, peak.Count)
}

func TestReportSummaryAndExport(t *testing.T) {
	cfg := setupTestDB(t, 10)
	defer cleanupTestDB(t, cfg)

	alice := createTestEmployee(t, cfg, "Alice", "EMP-001", "")
	createTestEmployee(t, cfg, "Bob", "EMP-002", "")

	attendance := NewAttendanceService(cfg)
	for day := 25; day <= 28; day++ {
		id := alice.ID
		_, err := attendance.CreateRecord(AttendanceData{
			EmployeeID:   &id,
			EmployeeName: alice.Name,
			Date:         time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			TimeIn:       "08:00:00",
		})
		require.NoError(t, err)
	}

	svc := NewReportService(cfg)
	svc.Now = fixedClock(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	summary, err := svc.GetSummary(7)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Weekly.Count)
	assert.Equal(t, 2, summary.Weekly.Total)
	assert.Equal(t, 0, summary.Monthly.Count)
	require.Len(t, summary.Ranking, 1)
	assert.Equal(t, "Low", summary.Ranking[0].Status)

	data, filename, err := svc.ExportCSV()
	require.NoError(t, err)
	assert.Contains(t, filename, "hr_analytics_August_2026")

	csv := string(data)
	assert.Contains(t, csv, "SUMMARY STATISTICS")
	assert.Contains(t, csv, "Alice")
	// Bob has no records this month and lands in the no-records section
	assert.True(t, strings.Contains(csv, "STAFF WITH NO ATTENDANCE RECORDS"))
	assert.Contains(t, csv, "EMP-002")
}
