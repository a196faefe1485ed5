package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/models"
)

// Presence thresholds for the compliance and banding reports.
const (
	WeeklyComplianceDays  = 4
	MonthlyComplianceDays = 16
)

// ComplianceReport counts employees meeting a presence threshold.
type ComplianceReport struct {
	Count      int     `json:"count"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// PresenceReport is the average-staff-per-day figure for the current month.
type PresenceReport struct {
	AvgPresence  float64 `json:"avg_presence"`
	DaysTracked  int     `json:"days_tracked"`
	TotalRecords int     `json:"total_records"`
}

// EmployeeStanding is one row of the monthly ranking.
type EmployeeStanding struct {
	EmployeeID  uint   `json:"employee_id"`
	Name        string `json:"name"`
	DaysPresent int    `json:"days_present"`
	Status      string `json:"status"`
}

// PeakDay is the busiest date within a trailing window.
type PeakDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ReportSummary bundles the dashboard figures.
type ReportSummary struct {
	Weekly   ComplianceReport   `json:"weekly"`
	Monthly  ComplianceReport   `json:"monthly"`
	Presence PresenceReport     `json:"presence"`
	Ranking  []EmployeeStanding `json:"ranking"`
	Peak     PeakDay            `json:"peak_day"`
}

type ReportService struct {
	cfg        *config.Config
	attendance *AttendanceService
	employees  *EmployeeService

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewReportService(cfg *config.Config) *ReportService {
	return &ReportService{
		cfg:        cfg,
		attendance: NewAttendanceService(cfg),
		employees:  NewEmployeeService(cfg),
		Now:        time.Now,
	}
}

// GetSummary recomputes the full report from the record history. Volumes are
// small (one row per person per day), so nothing is cached.
func (s *ReportService) GetSummary(peakWindowDays int) (*ReportSummary, error) {
	records, err := s.attendance.GetRecords("", "")
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.GetEmployees()
	if err != nil {
		return nil, err
	}

	now := s.Now()
	return &ReportSummary{
		Weekly:   WeeklyCompliance(records, employees, now),
		Monthly:  MonthlyCompliance(records, employees, now),
		Presence: AverageDailyPresence(records, now),
		Ranking:  MonthlyRanking(records, now),
		Peak:     PeakDayInWindow(records, now, peakWindowDays),
	}, nil
}

// WeeklyCompliance counts employees with records on at least four distinct
// dates in the trailing seven days.
func WeeklyCompliance(records []models.AttendanceRecord, employees []models.Employee, now time.Time) ComplianceReport {
	start := now.AddDate(0, 0, -7).Format(dateLayout)
	return compliance(records, employees, start, now.Format(dateLayout), WeeklyComplianceDays)
}

// MonthlyCompliance counts employees with records on at least sixteen
// distinct dates in the current calendar month.
func MonthlyCompliance(records []models.AttendanceRecord, employees []models.Employee, now time.Time) ComplianceReport {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	return compliance(records, employees, start, now.Format(dateLayout), MonthlyComplianceDays)
}

func compliance(records []models.AttendanceRecord, employees []models.Employee, start, end string, threshold int) ComplianceReport {
	known := make(map[uint]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
	}

	days := distinctDaysByEmployee(records, start, end)
	count := 0
	for id, dates := range days {
		if known[id] && len(dates) >= threshold {
			count++
		}
	}

	report := ComplianceReport{Count: count, Total: len(employees)}
	if report.Total > 0 {
		report.Percentage = round1(float64(count) / float64(report.Total) * 100)
	}
	return report
}

// AverageDailyPresence averages the number of distinct staff per tracked day
// over the current calendar month. Days with no records are not counted.
func AverageDailyPresence(records []models.AttendanceRecord, now time.Time) PresenceReport {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	end := now.Format(dateLayout)

	perDay := make(map[string]map[uint]bool)
	total := 0
	for _, r := range records {
		if r.IsGuest || r.EmployeeID == nil || r.Date < start || r.Date > end {
			continue
		}
		if perDay[r.Date] == nil {
			perDay[r.Date] = make(map[uint]bool)
		}
		perDay[r.Date][*r.EmployeeID] = true
		total++
	}

	report := PresenceReport{DaysTracked: len(perDay), TotalRecords: total}
	if len(perDay) == 0 {
		return report
	}

	sum := 0
	for _, staff := range perDay {
		sum += len(staff)
	}
	report.AvgPresence = round1(float64(sum) / float64(len(perDay)))
	return report
}

// MonthlyRanking lists employees by distinct days present this month,
// descending, with a status band per row.
func MonthlyRanking(records []models.AttendanceRecord, now time.Time) []EmployeeStanding {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	end := now.Format(dateLayout)

	days := distinctDaysByEmployee(records, start, end)
	names := make(map[uint]string)
	for _, r := range records {
		if !r.IsGuest && r.EmployeeID != nil {
			names[*r.EmployeeID] = r.EmployeeName
		}
	}

	ranking := make([]EmployeeStanding, 0, len(days))
	for id, dates := range days {
		ranking = append(ranking, EmployeeStanding{
			EmployeeID:  id,
			Name:        names[id],
			DaysPresent: len(dates),
			Status:      PresenceStatus(len(dates)),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].DaysPresent != ranking[j].DaysPresent {
			return ranking[i].DaysPresent > ranking[j].DaysPresent
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}

// PresenceStatus bands a monthly days-present count.
func PresenceStatus(daysPresent int) string {
	switch {
	case daysPresent >= 16:
		return "Excellent"
	case daysPresent >= 12:
		return "Good"
	case daysPresent >= 8:
		return "Fair"
	default:
		return "Low"
	}
}

// PeakDayInWindow finds the date with the most records in the trailing
// window (typically 7 or 30 days).
func PeakDayInWindow(records []models.AttendanceRecord, now time.Time, windowDays int) PeakDay {
	if windowDays <= 0 {
		windowDays = 30
	}
	start := now.AddDate(0, 0, -windowDays).Format(dateLayout)
	end := now.Format(dateLayout)

	counts := make(map[string]int)
	for _, r := range records {
		if r.Date >= start && r.Date <= end {
			counts[r.Date]++
		}
	}

	peak := PeakDay{}
	for date, count := range counts {
		if count > peak.Count || (count == peak.Count && date > peak.Date) {
			peak = PeakDay{Date: date, Count: count}
		}
	}
	return peak
}

// ExportCSV renders the HR analytics report. The layout mirrors the report
// the HR office is used to: summary statistics, monthly summary, the ranked
// per-employee breakdown and the staff with no records this month.
func (s *ReportService) ExportCSV() ([]byte, string, error) {
	records, err := s.attendance.GetRecords("", "")
	if err != nil {
		return nil, "", err
	}
	employees, err := s.employees.GetEmployees()
	if err != nil {
		return nil, "", err
	}

	now := s.Now()
	weekly := WeeklyCompliance(records, employees, now)
	monthly := MonthlyCompliance(records, employees, now)
	presence := AverageDailyPresence(records, now)
	ranking := MonthlyRanking(records, now)

	monthName := now.Month().String()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{fmt.Sprintf("HR Analytics Report - %s %d", monthName, now.Year())},
		{fmt.Sprintf("Generated on: %s", now.Format("2006-01-02 15:04:05"))},
		{},
		{"SUMMARY STATISTICS"},
		{fmt.Sprintf("Weekly Attendance (>= %d days/week)", WeeklyComplianceDays)},
		{"Staff Count", fmt.Sprintf("%d", weekly.Count)},
		{"Total Staff", fmt.Sprintf("%d", weekly.Total)},
		{"Percentage", fmt.Sprintf("%.1f%%", weekly.Percentage)},
		{},
		{fmt.Sprintf("Monthly Attendance (>= %d days in %s)", MonthlyComplianceDays, monthName)},
		{"Staff Count", fmt.Sprintf("%d", monthly.Count)},
		{"Total Staff", fmt.Sprintf("%d", monthly.Total)},
		{"Percentage", fmt.Sprintf("%.1f%%", monthly.Percentage)},
		{},
		{"Average Daily Presence"},
		{"Avg Staff/Day", fmt.Sprintf("%.1f", presence.AvgPresence)},
		{"Days Tracked", fmt.Sprintf("%d", presence.DaysTracked)},
		{"Total Attendance Records", fmt.Sprintf("%d", presence.TotalRecords)},
		{},
		{"MONTHLY SUMMARY"},
		{"Total Staff", fmt.Sprintf("%d", len(employees))},
		{"Staff with Records", fmt.Sprintf("%d", len(ranking))},
		{},
		{fmt.Sprintf("INDIVIDUAL EMPLOYEE ATTENDANCE - %s %d", monthName, now.Year())},
		{"Rank", "Employee Name", "Days Present", "Status"},
	}

	for i, standing := range ranking {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			standing.Name,
			fmt.Sprintf("%d", standing.DaysPresent),
			standing.Status,
		})
	}

	ranked := make(map[uint]bool, len(ranking))
	for _, standing := range ranking {
		ranked[standing.EmployeeID] = true
	}
	var absent []models.Employee
	for _, e := range employees {
		if !ranked[e.ID] {
			absent = append(absent, e)
		}
	}
	if len(absent) > 0 {
		rows = append(rows, []string{}, []string{fmt.Sprintf("STAFF WITH NO ATTENDANCE RECORDS - %s", monthName)}, []string{"Employee Name", "Staff Code"})
		for _, e := range absent {
			rows = append(rows, []string{e.Name, e.EmployeeID})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("hr_analytics_%s_%d_%s.csv", monthName, now.Year(), now.Format(dateLayout))
	return buf.Bytes(), filename, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func distinctDaysByEmployee(records []models.AttendanceRecord, start, end string) map[uint]map[string]bool {
	days := make(map[uint]map[string]bool)
	for _, r := range records {
		if r.IsGuest || r.EmployeeID == nil || r.Date < start || r.Date > end {
			continue
		}
		if days[*r.EmployeeID] == nil {
			days[*r.EmployeeID] = make(map[string]bool)
		}
		days[*r.EmployeeID][r.Date] = true
	}
	return days
}
