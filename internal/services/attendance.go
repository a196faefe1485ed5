package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound      = errors.New("attendance record not found")
	ErrInsufficientParking = errors.New("not enough parking spaces")
	ErrParkingFull         = errors.New("no parking spaces available")
	ErrAlreadyCheckedOut   = errors.New("guest has already checked out")
	ErrGuestNameRequired   = errors.New("guest name is required")
	ErrPlateRequired       = errors.New("plate number is required when arriving by car")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// AttendanceData carries the writable fields of a raw attendance record.
type AttendanceData struct {
	EmployeeID   *uint
	EmployeeName string
	Date         string
	TimeIn       string
	PlateNumber  string
	IsGuest      bool
	GuestPurpose string
}

// EntryItem is one staff member in a bulk entry submission.
type EntryItem struct {
	EmployeeID  uint
	HasCar      bool
	PlateNumber string // optional override of the employee's default plate
}

// EntryResult reports the outcome of a bulk entry.
type EntryResult struct {
	Records         []models.AttendanceRecord
	SpacesAllocated int
}

// ExitItemResult reports one staff member's outcome in a bulk exit.
type ExitItemResult struct {
	EmployeeID   uint   `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Ok           bool   `json:"ok"`
	Reason       string `json:"reason,omitempty"`
}

// ExitResult reports the outcome of a bulk exit.
type ExitResult struct {
	Results     []ExitItemResult
	SpacesFreed int
}

// GuestEntryData carries a guest registration.
type GuestEntryData struct {
	Name        string
	Purpose     string
	PlateNumber string
}

type AttendanceService struct {
	cfg *config.Config

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewAttendanceService(cfg *config.Config) *AttendanceService {
	return &AttendanceService{cfg: cfg, Now: time.Now}
}

// GetRecords returns attendance records, optionally bounded by an inclusive
// date range, newest first.
func (s *AttendanceService) GetRecords(startDate, endDate string) ([]models.AttendanceRecord, error) {
	tx := models.DB.Model(&models.AttendanceRecord{})
	if startDate != "" {
		tx = tx.Where("date >= ?", startDate)
	}
	if endDate != "" {
		tx = tx.Where("date <= ?", endDate)
	}

	var records []models.AttendanceRecord
	if err := tx.Order("date DESC, time_in DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord inserts a raw attendance row. Entry/exit flows should go
// through MarkEntry/MarkExit instead; this is the plain CRUD surface.
func (s *AttendanceService) CreateRecord(data AttendanceData) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{
		EmployeeID:   data.EmployeeID,
		EmployeeName: data.EmployeeName,
		Date:         data.Date,
		TimeIn:       data.TimeIn,
		IsGuest:      data.IsGuest,
		GuestPurpose: data.GuestPurpose,
	}
	if data.PlateNumber != "" {
		plate := strings.ToUpper(data.PlateNumber)
		record.PlateNumber = &plate
	}

	if err := models.DB.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// SetExitTime closes a record by id. It has no parking side effect: occupancy
// is owned by MarkExit, GuestExit and DeleteRecord.
func (s *AttendanceService) SetExitTime(id uint, timeOut string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := models.DB.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	record.TimeOut = &timeOut
	if err := models.DB.Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord removes an attendance row. An open record with a plate still
// reserves a parking space, so deleting one frees that space in the same
// transaction.
func (s *AttendanceService) DeleteRecord(id uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var record models.AttendanceRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		if record.Open() && record.Plated() {
			parking, err := lockParking(tx)
			if err != nil {
				return err
			}
			parking.OccupiedSpaces = max(0, parking.OccupiedSpaces-1)
			if err := tx.Save(parking).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&record).Error
	})
}

// MarkEntry records arrival for a batch of staff. The whole batch is
// validated against free parking before anything is written; on success the
// occupancy counter moves once, in the same transaction as the records.
func (s *AttendanceService) MarkEntry(items []EntryItem) (*EntryResult, error) {
	now := s.Now()
	today := now.Format(dateLayout)
	timeIn := now.Format(timeLayout)

	result := &EntryResult{}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		parking, err := lockParking(tx)
		if err != nil {
			return err
		}

		type resolved struct {
			employee models.Employee
			existing *models.AttendanceRecord
			plate    string
		}
		batch := make([]resolved, 0, len(items))
		spacesNeeded := 0

		for _, item := range items {
			var employee models.Employee
			if err := tx.First(&employee, item.EmployeeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEmployeeNotFound
				}
				return err
			}

			plate := ""
			if item.HasCar {
				plate = strings.ToUpper(strings.TrimSpace(item.PlateNumber))
				if plate == "" {
					plate = strings.ToUpper(employee.VehiclePlateNumber)
				}
				if plate == "" {
					return fmt.Errorf("%w: %s", ErrPlateRequired, employee.Name)
				}
			}

			existing, err := openOrTodayRecord(tx, employee.ID, today)
			if err != nil {
				return err
			}

			// A space is needed unless the employee already holds one
			// through an open plated record.
			if item.HasCar && !(existing != nil && existing.Open() && existing.Plated()) {
				spacesNeeded++
			}

			batch = append(batch, resolved{employee: employee, existing: existing, plate: plate})
		}

		if spacesNeeded > parking.Available() {
			return ErrInsufficientParking
		}

		for _, r := range batch {
			if r.existing != nil {
				r.existing.TimeOut = nil
				if r.plate != "" {
					plate := r.plate
					r.existing.PlateNumber = &plate
				}
				if err := tx.Save(r.existing).Error; err != nil {
					return err
				}
				result.Records = append(result.Records, *r.existing)
				continue
			}

			empID := r.employee.ID
			record := models.AttendanceRecord{
				EmployeeID:   &empID,
				EmployeeName: r.employee.Name,
				Date:         today,
				TimeIn:       timeIn,
			}
			if r.plate != "" {
				plate := r.plate
				record.PlateNumber = &plate
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			result.Records = append(result.Records, record)
		}

		if spacesNeeded > 0 {
			parking.OccupiedSpaces += spacesNeeded
			if err := tx.Save(parking).Error; err != nil {
				return err
			}
		}
		result.SpacesAllocated = spacesNeeded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkExit records departure for a batch of staff. Unlike entry, missing
// open records are reported per item rather than failing the batch.
func (s *AttendanceService) MarkExit(employeeIDs []uint) (*ExitResult, error) {
	now := s.Now()
	today := now.Format(dateLayout)
	timeOut := now.Format(timeLayout)

	result := &ExitResult{}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		freed := 0
		for _, id := range employeeIDs {
			var employee models.Employee
			if err := tx.First(&employee, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Results = append(result.Results, ExitItemResult{
						EmployeeID: id, Ok: false, Reason: "employee not found",
					})
					continue
				}
				return err
			}

			var record models.AttendanceRecord
			err := tx.Where("employee_id = ? AND date = ? AND is_guest = ? AND time_out IS NULL", id, today, false).
				First(&record).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Results = append(result.Results, ExitItemResult{
						EmployeeID: id, EmployeeName: employee.Name, Ok: false, Reason: "no active entry",
					})
					continue
				}
				return err
			}

			record.TimeOut = &timeOut
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
			if record.Plated() {
				freed++
			}
			result.Results = append(result.Results, ExitItemResult{
				EmployeeID: id, EmployeeName: employee.Name, Ok: true,
			})
		}

		if freed > 0 {
			parking, err := lockParking(tx)
			if err != nil {
				return err
			}
			parking.OccupiedSpaces = max(0, parking.OccupiedSpaces-freed)
			if err := tx.Save(parking).Error; err != nil {
				return err
			}
		}
		result.SpacesFreed = freed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GuestEntry registers a visitor. A plated guest needs a free space up front;
// a guest on foot is admitted regardless of the lot state.
func (s *AttendanceService) GuestEntry(data GuestEntryData) (*models.AttendanceRecord, error) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return nil, ErrGuestNameRequired
	}

	now := s.Now()
	plate := strings.ToUpper(strings.TrimSpace(data.PlateNumber))

	var record models.AttendanceRecord
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		parking, err := lockParking(tx)
		if err != nil {
			return err
		}
		if plate != "" && parking.OccupiedSpaces >= parking.TotalSpaces {
			return ErrParkingFull
		}

		record = models.AttendanceRecord{
			EmployeeName: name,
			Date:         now.Format(dateLayout),
			TimeIn:       now.Format(timeLayout),
			IsGuest:      true,
			GuestPurpose: strings.TrimSpace(data.Purpose),
		}
		if plate != "" {
			record.PlateNumber = &plate
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if plate != "" {
			parking.OccupiedSpaces++
			if err := tx.Save(parking).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GuestExit closes a guest record by id.
func (s *AttendanceService) GuestExit(id uint) (*models.AttendanceRecord, error) {
	timeOut := s.Now().Format(timeLayout)

	var record models.AttendanceRecord
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_guest = ?", id, true).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if record.TimeOut != nil {
			return ErrAlreadyCheckedOut
		}

		record.TimeOut = &timeOut
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		if record.Plated() {
			parking, err := lockParking(tx)
			if err != nil {
				return err
			}
			parking.OccupiedSpaces = max(0, parking.OccupiedSpaces-1)
			if err := tx.Save(parking).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// openOrTodayRecord finds today's non-guest record for an employee. The open
// one wins when several exist so re-entry reuses it instead of duplicating.
func openOrTodayRecord(tx *gorm.DB, employeeID uint, date string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := tx.Where("employee_id = ? AND date = ? AND is_guest = ?", employeeID, date, false).
		Order("time_out IS NULL DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func lockParking(tx *gorm.DB) (*models.ParkingConfigRow, error) {
	var parking models.ParkingConfigRow
	if err := tx.Order("id").First(&parking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParkingNotFound
		}
		return nil, err
	}
	return &parking, nil
}
