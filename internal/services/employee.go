package services

import (
	"errors"
	"strings"

	"campusgate/internal/config"
	"campusgate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeExists   = errors.New("employee ID already exists")
)

// EmployeeData carries the writable employee fields.
type EmployeeData struct {
	Name               string
	EmployeeID         string
	Department         string
	Position           string
	VehiclePlateNumber string
}

type EmployeeService struct {
	cfg *config.Config
}

func NewEmployeeService(cfg *config.Config) *EmployeeService {
	return &EmployeeService{cfg: cfg}
}

// GetEmployees returns all employees ordered by name.
func (s *EmployeeService) GetEmployees() ([]models.Employee, error) {
	var employees []models.Employee
	if err := models.DB.Order("name").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee returns a single employee by ID.
func (s *EmployeeService) GetEmployee(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := models.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// CreateEmployee creates an employee, rejecting duplicate staff codes.
func (s *EmployeeService) CreateEmployee(data EmployeeData) (*models.Employee, error) {
	var existing models.Employee
	if err := models.DB.Where("employee_id = ?", data.EmployeeID).First(&existing).Error; err == nil {
		return nil, ErrEmployeeExists
	}

	employee := &models.Employee{
		Name:               data.Name,
		EmployeeID:         data.EmployeeID,
		Department:         data.Department,
		Position:           data.Position,
		VehiclePlateNumber: strings.ToUpper(data.VehiclePlateNumber),
	}

	if err := models.DB.Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployee replaces the writable fields of an employee.
func (s *EmployeeService) UpdateEmployee(id uint, data EmployeeData) (*models.Employee, error) {
	var employee models.Employee
	if err := models.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if data.EmployeeID != employee.EmployeeID {
		var existing models.Employee
		if err := models.DB.Where("employee_id = ? AND id != ?", data.EmployeeID, id).First(&existing).Error; err == nil {
			return nil, ErrEmployeeExists
		}
	}

	employee.Name = data.Name
	employee.EmployeeID = data.EmployeeID
	employee.Department = data.Department
	employee.Position = data.Position
	employee.VehiclePlateNumber = strings.ToUpper(data.VehiclePlateNumber)

	if err := models.DB.Save(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// DeleteEmployee removes an employee and cascades to its attendance records.
// The explicit delete keeps sqlite deployments correct even when foreign key
// enforcement is off.
func (s *EmployeeService) DeleteEmployee(id uint) error {
	var employee models.Employee
	if err := models.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employee).Error
	})
}
