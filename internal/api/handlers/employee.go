package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"campusgate/internal/config"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
	audit           *services.AuditService
}

func NewEmployeeHandler(cfg *config.Config) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: services.NewEmployeeService(cfg),
		audit:           services.NewAuditService(cfg),
	}
}

type EmployeeRequest struct {
	Name               string `json:"name" binding:"required"`
	EmployeeID         string `json:"employee_id" binding:"required"`
	Department         string `json:"department"`
	Position           string `json:"position"`
	VehiclePlateNumber string `json:"vehicle_plate_number"`
}

func (r EmployeeRequest) data() services.EmployeeData {
	return services.EmployeeData{
		Name:               r.Name,
		EmployeeID:         r.EmployeeID,
		Department:         r.Department,
		Position:           r.Position,
		VehiclePlateNumber: r.VehiclePlateNumber,
	}
}

// GetEmployees returns all employees
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.employeeService.GetEmployees()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get employees", "details": err.Error()})
		return
	}

	c.JSON(200, employees)
}

// GetEmployee returns a specific employee
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid employee ID"})
		return
	}

	employee, err := h.employeeService.GetEmployee(uint(id))
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, employee)
}

// CreateEmployee registers a new staff member
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	employee, err := h.employeeService.CreateEmployee(req.data())
	if err != nil {
		if errors.Is(err, services.ErrEmployeeExists) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create employee"})
		return
	}

	logAudit(c, h.audit, "employee_create", fmt.Sprintf("registered %s (%s)", employee.Name, employee.EmployeeID))

	c.JSON(201, employee)
}

// UpdateEmployee updates a staff member's details
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid employee ID"})
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	employee, err := h.employeeService.UpdateEmployee(uint(id), req.data())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmployeeExists):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to update employee"})
		}
		return
	}

	logAudit(c, h.audit, "employee_update", fmt.Sprintf("updated %s (%s)", employee.Name, employee.EmployeeID))

	c.JSON(200, employee)
}

// DeleteEmployee removes a staff member and their attendance history
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid employee ID"})
		return
	}

	if err := h.employeeService.DeleteEmployee(uint(id)); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to delete employee"})
		return
	}

	logAudit(c, h.audit, "employee_delete", fmt.Sprintf("deleted employee id %d", id))

	c.JSON(200, gin.H{"message": "Employee deleted successfully"})
}
