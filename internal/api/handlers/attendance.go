package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"campusgate/internal/config"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService *services.AttendanceService
	audit             *services.AuditService
}

func NewAttendanceHandler(cfg *config.Config) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: services.NewAttendanceService(cfg),
		audit:             services.NewAuditService(cfg),
	}
}

type CreateRecordRequest struct {
	EmployeeID   *uint  `json:"employee_id"`
	EmployeeName string `json:"employee_name" binding:"required"`
	Date         string `json:"date" binding:"required"`
	TimeIn       string `json:"time_in" binding:"required"`
	PlateNumber  string `json:"plate_number"`
	IsGuest      bool   `json:"is_guest"`
	GuestPurpose string `json:"guest_purpose"`
}

type SetExitRequest struct {
	TimeOut string `json:"time_out" binding:"required"`
}

type EntryRequestItem struct {
	EmployeeID  uint   `json:"employee_id" binding:"required"`
	HasCar      bool   `json:"has_car"`
	PlateNumber string `json:"plate_number"`
}

type EntryRequest struct {
	Entries []EntryRequestItem `json:"entries" binding:"required,min=1"`
}

type ExitRequest struct {
	EmployeeIDs []uint `json:"employee_ids" binding:"required,min=1"`
}

type GuestEntryRequest struct {
	Name        string `json:"name" binding:"required"`
	Purpose     string `json:"purpose"`
	PlateNumber string `json:"plate_number"`
}

// GetRecords returns attendance records, optionally bounded by ?startDate
// and ?endDate (inclusive, YYYY-MM-DD)
func (h *AttendanceHandler) GetRecords(c *gin.Context) {
	records, err := h.attendanceService.GetRecords(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get records", "details": err.Error()})
		return
	}

	c.JSON(200, records)
}

// CreateRecord inserts a raw attendance row without touching parking
func (h *AttendanceHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	record, err := h.attendanceService.CreateRecord(services.AttendanceData{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Date:         req.Date,
		TimeIn:       req.TimeIn,
		PlateNumber:  req.PlateNumber,
		IsGuest:      req.IsGuest,
		GuestPurpose: req.GuestPurpose,
	})
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, record)
}

// SetExitTime stamps an exit time on a record. Parking occupancy is owned by
// the entry/exit endpoints, not this edit.
func (h *AttendanceHandler) SetExitTime(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid record ID"})
		return
	}

	var req SetExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	record, err := h.attendanceService.SetExitTime(uint(id), req.TimeOut)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, record)
}

// DeleteRecord removes a record, freeing its parking space when the record
// is still open with a car on campus
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid record ID"})
		return
	}

	if err := h.attendanceService.DeleteRecord(uint(id)); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to delete record"})
		return
	}

	logAudit(c, h.audit, "attendance_delete", fmt.Sprintf("deleted record id %d", id))

	c.JSON(200, gin.H{"message": "Record deleted successfully"})
}

// MarkEntry registers a batch of staff arrivals. The whole batch is rejected
// when parking cannot fit every car in it.
func (h *AttendanceHandler) MarkEntry(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	items := make([]services.EntryItem, 0, len(req.Entries))
	for _, e := range req.Entries {
		items = append(items, services.EntryItem{
			EmployeeID:  e.EmployeeID,
			HasCar:      e.HasCar,
			PlateNumber: e.PlateNumber,
		})
	}

	result, err := h.attendanceService.MarkEntry(items)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientParking):
			c.JSON(409, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmployeeNotFound), errors.Is(err, services.ErrPlateRequired):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to mark entry"})
		}
		return
	}

	logAudit(c, h.audit, "attendance_entry", fmt.Sprintf("marked entry for %d staff, %d spaces allocated", len(result.Records), result.SpacesAllocated))

	c.JSON(200, gin.H{
		"records":          result.Records,
		"spaces_allocated": result.SpacesAllocated,
	})
}

// MarkExit closes today's open records for a batch of staff. Items that
// cannot be closed are reported per item instead of failing the batch.
func (h *AttendanceHandler) MarkExit(c *gin.Context) {
	var req ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.attendanceService.MarkExit(req.EmployeeIDs)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to mark exit"})
		return
	}

	logAudit(c, h.audit, "attendance_exit", fmt.Sprintf("marked exit for %d staff, %d spaces freed", len(result.Results), result.SpacesFreed))

	c.JSON(200, gin.H{
		"results":      result.Results,
		"spaces_freed": result.SpacesFreed,
	})
}

// GuestEntry registers a campus visitor
func (h *AttendanceHandler) GuestEntry(c *gin.Context) {
	var req GuestEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	record, err := h.attendanceService.GuestEntry(services.GuestEntryData{
		Name:        req.Name,
		Purpose:     req.Purpose,
		PlateNumber: req.PlateNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParkingFull):
			c.JSON(409, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrGuestNameRequired):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to register guest"})
		}
		return
	}

	logAudit(c, h.audit, "guest_entry", fmt.Sprintf("registered guest %q (record %d)", record.EmployeeName, record.ID))

	c.JSON(201, record)
}

// GuestExit closes a guest's visit
func (h *AttendanceHandler) GuestExit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid record ID"})
		return
	}

	record, err := h.attendanceService.GuestExit(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyCheckedOut):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to check out guest"})
		}
		return
	}

	logAudit(c, h.audit, "guest_exit", fmt.Sprintf("checked out guest %q (record %d)", record.EmployeeName, record.ID))

	c.JSON(200, record)
}
