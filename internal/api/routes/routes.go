package routes

import (
  "campusgate/internal/api/handlers"
  "campusgate/internal/api/middleware"
  "campusgate/internal/config"
  "campusgate/internal/services"

  "github.com/gin-gonic/gin"
  "github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
  // Initialize services
  authService := services.NewAuthService(cfg)
  auditService := services.NewAuditService(cfg)

  // Initialize handlers
  authHandler := handlers.NewAuthHandler(authService, auditService, cfg)
  userHandler := handlers.NewUserHandler(cfg)
  employeeHandler := handlers.NewEmployeeHandler(cfg)
  attendanceHandler := handlers.NewAttendanceHandler(cfg)
  parkingHandler := handlers.NewParkingHandler(cfg)
  reportHandler := handlers.NewReportHandler(cfg)
  auditHandler := handlers.NewAuditHandler(auditService)

  // Middleware
  r.Use(middleware.CORS())
  r.Use(middleware.RequestID())
  r.Use(middleware.Metrics())
  if cfg.Security.RateLimit.Enabled {
    limit := cfg.Security.RateLimit.RequestsPerMinute
    r.Use(middleware.NewTokenBucket(limit, limit).Middleware())
  }

  r.GET("/metrics", gin.WrapH(promhttp.Handler()))

  // Public routes
  api := r.Group("/api")
  {
    api.GET("/health", func(c *gin.Context) {
      c.JSON(200, gin.H{
        "status":  "ok",
        "message": "CampusGate API is running",
      })
    })

    // Auth routes (public)
    auth := api.Group("/auth")
    {
      auth.POST("/login", authHandler.Login)
    }
  }

  // Protected routes
  protected := api.Group("")
  protected.Use(middleware.AuthMiddleware(authService))
  {
    // Auth routes (protected)
    protected.POST("/auth/logout", authHandler.Logout)
    protected.GET("/auth/me", authHandler.GetMe)

    // User management routes (admin only)
    users := protected.Group("/users")
    users.Use(middleware.RequireRole("admin"))
    {
      users.GET("", userHandler.GetUsers)
      users.GET("/:id", userHandler.GetUser)
      users.POST("", userHandler.CreateUser)
      users.POST("/:id/reset-password", userHandler.ResetPassword)
      users.DELETE("/:id", userHandler.DeleteUser)
    }

    // Employee routes; every role can browse the roster, HR maintains it
    employees := protected.Group("/employees")
    {
      employees.GET("", employeeHandler.GetEmployees)
      employees.GET("/:id", employeeHandler.GetEmployee)
      employees.POST("", middleware.RequireRole("hr", "admin"), employeeHandler.CreateEmployee)
      employees.PUT("/:id", middleware.RequireRole("hr", "admin"), employeeHandler.UpdateEmployee)
      employees.DELETE("/:id", middleware.RequireRole("hr", "admin"), employeeHandler.DeleteEmployee)
    }

    // Attendance routes; the gate staff drive entry and exit
    attendance := protected.Group("/attendance")
    {
      attendance.GET("", attendanceHandler.GetRecords)
      attendance.POST("", middleware.RequireRole("security", "hr", "admin"), attendanceHandler.CreateRecord)
      attendance.PUT("/:id", middleware.RequireRole("security", "hr", "admin"), attendanceHandler.SetExitTime)
      attendance.DELETE("/:id", middleware.RequireRole("security", "hr", "admin"), attendanceHandler.DeleteRecord)
      attendance.POST("/entry", middleware.RequireRole("security", "admin"), attendanceHandler.MarkEntry)
      attendance.POST("/exit", middleware.RequireRole("security", "admin"), attendanceHandler.MarkExit)
      attendance.POST("/guest", middleware.RequireRole("security", "admin"), attendanceHandler.GuestEntry)
      attendance.POST("/guests/:id/exit", middleware.RequireRole("security", "admin"), attendanceHandler.GuestExit)
    }

    // Parking routes
    parking := protected.Group("/parking")
    {
      parking.GET("", parkingHandler.GetConfig)
      parking.PUT("", middleware.RequireRole("security", "admin"), parkingHandler.UpdateConfig)
    }

    // Reporting routes
    reports := protected.Group("/reports")
    reports.Use(middleware.RequireRole("hr", "dean", "admin"))
    {
      reports.GET("/summary", reportHandler.GetSummary)
      reports.GET("/export", reportHandler.ExportCSV)
    }

    // Audit log routes (admin only)
    logs := protected.Group("/logs")
    logs.Use(middleware.RequireRole("admin"))
    {
      logs.GET("", auditHandler.GetLogs)
    }
  }
}
