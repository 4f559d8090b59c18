package main

import (
	"fmt"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/config"
	appHTTP "github.com/avantix/ttw-backend-go/internal/handler/http"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/avantix/ttw-backend-go/internal/pkg/jwt"
	"github.com/avantix/ttw-backend-go/internal/pkg/whatsapp"
	"github.com/avantix/ttw-backend-go/internal/repository/postgresql"
	authService "github.com/avantix/ttw-backend-go/internal/service/auth"
	businessService "github.com/avantix/ttw-backend-go/internal/service/business"
	employeeService "github.com/avantix/ttw-backend-go/internal/service/employee"
	payimportService "github.com/avantix/ttw-backend-go/internal/service/payimport"
	payrollService "github.com/avantix/ttw-backend-go/internal/service/payroll"
	timelogService "github.com/avantix/ttw-backend-go/internal/service/timelog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	businessRepo := postgresql.NewBusinessRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	timeLogRepo := postgresql.NewTimeLogRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	sender := whatsapp.NewGatewayClient(cfg.WhatsApp)

	authSvc := authService.NewAuthService(userRepo, employeeRepo, businessRepo, JWTService)
	businessSvc := businessService.NewBusinessService(businessRepo)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, timeLogRepo)
	timeLogSvc := timelogService.NewTimeLogService(db, timeLogRepo, employeeRepo, sender)
	payrollSvc := payrollService.NewPayrollService(db, paymentRepo, timeLogRepo, employeeRepo, businessRepo, sender)
	importSvc := payimportService.NewImportService(db, employeeRepo, paymentRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc, JWTService)
	businessHandler := appHTTP.NewBusinessHandler(businessSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	timeLogHandler := appHTTP.NewTimeLogHandler(timeLogSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	importHandler := appHTTP.NewImportHandler(importSvc)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		authHandler,
		businessHandler,
		employeeHandler,
		timeLogHandler,
		payrollHandler,
		importHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
