package main

import (
	"fmt"
	"net/http"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/config"
	appHTTP "github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/handler/http"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/database"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/jwt"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/repository/postgresql"
	payrollService "github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/service/payroll"
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

	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
