package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/config"
	appHTTP "github.com/AMRWERY/Employees-System-Management-ESM/internal/handler/http"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/jwt"
	employeeService "github.com/AMRWERY/Employees-System-Management-ESM/internal/service/employee"
	leaveService "github.com/AMRWERY/Employees-System-Management-ESM/internal/service/leave"
	payrollService "github.com/AMRWERY/Employees-System-Management-ESM/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := docstore.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	store := docstore.NewPostgresStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		fmt.Println("Error preparing document store schema:", err)
		return
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	ident := identity.NewJWTIdentity()

	strategy, err := leaveService.NewBalanceStrategy(cfg.Leave.BalanceStrategy, store, cfg.Leave.AnnualAllowance)
	if err != nil {
		fmt.Println("Error configuring balance strategy:", err)
		return
	}

	payrollSvc := payrollService.NewPayrollService(store, ident)
	leaveSvc := leaveService.NewLeaveService(store, ident, cfg.Leave.AnnualAllowance, strategy)
	employeeSvc := employeeService.NewEmployeeService(store)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc, ident)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		leaveHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
