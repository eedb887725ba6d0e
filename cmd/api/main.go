package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kerjapoint/attendance-backend-go/internal/config"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/schedule"
	appHTTP "github.com/kerjapoint/attendance-backend-go/internal/handler/http"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/clock"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/cron"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/database"
	"github.com/kerjapoint/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kerjapoint/attendance-backend-go/internal/service/attendance"
	"github.com/kerjapoint/attendance-backend-go/internal/service/autocheckout"
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

	defaultLocation, err := time.LoadLocation(cfg.Attendance.DefaultTimezone)
	if err != nil {
		log.Fatal("Invalid DEFAULT_TIMEZONE: ", cfg.Attendance.DefaultTimezone)
	}

	sessionRepo := postgresql.NewSessionRepository(db)
	outletRepo := postgresql.NewOutletRepository(db)
	auditSink := postgresql.NewAuditSink(db)

	resolver := schedule.NewResolver(defaultLocation)
	systemClock := clock.System()

	attendanceSvc := attendanceService.NewAttendanceService(
		sessionRepo,
		outletRepo,
		resolver,
		systemClock,
		auditSink,
	)
	autoCheckoutRunner := autocheckout.NewRunner(
		sessionRepo,
		outletRepo,
		resolver,
		systemClock,
		auditSink,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(autoCheckoutRunner, cfg.Attendance.AutoCheckoutInterval)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	jobsHandler := appHTTP.NewJobsHandler(autoCheckoutRunner)

	router := appHTTP.NewRouter(
		attendanceHandler,
		jobsHandler,
		cfg.App.Env,
		cfg.App.CORSOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	_ = server.Close()
}
