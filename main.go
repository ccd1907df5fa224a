package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"propfolio-cloud/internal/audit"
	"propfolio-cloud/internal/auth"
	billingapp "propfolio-cloud/internal/billing/application"
	billingrepo "propfolio-cloud/internal/billing/infrastructure/postgres"
	billinghttp "propfolio-cloud/internal/billing/interfaces/http"
	expenseapp "propfolio-cloud/internal/expenses/application"
	expenserepo "propfolio-cloud/internal/expenses/infrastructure/postgres"
	expenseshttp "propfolio-cloud/internal/expenses/interfaces/http"
	"propfolio-cloud/internal/observability/metrics"
	portfoliorepo "propfolio-cloud/internal/portfolio/infrastructure/postgres"
	portfoliohttp "propfolio-cloud/internal/portfolio/interfaces/http"
	rentrollapp "propfolio-cloud/internal/rentroll/application"
	rentrollhttp "propfolio-cloud/internal/rentroll/interfaces/http"
	reportsapp "propfolio-cloud/internal/reports/application"
	reportsrepo "propfolio-cloud/internal/reports/infrastructure/postgres"
	reportshttp "propfolio-cloud/internal/reports/interfaces/http"
	"propfolio-cloud/internal/scheduler"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	billingCfg, err := billingapp.LoadConfig()
	if err != nil {
		logger.Fatalf("billing config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	ownerChecker := auth.NewOwnerChecker(db)
	auditRepo := audit.NewRepository(db)
	clock := systemClock{}

	leaseRepo := billingrepo.NewLeaseRepository(db)
	recurringRepo := billingrepo.NewRecurringChargeRepository(db)
	chargeRepo := billingrepo.NewChargeRepository(db)
	paymentRepo := billingrepo.NewPaymentRepository(db)
	lateFeeConfigRepo := billingrepo.NewLateFeeConfigRepository(db)
	snapshotRepo := billingrepo.NewAgingSnapshotRepository(db)

	propertyRepo := portfoliorepo.NewPropertyRepository(db)
	unitRepo := portfoliorepo.NewUnitRepository(db)
	inviteRepo := portfoliorepo.NewInviteRepository(db)

	expenseRepo := expenserepo.NewRepository(db)
	reportReader := reportsrepo.NewReader(db)

	chargeService, err := billingapp.NewChargeService(leaseRepo, recurringRepo, chargeRepo, clock, logger)
	if err != nil {
		logger.Fatalf("charge service error: %v", err)
	}
	defaultPolicy, err := billingCfg.DefaultLateFeePolicy()
	if err != nil {
		logger.Fatalf("late fee policy error: %v", err)
	}
	lateFeeService, err := billingapp.NewLateFeeService(chargeRepo, lateFeeConfigRepo, defaultPolicy, clock, logger)
	if err != nil {
		logger.Fatalf("late fee service error: %v", err)
	}
	agingService, err := billingapp.NewAgingService(chargeRepo, paymentRepo, snapshotRepo)
	if err != nil {
		logger.Fatalf("aging service error: %v", err)
	}

	rentRollService, err := rentrollapp.NewService(propertyRepo, unitRepo, inviteRepo, leaseRepo, agingService, clock, logger)
	if err != nil {
		logger.Fatalf("rent roll service error: %v", err)
	}
	companyService, err := reportsapp.NewCompanyService(reportReader, expenseRepo, logger)
	if err != nil {
		logger.Fatalf("company report service error: %v", err)
	}
	ownerService, err := reportsapp.NewOwnerService(propertyRepo, reportReader, reportReader, expenseRepo, logger)
	if err != nil {
		logger.Fatalf("owner report service error: %v", err)
	}
	propertyService, err := reportsapp.NewPropertyService(propertyRepo, unitRepo, leaseRepo, reportReader, expenseRepo, logger)
	if err != nil {
		logger.Fatalf("property report service error: %v", err)
	}
	summaryService, err := reportsapp.NewSummaryService(propertyRepo, unitRepo, leaseRepo, reportReader, logger)
	if err != nil {
		logger.Fatalf("summary service error: %v", err)
	}
	importService, err := expenseapp.NewImportService(expenseRepo, clock, logger)
	if err != nil {
		logger.Fatalf("expense import service error: %v", err)
	}

	billingHandler, err := billinghttp.NewHandler(chargeService, lateFeeService, billingCfg.CronSecret, auditRepo)
	if err != nil {
		logger.Fatalf("billing handler error: %v", err)
	}
	rentRollHandler, err := rentrollhttp.NewHandler(rentRollService)
	if err != nil {
		logger.Fatalf("rent roll handler error: %v", err)
	}
	reportsHandler, err := reportshttp.NewHandler(companyService, ownerService, propertyService, ownerChecker, clock)
	if err != nil {
		logger.Fatalf("reports handler error: %v", err)
	}
	propertiesHandler, err := portfoliohttp.NewHandler(rentRollService, summaryService, ownerChecker, clock)
	if err != nil {
		logger.Fatalf("properties handler error: %v", err)
	}
	expensesHandler, err := expenseshttp.NewHandler(importService, auditRepo)
	if err != nil {
		logger.Fatalf("expenses handler error: %v", err)
	}

	jobs, err := scheduler.New(chargeService, lateFeeService, logger)
	if err != nil {
		logger.Fatalf("scheduler error: %v", err)
	}
	if err := jobs.Start(billingCfg.Schedule.GenerateCharges, billingCfg.Schedule.ApplyLateFees); err != nil {
		logger.Fatalf("scheduler start error: %v", err)
	}
	defer jobs.Stop()

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, []string{"/api/v1/billing/"})
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/billing/", billingHandler)
	mux.Handle("/api/v1/rent-roll", rentRollHandler)
	mux.Handle("/api/v1/rent-roll/", rentRollHandler)
	mux.Handle("/api/v1/properties/", propertiesHandler)
	mux.Handle("/api/v1/reports/", reportsHandler)
	mux.Handle("/api/v1/expenses/", expensesHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
