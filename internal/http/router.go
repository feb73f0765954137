package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qc-backend/internal/handlers"
	"qc-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	shiftHandler *handlers.ShiftHandler,
	controlHandler *handlers.ControlRecordHandler,
	cardHandler *handlers.CardHandler,
	defectHandler *handlers.DefectHandler,
	controllerHandler *handlers.ControllerHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/ready", healthHandler.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Shifts
	api.HandleFunc("/shifts", shiftHandler.CreateShift).Methods("POST")
	api.HandleFunc("/shifts", shiftHandler.ListShifts).Methods("GET")
	api.HandleFunc("/shifts/current", shiftHandler.GetCurrentShift).Methods("GET")
	api.HandleFunc("/shifts/validate", shiftHandler.ValidateShift).Methods("POST")
	api.HandleFunc("/shifts/auto-close", shiftHandler.AutoClose).Methods("POST")
	api.HandleFunc("/shifts/{id:[0-9]+}", shiftHandler.GetShift).Methods("GET")
	api.HandleFunc("/shifts/{id:[0-9]+}/close", shiftHandler.CloseShift).Methods("POST")
	api.HandleFunc("/shifts/{id:[0-9]+}/statistics", shiftHandler.GetStatistics).Methods("GET")
	api.HandleFunc("/shifts/{id:[0-9]+}/report", reportHandler.GetShiftReport).Methods("GET")
	api.HandleFunc("/shifts/{id:[0-9]+}/records", controlHandler.ListByShift).Methods("GET")

	// Control records
	api.HandleFunc("/control-records", controlHandler.SaveRecord).Methods("POST")
	api.HandleFunc("/control-records/{id:[0-9]+}/defects", controlHandler.GetRecordDefects).Methods("GET")
	api.HandleFunc("/control-records/{id:[0-9]+}", controlHandler.DeleteRecord).Methods("DELETE")
	api.HandleFunc("/control/validate", controlHandler.ValidateControl).Methods("POST")
	api.HandleFunc("/control/calculate", controlHandler.CalculateMetrics).Methods("POST")

	// Route cards
	api.HandleFunc("/cards/qr-scan", cardHandler.QRScan).Methods("POST")
	api.HandleFunc("/cards/{number}", cardHandler.SearchCard).Methods("GET")

	// Defect catalog
	api.HandleFunc("/defects/types", defectHandler.GetTypes).Methods("GET")

	// Controllers
	api.HandleFunc("/controllers", controllerHandler.List).Methods("GET")
	api.HandleFunc("/controllers", controllerHandler.Add).Methods("POST")
	api.HandleFunc("/controllers/{id:[0-9]+}/toggle-active", controllerHandler.ToggleActive).Methods("PATCH")
	api.HandleFunc("/controllers/{id:[0-9]+}", controllerHandler.Delete).Methods("DELETE")

	return r
}
