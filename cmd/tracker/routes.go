package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getaudit "casting-tracker/http-server/audit/get"
	"casting-tracker/http-server/auth/login"
	"casting-tracker/http-server/auth/logout"
	generate_excel "casting-tracker/http-server/generate-report/generate-excel"
	deloperator "casting-tracker/http-server/operators/delete"
	getoperator "casting-tracker/http-server/operators/get"
	saveoperator "casting-tracker/http-server/operators/save"
	upoperator "casting-tracker/http-server/operators/update"
	"casting-tracker/http-server/production/completion"
	"casting-tracker/http-server/production/counts"
	"casting-tracker/http-server/production/preparation"
	"casting-tracker/http-server/production/sessions"
	"casting-tracker/http-server/production/timer"
	"casting-tracker/http-server/production/totals"
	delrawmaterial "casting-tracker/http-server/raw-materials/delete"
	getrawmaterial "casting-tracker/http-server/raw-materials/get"
	saverawmaterial "casting-tracker/http-server/raw-materials/save"
	uprawmaterial "casting-tracker/http-server/raw-materials/update"
	"casting-tracker/http-server/reports/metrics"
	time_report "casting-tracker/http-server/reports/time-report"
	delservice "casting-tracker/http-server/services/delete"
	getservice "casting-tracker/http-server/services/get"
	servicematerials "casting-tracker/http-server/services/raw-materials"
	saveservice "casting-tracker/http-server/services/save"
	upservice "casting-tracker/http-server/services/update"
	"casting-tracker/http-server/status"
	deluser "casting-tracker/http-server/users/delete"
	getuser "casting-tracker/http-server/users/get"
	saveuser "casting-tracker/http-server/users/save"
	upuser "casting-tracker/http-server/users/update"
	"casting-tracker/internal/audit"
	"casting-tracker/internal/auth"
	"casting-tracker/internal/config"
	resp "casting-tracker/internal/lib/api/response"
	authmw "casting-tracker/internal/middleware/auth"
	generate_excel2 "casting-tracker/internal/service/generate-excel"
	"casting-tracker/internal/service/report"
	"casting-tracker/internal/storage/sqlstore"
	"casting-tracker/internal/tracking"
)

type app struct {
	cfg     *config.Config
	log     *slog.Logger
	storage *sqlstore.Storage
	tracker *tracking.Tracker
	reports *report.Service
	excel   *generate_excel2.GenerateExcelService
	auditor *audit.Logger
	tokens  *auth.TokenManager
}

func routes(a *app) *chi.Mux {
	log, storage := a.log, a.storage

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   a.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/api/status", status.Status(log, storage))

	// Floor: operators identify by code, no admin credential.
	router.Get("/api/services", getservice.GetServices(log, storage))
	router.Get("/api/services/{id}", getservice.GetService(log, storage))
	router.Get("/api/services/{id}/times", getservice.GetServiceTimes(log, a.tracker))
	router.Get("/api/operators/code/{code}", getoperator.GetOperatorByCode(log, storage))

	router.Post("/api/production/sessions", sessions.ChangeSession(log, a.tracker))
	router.Get("/api/production/sessions", sessions.GetSession(log, a.tracker))
	router.Post("/api/production/preparation", preparation.ChangePreparation(log, a.tracker))
	router.Get("/api/production/preparation", preparation.GetPreparation(log, a.tracker))
	router.Post("/api/production/timer", timer.ChangeTimer(log, a.tracker))
	router.Post("/api/production/counts", counts.SaveCount(log, a.tracker))
	router.Get("/api/production/totals", totals.GetTotals(log, a.reports))

	router.Post("/api/auth/login", login.Login(log, storage, a.tokens, login.Cookie{
		Name:   a.cfg.Auth.CookieName,
		Secure: a.cfg.Auth.SecureCookie,
	}))
	router.Get("/api/auth/logout", logout.Logout(a.cfg.Auth.CookieName, a.cfg.Auth.SecureCookie))

	router.Group(func(r chi.Router) {
		r.Use(authmw.RequireAdmin(a.cfg.Auth.CookieName, a.tokens))

		r.Get("/api/users", getuser.GetUsers(log, storage))
		r.Post("/api/users", saveuser.SaveUser(log, storage, a.auditor))
		r.Get("/api/users/{id}", getuser.GetUser(log, storage))
		r.Patch("/api/users/{id}", upuser.UpdateUser(log, storage, a.auditor))
		r.Delete("/api/users/{id}", deluser.DeleteUser(log, storage, a.auditor))

		r.Get("/api/operators", getoperator.GetOperators(log, storage))
		r.Post("/api/operators", saveoperator.SaveOperator(log, storage, a.auditor))
		r.Get("/api/operators/{id}", getoperator.GetOperator(log, storage))
		r.Patch("/api/operators/{id}", upoperator.UpdateOperator(log, storage, a.auditor))
		r.Delete("/api/operators/{id}", deloperator.DeleteOperator(log, storage, a.auditor))

		r.Post("/api/services", saveservice.SaveService(log, storage, a.auditor))
		r.Patch("/api/services/{id}", upservice.UpdateService(log, storage, a.auditor))
		r.Delete("/api/services/{id}", delservice.DeleteService(log, storage, a.auditor))
		r.Post("/api/services/{id}/evaluate", completion.EvaluateCompletion(log, a.tracker))
		r.Get("/api/services/{id}/raw-materials", servicematerials.GetServiceRawMaterials(log, storage))
		r.Post("/api/services/{id}/raw-materials", servicematerials.SaveServiceRawMaterial(log, storage, a.auditor))
		r.Delete("/api/services/{id}/raw-materials", servicematerials.DeleteServiceRawMaterial(log, storage, a.auditor))

		r.Get("/api/raw-materials", getrawmaterial.GetRawMaterials(log, storage))
		r.Post("/api/raw-materials", saverawmaterial.SaveRawMaterial(log, storage, a.auditor))
		r.Get("/api/raw-materials/{id}", getrawmaterial.GetRawMaterial(log, storage))
		r.Put("/api/raw-materials/{id}", uprawmaterial.UpdateRawMaterial(log, storage, a.auditor))
		r.Delete("/api/raw-materials/{id}", delrawmaterial.DeleteRawMaterial(log, storage, a.auditor))

		r.Get("/api/metrics", metrics.GetMetrics(log, a.reports))
		r.Get("/api/production/time-report", time_report.GetTimeReport(log, a.reports))
		r.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, a.excel))

		r.Get("/api/audit", getaudit.GetAuditLogs(log, storage))
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, r, http.StatusNotFound, "route not found")
	})

	return router
}
