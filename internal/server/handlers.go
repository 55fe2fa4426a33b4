package server

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"secsentry/internal/errors"
)

// handleRegister creates a user and issues a JWT for API access.
func handleRegister(w http.ResponseWriter, r *http.Request, app *App) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.SendError(w, errors.NewValidationError("invalid request body", nil))
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		errors.SendError(w, errors.NewValidationError("username is required", nil))
		return
	}

	user := app.Auth.CreateUser(req.Username, req.Email)
	token, err := app.Auth.GenerateJWT(user)
	if err != nil {
		errors.SendError(w, errors.NewInternalError("failed to issue token", err))
		return
	}
	if err := app.Auth.SaveSession(w, r, user); err != nil {
		log.Printf("⚠️  Failed to save session cookie: %v", err)
	}

	errors.SendSuccess(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// handleLogout clears the cookie session.
func handleLogout(w http.ResponseWriter, r *http.Request, app *App) {
	if err := app.Auth.ClearSession(w, r); err != nil {
		errors.SendError(w, errors.NewInternalError("failed to clear session", err))
		return
	}
	errors.SendSuccess(w, map[string]bool{"logged_out": true})
}

// handleCreateSession starts a new assessment session.
func handleCreateSession(w http.ResponseWriter, r *http.Request, app *App) {
	session := app.Sessions.Create()

	log.Printf("🆕 Assessment session started: %s", session.ID)

	if app.WSManager != nil {
		app.WSManager.BroadcastSessionStarted(session.ID, session.CurrentQuestion)
	}
	if app.Events != nil && app.Events.IsConnected() {
		if err := app.Events.ProduceSessionEvent(r.Context(), "session_started", session.ID, map[string]interface{}{
			"first_question": session.CurrentQuestion,
		}); err != nil {
			log.Printf("⚠️  Failed to produce session_started event: %v", err)
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"session_id":     session.ID,
			"first_question": session.CurrentQuestion,
			"created_at":     session.CreatedAt,
		},
	})
}

// handleProcessTurn processes one answer in a session. The question is
// optional; when absent the engine's last asked question is used.
func handleProcessTurn(w http.ResponseWriter, r *http.Request, app *App) {
	vars := mux.Vars(r)
	session, exists := app.Sessions.Get(vars["id"])
	if !exists {
		errors.SendError(w, errors.NewNotFoundError("session"))
		return
	}

	var req struct {
		Question string `json:"question,omitempty"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.SendError(w, errors.NewValidationError("invalid request body", nil))
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		errors.SendError(w, errors.NewValidationError("answer is required", nil))
		return
	}

	result, err := session.ProcessTurn(r.Context(), req.Question, req.Answer)
	if err != nil {
		log.Printf("❌ Turn failed for session %s: %v", session.ID, err)
		if app.Events != nil && app.Events.IsConnected() {
			_ = app.Events.ProduceSessionEvent(r.Context(), "error", session.ID, map[string]interface{}{
				"error": err.Error(),
			})
		}
		errors.SendError(w, err)
		return
	}

	if app.Archive != nil {
		if err := app.Archive.SaveResponse(r.Context(), session.ID, result.Response); err != nil {
			log.Printf("⚠️  Failed to archive response for session %s: %v", session.ID, err)
		}
	}
	if app.WSManager != nil {
		app.WSManager.BroadcastTurnProcessed(session.ID, result)
	}
	if app.Events != nil && app.Events.IsConnected() {
		if err := app.Events.ProduceSessionEvent(r.Context(), "turn_processed", session.ID, map[string]interface{}{
			"domain":     result.Response.Domain,
			"risk_score": result.Response.RiskScore,
			"risk_level": result.Response.RiskLevel.String(),
		}); err != nil {
			log.Printf("⚠️  Failed to produce turn_processed event: %v", err)
		}
	}

	errors.SendSuccess(w, result)
}

// handleGetAssessment returns the session's running aggregate.
func handleGetAssessment(w http.ResponseWriter, r *http.Request, app *App) {
	vars := mux.Vars(r)
	session, exists := app.Sessions.Get(vars["id"])
	if !exists {
		errors.SendError(w, errors.NewNotFoundError("session"))
		return
	}

	errors.SendSuccess(w, session.Assessment())
}

// handleGetReport builds and returns the session's report.
func handleGetReport(w http.ResponseWriter, r *http.Request, app *App) {
	vars := mux.Vars(r)
	session, exists := app.Sessions.Get(vars["id"])
	if !exists {
		errors.SendError(w, errors.NewNotFoundError("session"))
		return
	}

	report := session.Report()

	if app.WSManager != nil {
		app.WSManager.BroadcastReportGenerated(session.ID, report)
	}
	if app.Events != nil && app.Events.IsConnected() {
		if err := app.Events.ProduceSessionEvent(r.Context(), "report_generated", session.ID, map[string]interface{}{
			"turns":              len(report.ConversationHistory),
			"overall_risk_score": report.AssessmentSummary.OverallRiskScore,
		}); err != nil {
			log.Printf("⚠️  Failed to produce report_generated event: %v", err)
		}
	}

	errors.SendSuccess(w, report)
}

// handleDeleteSession ends a session.
func handleDeleteSession(w http.ResponseWriter, r *http.Request, app *App) {
	vars := mux.Vars(r)
	if _, exists := app.Sessions.Get(vars["id"]); !exists {
		errors.SendError(w, errors.NewNotFoundError("session"))
		return
	}

	app.Sessions.Delete(vars["id"])
	errors.SendSuccess(w, map[string]bool{"deleted": true})
}

// handleSearch performs semantic search over archived responses.
func handleSearch(w http.ResponseWriter, r *http.Request, app *App) {
	if app.Archive == nil {
		errors.SendError(w, errors.NewNotFoundError("response archive"))
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		errors.SendError(w, errors.NewValidationError("query parameter 'q' is required", nil))
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	results, err := app.Archive.Search(r.Context(), query, limit)
	if err != nil {
		errors.SendError(w, err)
		return
	}

	errors.SendSuccess(w, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// handleSystemMetrics returns host and application metrics.
func handleSystemMetrics(w http.ResponseWriter, r *http.Request, app *App) {
	metrics := map[string]interface{}{
		"timestamp":     time.Now().Format(time.RFC3339),
		"goroutines":    runtime.NumGoroutine(),
		"live_sessions": app.Sessions.Count(),
	}

	if app.Archive != nil {
		metrics["archived_responses"] = app.Archive.Count()
	}
	if app.WSManager != nil {
		metrics["websocket_clients"] = app.WSManager.GetConnectionCount()
	}

	if percentages, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(percentages) > 0 {
		metrics["cpu_percent"] = percentages[0]
	} else if err != nil {
		log.Printf("⚠️  Failed to read CPU metrics: %v", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		metrics["memory_percent"] = vm.UsedPercent
		metrics["memory_total_bytes"] = vm.Total
		metrics["memory_used_bytes"] = vm.Used
	} else {
		log.Printf("⚠️  Failed to read memory metrics: %v", err)
	}

	errors.SendSuccess(w, metrics)
}
