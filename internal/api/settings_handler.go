package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/service"
)

// SettingsHandler handles learner settings HTTP requests.
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if settingsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("settingsService cannot be nil for SettingsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettingsHandler")
	}
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings handles GET /settings requests.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// UpdateSettings handles PUT /settings requests.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), &domain.LearnerSettings{
		UserID:         learnerID,
		StudyReminders: req.StudyReminders,
		ReminderHour:   req.ReminderHour,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("settings updated", slog.Bool("study_reminders", settings.StudyReminders))
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}
