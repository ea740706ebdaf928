package handlers

import (
	"fmt"
	"net/http"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/models/settings"
	"studyMate/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	SettingsService SettingsService
}

func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{SettingsService: settingsService}
}

func (h *SettingsHandler) Register(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/theme", h.SetTheme)
		r.Patch("/profile", h.UpdateProfile)
		r.Post("/notifications/toggle", h.ToggleNotifications)
		r.Post("/sound/toggle", h.ToggleSound)
	})
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.SettingsService.Get())
}

func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ThemeRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if !request.Theme.Valid() {
		responseWithServiceError(w, r,
			service.NewValidationError("theme", fmt.Sprintf("неизвестная тема %q", request.Theme)), "set_theme")
		return
	}

	writeJSON(w, http.StatusOK, h.SettingsService.SetTheme(request.Theme))
}

func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var patch settings.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		responseWithServiceError(w, r, service.NewValidationError("name", "имя не может быть пустым"), "update_profile")
		return
	}

	updated := h.SettingsService.UpdateProfile(patch)
	logger.Info("HTTP_OUT: Профиль обновлён", zap.String("name", updated.Profile.Name))

	writeJSON(w, http.StatusOK, updated)
}

func (h *SettingsHandler) ToggleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.SettingsService.ToggleNotifications())
}

func (h *SettingsHandler) ToggleSound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.SettingsService.ToggleSound())
}
