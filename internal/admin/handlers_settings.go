package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/server"
)

func (a *Admin) handleSettingsList(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.GetAll(r.Context())
	if err != nil {
		a.logger.Error("list settings", zap.Error(err))
		server.InternalError(w, "failed to load settings", r.URL.Path)
		return
	}
	if settings == nil {
		settings = []content.Setting{}
	}
	writeJSON(w, http.StatusOK, settings)
}

type settingValue struct {
	Value string `json:"value"`
}

func (a *Admin) handleSettingsSet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var body settingValue
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	if err := a.settings.Set(r.Context(), key, body.Value); err != nil {
		a.logger.Error("set setting", zap.String("key", key), zap.Error(err))
		server.InternalError(w, "failed to save setting", r.URL.Path)
		return
	}
	a.publishChange(r, "settings", "updated", key)

	s, err := a.settings.Get(r.Context(), key)
	if err != nil {
		a.logger.Error("reload setting", zap.String("key", key), zap.Error(err))
		server.InternalError(w, "failed to reload setting", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *Admin) handleSettingsDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := a.settings.Delete(r.Context(), key); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "setting not found", r.URL.Path)
			return
		}
		a.logger.Error("delete setting", zap.String("key", key), zap.Error(err))
		server.InternalError(w, "failed to delete setting", r.URL.Path)
		return
	}
	a.publishChange(r, "settings", "deleted", key)
	w.WriteHeader(http.StatusNoContent)
}
