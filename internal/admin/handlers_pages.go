package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/browse"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/server"
)

func aboutPrompt() func(browse.Record) string {
	return titlePrompt("about section", func(r browse.Record) string {
		return r.(content.AboutSection).Heading
	})
}

func (a *Admin) handleAboutList(w http.ResponseWriter, r *http.Request) {
	sections, err := a.about.List(r.Context())
	if err != nil {
		a.logger.Error("list about sections", zap.Error(err))
		server.InternalError(w, "failed to load about sections", r.URL.Path)
		return
	}

	b := adminBrowser(aboutColumns(), aboutPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(sections))
}

func (a *Admin) handleAboutCreate(w http.ResponseWriter, r *http.Request) {
	var s content.AboutSection
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if s.Heading == "" || s.Body == "" {
		server.BadRequest(w, "heading and body are required", r.URL.Path)
		return
	}

	if err := a.about.Create(r.Context(), &s); err != nil {
		a.logger.Error("create about section", zap.Error(err))
		server.InternalError(w, "failed to create about section", r.URL.Path)
		return
	}
	a.publishChange(r, "about", "created", s.ID)
	writeJSON(w, http.StatusCreated, s)
}

func (a *Admin) handleAboutUpdate(w http.ResponseWriter, r *http.Request) {
	var s content.AboutSection
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	s.ID = r.PathValue("id")
	if s.Heading == "" || s.Body == "" {
		server.BadRequest(w, "heading and body are required", r.URL.Path)
		return
	}

	if err := a.about.Update(r.Context(), &s); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "about section not found", r.URL.Path)
			return
		}
		a.logger.Error("update about section", zap.Error(err))
		server.InternalError(w, "failed to update about section", r.URL.Path)
		return
	}
	a.publishChange(r, "about", "updated", s.ID)
	writeJSON(w, http.StatusOK, s)
}

func (a *Admin) handleAboutDelete(w http.ResponseWriter, r *http.Request) {
	s, err := a.about.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "about section not found", r.URL.Path)
			return
		}
		a.logger.Error("get about section", zap.Error(err))
		server.InternalError(w, "failed to load about section", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(aboutColumns(), aboutPrompt(), func(rec browse.Record) {
		delErr = a.about.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *s) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete about section", zap.Error(delErr))
		server.InternalError(w, "failed to delete about section", r.URL.Path)
		return
	}
	a.publishChange(r, "about", "deleted", s.ID)
	w.WriteHeader(http.StatusNoContent)
}

func overviewPrompt() func(browse.Record) string {
	return titlePrompt("overview item", func(r browse.Record) string {
		return r.(content.OverviewItem).Title
	})
}

func (a *Admin) handleOverviewList(w http.ResponseWriter, r *http.Request) {
	items, err := a.overview.List(r.Context())
	if err != nil {
		a.logger.Error("list overview items", zap.Error(err))
		server.InternalError(w, "failed to load overview items", r.URL.Path)
		return
	}

	b := adminBrowser(overviewColumns(), overviewPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(items))
}

func (a *Admin) handleOverviewCreate(w http.ResponseWriter, r *http.Request) {
	var o content.OverviewItem
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if o.Title == "" || o.Year == 0 {
		server.BadRequest(w, "title and year are required", r.URL.Path)
		return
	}

	if err := a.overview.Create(r.Context(), &o); err != nil {
		a.logger.Error("create overview item", zap.Error(err))
		server.InternalError(w, "failed to create overview item", r.URL.Path)
		return
	}
	a.publishChange(r, "overview", "created", o.ID)
	writeJSON(w, http.StatusCreated, o)
}

func (a *Admin) handleOverviewUpdate(w http.ResponseWriter, r *http.Request) {
	var o content.OverviewItem
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	o.ID = r.PathValue("id")
	if o.Title == "" || o.Year == 0 {
		server.BadRequest(w, "title and year are required", r.URL.Path)
		return
	}

	if err := a.overview.Update(r.Context(), &o); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "overview item not found", r.URL.Path)
			return
		}
		a.logger.Error("update overview item", zap.Error(err))
		server.InternalError(w, "failed to update overview item", r.URL.Path)
		return
	}
	a.publishChange(r, "overview", "updated", o.ID)
	writeJSON(w, http.StatusOK, o)
}

func (a *Admin) handleOverviewDelete(w http.ResponseWriter, r *http.Request) {
	o, err := a.overview.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "overview item not found", r.URL.Path)
			return
		}
		a.logger.Error("get overview item", zap.Error(err))
		server.InternalError(w, "failed to load overview item", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(overviewColumns(), overviewPrompt(), func(rec browse.Record) {
		delErr = a.overview.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *o) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete overview item", zap.Error(delErr))
		server.InternalError(w, "failed to delete overview item", r.URL.Path)
		return
	}
	a.publishChange(r, "overview", "deleted", o.ID)
	w.WriteHeader(http.StatusNoContent)
}

func servicePrompt() func(browse.Record) string {
	return titlePrompt("service", func(r browse.Record) string {
		return r.(content.Service).Title
	})
}

func (a *Admin) handleServiceList(w http.ResponseWriter, r *http.Request) {
	services, err := a.services.List(r.Context())
	if err != nil {
		a.logger.Error("list services", zap.Error(err))
		server.InternalError(w, "failed to load services", r.URL.Path)
		return
	}

	b := adminBrowser(serviceColumns(), servicePrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(services))
}

func (a *Admin) handleServiceCreate(w http.ResponseWriter, r *http.Request) {
	var s content.Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if s.Title == "" || s.Description == "" {
		server.BadRequest(w, "title and description are required", r.URL.Path)
		return
	}

	if err := a.services.Create(r.Context(), &s); err != nil {
		a.logger.Error("create service", zap.Error(err))
		server.InternalError(w, "failed to create service", r.URL.Path)
		return
	}
	a.publishChange(r, "services", "created", s.ID)
	writeJSON(w, http.StatusCreated, s)
}

func (a *Admin) handleServiceUpdate(w http.ResponseWriter, r *http.Request) {
	var s content.Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	s.ID = r.PathValue("id")
	if s.Title == "" || s.Description == "" {
		server.BadRequest(w, "title and description are required", r.URL.Path)
		return
	}

	if err := a.services.Update(r.Context(), &s); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "service not found", r.URL.Path)
			return
		}
		a.logger.Error("update service", zap.Error(err))
		server.InternalError(w, "failed to update service", r.URL.Path)
		return
	}
	a.publishChange(r, "services", "updated", s.ID)
	writeJSON(w, http.StatusOK, s)
}

func (a *Admin) handleServiceDelete(w http.ResponseWriter, r *http.Request) {
	s, err := a.services.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "service not found", r.URL.Path)
			return
		}
		a.logger.Error("get service", zap.Error(err))
		server.InternalError(w, "failed to load service", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(serviceColumns(), servicePrompt(), func(rec browse.Record) {
		delErr = a.services.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *s) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete service", zap.Error(delErr))
		server.InternalError(w, "failed to delete service", r.URL.Path)
		return
	}
	a.publishChange(r, "services", "deleted", s.ID)
	w.WriteHeader(http.StatusNoContent)
}
