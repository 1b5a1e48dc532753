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

func newsPrompt() func(browse.Record) string {
	return titlePrompt("news post", func(r browse.Record) string {
		return r.(content.NewsPost).Title
	})
}

func (a *Admin) handleNewsList(w http.ResponseWriter, r *http.Request) {
	result, err := a.news.List(r.Context(), content.ListOptions{Limit: 1000})
	if err != nil {
		a.logger.Error("list news", zap.Error(err))
		server.InternalError(w, "failed to load news posts", r.URL.Path)
		return
	}

	b := adminBrowser(newsColumns(), newsPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(result.Items))
}

func (a *Admin) handleNewsCreate(w http.ResponseWriter, r *http.Request) {
	var post content.NewsPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if post.Title == "" || post.Body == "" {
		server.BadRequest(w, "title and body are required", r.URL.Path)
		return
	}

	if err := a.news.Create(r.Context(), &post); err != nil {
		a.logger.Error("create news post", zap.Error(err))
		server.InternalError(w, "failed to create news post", r.URL.Path)
		return
	}
	a.publishChange(r, "news", "created", post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (a *Admin) handleNewsUpdate(w http.ResponseWriter, r *http.Request) {
	var post content.NewsPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	post.ID = r.PathValue("id")
	if post.Title == "" || post.Body == "" {
		server.BadRequest(w, "title and body are required", r.URL.Path)
		return
	}

	if err := a.news.Update(r.Context(), &post); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "news post not found", r.URL.Path)
			return
		}
		a.logger.Error("update news post", zap.Error(err))
		server.InternalError(w, "failed to update news post", r.URL.Path)
		return
	}
	a.publishChange(r, "news", "updated", post.ID)
	writeJSON(w, http.StatusOK, post)
}

func (a *Admin) handleNewsDelete(w http.ResponseWriter, r *http.Request) {
	post, err := a.news.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "news post not found", r.URL.Path)
			return
		}
		a.logger.Error("get news post", zap.Error(err))
		server.InternalError(w, "failed to load news post", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(newsColumns(), newsPrompt(), func(rec browse.Record) {
		delErr = a.news.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *post) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete news post", zap.Error(delErr))
		server.InternalError(w, "failed to delete news post", r.URL.Path)
		return
	}
	a.publishChange(r, "news", "deleted", post.ID)
	w.WriteHeader(http.StatusNoContent)
}

func certificatePrompt() func(browse.Record) string {
	return titlePrompt("certificate", func(r browse.Record) string {
		return r.(content.Certificate).Title
	})
}

func (a *Admin) handleCertificateList(w http.ResponseWriter, r *http.Request) {
	result, err := a.certificates.List(r.Context(), content.ListOptions{Limit: 1000})
	if err != nil {
		a.logger.Error("list certificates", zap.Error(err))
		server.InternalError(w, "failed to load certificates", r.URL.Path)
		return
	}

	b := adminBrowser(certificateColumns(), certificatePrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(result.Items))
}

func (a *Admin) handleCertificateCreate(w http.ResponseWriter, r *http.Request) {
	var cert content.Certificate
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if cert.Title == "" || cert.ImageURL == "" {
		server.BadRequest(w, "title and image_url are required", r.URL.Path)
		return
	}

	if err := a.certificates.Create(r.Context(), &cert); err != nil {
		a.logger.Error("create certificate", zap.Error(err))
		server.InternalError(w, "failed to create certificate", r.URL.Path)
		return
	}
	a.publishChange(r, "certificates", "created", cert.ID)
	writeJSON(w, http.StatusCreated, cert)
}

func (a *Admin) handleCertificateUpdate(w http.ResponseWriter, r *http.Request) {
	var cert content.Certificate
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	cert.ID = r.PathValue("id")
	if cert.Title == "" || cert.ImageURL == "" {
		server.BadRequest(w, "title and image_url are required", r.URL.Path)
		return
	}

	if err := a.certificates.Update(r.Context(), &cert); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "certificate not found", r.URL.Path)
			return
		}
		a.logger.Error("update certificate", zap.Error(err))
		server.InternalError(w, "failed to update certificate", r.URL.Path)
		return
	}
	a.publishChange(r, "certificates", "updated", cert.ID)
	writeJSON(w, http.StatusOK, cert)
}

func (a *Admin) handleCertificateDelete(w http.ResponseWriter, r *http.Request) {
	cert, err := a.certificates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "certificate not found", r.URL.Path)
			return
		}
		a.logger.Error("get certificate", zap.Error(err))
		server.InternalError(w, "failed to load certificate", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(certificateColumns(), certificatePrompt(), func(rec browse.Record) {
		delErr = a.certificates.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *cert) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete certificate", zap.Error(delErr))
		server.InternalError(w, "failed to delete certificate", r.URL.Path)
		return
	}
	a.publishChange(r, "certificates", "deleted", cert.ID)
	w.WriteHeader(http.StatusNoContent)
}
