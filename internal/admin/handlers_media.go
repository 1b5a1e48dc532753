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

func galleryPrompt() func(browse.Record) string {
	return titlePrompt("gallery image", func(r browse.Record) string {
		return r.(content.GalleryImage).Title
	})
}

func (a *Admin) handleGalleryList(w http.ResponseWriter, r *http.Request) {
	images, err := a.gallery.List(r.Context())
	if err != nil {
		a.logger.Error("list gallery", zap.Error(err))
		server.InternalError(w, "failed to load gallery", r.URL.Path)
		return
	}

	b := adminBrowser(galleryColumns(), galleryPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(images))
}

func (a *Admin) handleGalleryCreate(w http.ResponseWriter, r *http.Request) {
	var img content.GalleryImage
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if img.ImageURL == "" {
		server.BadRequest(w, "image_url is required", r.URL.Path)
		return
	}

	if err := a.gallery.Create(r.Context(), &img); err != nil {
		a.logger.Error("create gallery image", zap.Error(err))
		server.InternalError(w, "failed to create gallery image", r.URL.Path)
		return
	}
	a.publishChange(r, "gallery", "created", img.ID)
	writeJSON(w, http.StatusCreated, img)
}

func (a *Admin) handleGalleryUpdate(w http.ResponseWriter, r *http.Request) {
	var img content.GalleryImage
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	img.ID = r.PathValue("id")
	if img.ImageURL == "" {
		server.BadRequest(w, "image_url is required", r.URL.Path)
		return
	}

	if err := a.gallery.Update(r.Context(), &img); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "gallery image not found", r.URL.Path)
			return
		}
		a.logger.Error("update gallery image", zap.Error(err))
		server.InternalError(w, "failed to update gallery image", r.URL.Path)
		return
	}
	a.publishChange(r, "gallery", "updated", img.ID)
	writeJSON(w, http.StatusOK, img)
}

func (a *Admin) handleGalleryDelete(w http.ResponseWriter, r *http.Request) {
	img, err := a.gallery.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "gallery image not found", r.URL.Path)
			return
		}
		a.logger.Error("get gallery image", zap.Error(err))
		server.InternalError(w, "failed to load gallery image", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(galleryColumns(), galleryPrompt(), func(rec browse.Record) {
		delErr = a.gallery.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *img) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete gallery image", zap.Error(delErr))
		server.InternalError(w, "failed to delete gallery image", r.URL.Path)
		return
	}
	a.publishChange(r, "gallery", "deleted", img.ID)
	w.WriteHeader(http.StatusNoContent)
}

func videoPrompt() func(browse.Record) string {
	return titlePrompt("video", func(r browse.Record) string {
		return r.(content.Video).Title
	})
}

func (a *Admin) handleVideoList(w http.ResponseWriter, r *http.Request) {
	videos, err := a.videos.List(r.Context())
	if err != nil {
		a.logger.Error("list videos", zap.Error(err))
		server.InternalError(w, "failed to load videos", r.URL.Path)
		return
	}

	b := adminBrowser(videoColumns(), videoPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(videos))
}

func (a *Admin) handleVideoCreate(w http.ResponseWriter, r *http.Request) {
	var v content.Video
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if v.Title == "" || v.VideoURL == "" {
		server.BadRequest(w, "title and video_url are required", r.URL.Path)
		return
	}

	if err := a.videos.Create(r.Context(), &v); err != nil {
		a.logger.Error("create video", zap.Error(err))
		server.InternalError(w, "failed to create video", r.URL.Path)
		return
	}
	a.publishChange(r, "videos", "created", v.ID)
	writeJSON(w, http.StatusCreated, v)
}

func (a *Admin) handleVideoUpdate(w http.ResponseWriter, r *http.Request) {
	var v content.Video
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	v.ID = r.PathValue("id")
	if v.Title == "" || v.VideoURL == "" {
		server.BadRequest(w, "title and video_url are required", r.URL.Path)
		return
	}

	if err := a.videos.Update(r.Context(), &v); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "video not found", r.URL.Path)
			return
		}
		a.logger.Error("update video", zap.Error(err))
		server.InternalError(w, "failed to update video", r.URL.Path)
		return
	}
	a.publishChange(r, "videos", "updated", v.ID)
	writeJSON(w, http.StatusOK, v)
}

func (a *Admin) handleVideoDelete(w http.ResponseWriter, r *http.Request) {
	v, err := a.videos.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "video not found", r.URL.Path)
			return
		}
		a.logger.Error("get video", zap.Error(err))
		server.InternalError(w, "failed to load video", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(videoColumns(), videoPrompt(), func(rec browse.Record) {
		delErr = a.videos.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *v) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete video", zap.Error(delErr))
		server.InternalError(w, "failed to delete video", r.URL.Path)
		return
	}
	a.publishChange(r, "videos", "deleted", v.ID)
	w.WriteHeader(http.StatusNoContent)
}

func bannerPrompt() func(browse.Record) string {
	return titlePrompt("banner", func(r browse.Record) string {
		return r.(content.Banner).Title
	})
}

func (a *Admin) handleBannerList(w http.ResponseWriter, r *http.Request) {
	banners, err := a.banners.List(r.Context())
	if err != nil {
		a.logger.Error("list banners", zap.Error(err))
		server.InternalError(w, "failed to load banners", r.URL.Path)
		return
	}

	b := adminBrowser(bannerColumns(), bannerPrompt(), nil)
	if !applyListParams(w, r, b) {
		return
	}
	renderList(w, b, toRecords(banners))
}

func (a *Admin) handleBannerCreate(w http.ResponseWriter, r *http.Request) {
	var banner content.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if banner.Title == "" || banner.ImageURL == "" {
		server.BadRequest(w, "title and image_url are required", r.URL.Path)
		return
	}

	if err := a.banners.Create(r.Context(), &banner); err != nil {
		a.logger.Error("create banner", zap.Error(err))
		server.InternalError(w, "failed to create banner", r.URL.Path)
		return
	}
	a.publishChange(r, "banners", "created", banner.ID)
	writeJSON(w, http.StatusCreated, banner)
}

func (a *Admin) handleBannerUpdate(w http.ResponseWriter, r *http.Request) {
	var banner content.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	banner.ID = r.PathValue("id")
	if banner.Title == "" || banner.ImageURL == "" {
		server.BadRequest(w, "title and image_url are required", r.URL.Path)
		return
	}

	if err := a.banners.Update(r.Context(), &banner); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "banner not found", r.URL.Path)
			return
		}
		a.logger.Error("update banner", zap.Error(err))
		server.InternalError(w, "failed to update banner", r.URL.Path)
		return
	}
	a.publishChange(r, "banners", "updated", banner.ID)
	writeJSON(w, http.StatusOK, banner)
}

func (a *Admin) handleBannerDelete(w http.ResponseWriter, r *http.Request) {
	banner, err := a.banners.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			server.NotFound(w, "banner not found", r.URL.Path)
			return
		}
		a.logger.Error("get banner", zap.Error(err))
		server.InternalError(w, "failed to load banner", r.URL.Path)
		return
	}

	var delErr error
	b := adminBrowser(bannerColumns(), bannerPrompt(), func(rec browse.Record) {
		delErr = a.banners.Delete(r.Context(), rec.Key())
	})
	if !confirmDelete(w, r, b, *banner) {
		return
	}
	if delErr != nil {
		a.logger.Error("delete banner", zap.Error(delErr))
		server.InternalError(w, "failed to delete banner", r.URL.Path)
		return
	}
	a.publishChange(r, "banners", "deleted", banner.ID)
	w.WriteHeader(http.StatusNoContent)
}
