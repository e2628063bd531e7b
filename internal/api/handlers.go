package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maltedev/product-image-generator/internal/compositor"
	"github.com/maltedev/product-image-generator/internal/generator"
	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/scraper"
)

type Generator interface {
	ExtractDebug(ctx context.Context, url string) (*models.ProductRecord, error)
	GenerateImage(ctx context.Context, url, formula string) (*generator.GeneratedImage, error)
	DefaultFormula() string
}

type Handlers struct {
	generator Generator
	logger    *slog.Logger
}

func NewHandlers(g Generator, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		generator: g,
		logger:    logger.With("component", "api"),
	}
}

// ScrapeRequest represents a debug extraction request
type ScrapeRequest struct {
	URL string `json:"url"`
}

// GenerateRequest represents an image generation request
type GenerateRequest struct {
	URL     string `json:"url"`
	Formula string `json:"formula"`
}

// GenerateResponse points at the download route that renders the image
type GenerateResponse struct {
	Success  bool                  `json:"success"`
	ImageID  string                `json:"image_id"`
	ImageURL string                `json:"image_url"`
	Filename string                `json:"filename"`
	Product  *models.ProductRecord `json:"product_data"`
}

// DebugScrape returns the extracted product record without rendering.
func (h *Handlers) DebugScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	record, err := h.generator.ExtractDebug(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("failed to extract product", "error", err, "url", req.URL)
		h.respondError(w, http.StatusOK, userMessage(err))
		return
	}

	h.respondJSON(w, http.StatusOK, models.NewScrapeResult(record, nil))
}

// GenerateImage runs the full pipeline and returns a link that regenerates
// the same image for download.
func (h *Handlers) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	generated, err := h.generator.GenerateImage(r.Context(), req.URL, req.Formula)
	if err != nil {
		h.logger.Error("failed to generate image", "error", err, "url", req.URL, "formula", req.Formula)
		h.respondError(w, http.StatusOK, userMessage(err))
		return
	}

	h.respondJSON(w, http.StatusOK, GenerateResponse{
		Success:  true,
		ImageID:  generated.ID,
		ImageURL: DownloadURL(generated.ID, req.URL, generated.Formula),
		Filename: generated.Filename,
		Product:  generated.Product,
	})
}

// Download renders the image again and streams it as an attachment.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageID")
	productURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if productURL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	formula := strings.TrimSpace(r.URL.Query().Get("formula"))
	if formula == "" {
		formula = h.generator.DefaultFormula()
	}
	if imageID != generator.ImageID(productURL, formula) {
		h.respondError(w, http.StatusNotFound, "image not found")
		return
	}

	generated, err := h.generator.GenerateImage(r.Context(), productURL, formula)
	if err != nil {
		h.logger.Error("failed to generate image for download", "error", err, "url", productURL)
		h.respondError(w, http.StatusOK, userMessage(err))
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(generated.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": generated.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(generated.Data); err != nil {
		h.logger.Error("failed to write image", "error", err, "id", imageID)
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DownloadURL builds the relative link served by Download.
func DownloadURL(imageID, productURL, formula string) string {
	query := url.Values{}
	query.Set("url", productURL)
	query.Set("formula", formula)
	return "/api/v1/download/" + url.PathEscape(imageID) + "?" + query.Encode()
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return "invalid product URL"
	case errors.Is(err, scraper.ErrFetch):
		return "failed to fetch product page"
	case errors.Is(err, compositor.ErrComposition):
		return "failed to generate image"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "internal error"
	}
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ScrapeResult{Success: false, Error: message})
}
