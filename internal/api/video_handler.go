package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/service"
	"github.com/reelgen/reelgen-api/internal/store"
)

// WorkerTokenHeader carries the shared secret render workers present on
// status callbacks.
const WorkerTokenHeader = "X-Worker-Token"

// VideoHandler handles video generation and lifecycle API requests.
type VideoHandler struct {
	videoService service.VideoService
	validator    *validator.Validate
}

// NewVideoHandler creates a new VideoHandler with the given dependencies.
func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		validator:    validator.New(),
	}
}

// Generate handles POST /videos/generate.
func (h *VideoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateVideoRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	video, err := h.videoService.CreateVideo(r.Context(), userID, req.Params())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, NewVideoResponse(video))
}

// Gallery handles GET /videos/gallery: completed videos from all users.
func (h *VideoHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset := getPagination(r)
	videos, err := h.videoService.ListGallery(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewVideoListResponse(videos))
}

// History handles GET /videos/history: the requesting user's videos.
func (h *VideoHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset := getPagination(r)
	videos, err := h.videoService.ListHistory(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewVideoListResponse(videos))
}

// GetByID handles GET /videos/{id}.
func (h *VideoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	videoID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid video ID")
		return
	}

	video, err := h.videoService.GetVideo(r.Context(), videoID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewVideoWithAuthorResponse(video))
}

// UpdateStatus handles PATCH /videos/{id}/status, the callback render
// workers use to report progress. The worker credential travels in the
// X-Worker-Token header and is checked by the service before any job
// state is read.
func (h *VideoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	videoID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid video ID")
		return
	}

	var req UpdateVideoStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	video, err := h.videoService.ApplyWorkerUpdate(
		r.Context(),
		videoID,
		r.Header.Get(WorkerTokenHeader),
		store.StatusUpdate{
			Status:       domain.VideoStatus(req.Status),
			VideoURL:     req.VideoURL,
			ThumbnailURL: req.ThumbnailURL,
		},
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewVideoResponse(video))
}
