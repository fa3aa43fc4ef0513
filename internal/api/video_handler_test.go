package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelgen/reelgen-api/internal/api/shared"
	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/service"
	"github.com/reelgen/reelgen-api/internal/store"
)

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func withChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		svcErr     error
		wantStatus int
	}{
		{
			name: "valid request",
			payload: map[string]interface{}{
				"text":              "a story about a very brave teapot",
				"voice":             "af_heart",
				"subtitle_style_id": 3,
				"subtitle_position": "bottom",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "text too short",
			payload: map[string]interface{}{
				"text":              "short",
				"voice":             "af_heart",
				"subtitle_style_id": 3,
				"subtitle_position": "bottom",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown voice",
			payload: map[string]interface{}{
				"text":              "a story about a very brave teapot",
				"voice":             "robot_voice",
				"subtitle_style_id": 3,
				"subtitle_position": "bottom",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "style out of range",
			payload: map[string]interface{}{
				"text":              "a story about a very brave teapot",
				"voice":             "af_heart",
				"subtitle_style_id": 11,
				"subtitle_position": "bottom",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "queue unavailable",
			payload: map[string]interface{}{
				"text":              "a story about a very brave teapot",
				"voice":             "af_heart",
				"subtitle_style_id": 3,
				"subtitle_position": "bottom",
			},
			svcErr:     service.ErrQueueUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubVideoService{video: testVideo(userID), err: tt.svcErr}
			handler := NewVideoHandler(svc)

			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			handler.Generate(recorder, authedRequest("POST", "/videos/generate", payloadBytes, userID))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp VideoResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "queued", resp.Status)
				assert.Equal(t, userID, svc.lastOwnerID)
				assert.Equal(t, domain.VoiceAfHeart, svc.lastParams.Voice)
			}
		})
	}
}

func TestGenerateRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := NewVideoHandler(&stubVideoService{})

	req := httptest.NewRequest("POST", "/videos/generate", bytes.NewBufferString("{}"))
	recorder := httptest.NewRecorder()
	handler.Generate(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	video := testVideo(userID)
	video.Status = domain.VideoStatusCompleted
	video.VideoURL = "http://x/v.mp4"

	tests := []struct {
		name       string
		videoID    string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "found",
			videoID:    video.ID.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found or not owned",
			videoID:    uuid.New().String(),
			svcErr:     service.ErrVideoNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed ID",
			videoID:    "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubVideoService{
				withAuthor: &store.VideoWithAuthor{Video: *video, AuthorUsername: "ada"},
				err:        tt.svcErr,
			}
			handler := NewVideoHandler(svc)

			req := authedRequest("GET", "/videos/"+tt.videoID, nil, userID)
			req = withChiParam(req, "id", tt.videoID)

			recorder := httptest.NewRecorder()
			handler.GetByID(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp VideoResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "ada", resp.AuthorUsername)
				assert.Equal(t, "http://x/v.mp4", resp.VideoURL)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	videoID := uuid.New()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		svcErr     error
		wantStatus int
	}{
		{
			name: "completed with result",
			payload: map[string]interface{}{
				"status":    "completed",
				"video_url": "http://x/v.mp4",
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown status value",
			payload:    map[string]interface{}{"status": "exploded"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad credential",
			payload:    map[string]interface{}{"status": "processing"},
			svcErr:     service.ErrWorkerUnauthorized,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "illegal transition",
			payload:    map[string]interface{}{"status": "processing"},
			svcErr:     service.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "video missing",
			payload:    map[string]interface{}{"status": "processing"},
			svcErr:     service.ErrVideoNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video := testVideo(uuid.New())
			video.ID = videoID
			video.Status = domain.VideoStatusCompleted
			video.VideoURL = "http://x/v.mp4"

			svc := &stubVideoService{video: video, err: tt.svcErr}
			handler := NewVideoHandler(svc)

			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("PATCH", "/videos/"+videoID.String()+"/status",
				bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(WorkerTokenHeader, "worker-secret-token-0001")
			req = withChiParam(req, "id", videoID.String())

			recorder := httptest.NewRecorder()
			handler.UpdateStatus(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "worker-secret-token-0001", svc.lastToken)
				assert.Equal(t, videoID, svc.lastVideoID)
				assert.Equal(t, domain.VideoStatusCompleted, svc.lastUpdate.Status)
				assert.Equal(t, "http://x/v.mp4", svc.lastUpdate.VideoURL)
			}
		})
	}
}

func TestGalleryAndHistory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	video := testVideo(userID)
	video.Status = domain.VideoStatusCompleted
	video.VideoURL = "http://x/v.mp4"

	svc := &stubVideoService{
		list: []*store.VideoWithAuthor{
			{Video: *video, AuthorUsername: "ada"},
		},
	}
	handler := NewVideoHandler(svc)

	for _, endpoint := range []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
		path string
	}{
		{"gallery", handler.Gallery, "/videos/gallery"},
		{"history", handler.History, "/videos/history"},
	} {
		t.Run(endpoint.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			endpoint.call(recorder, authedRequest("GET", endpoint.path+"?limit=5", nil, userID))

			require.Equal(t, http.StatusOK, recorder.Code)

			var resp []VideoResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			require.Len(t, resp, 1)
			assert.Equal(t, "ada", resp[0].AuthorUsername)
		})
	}
}
