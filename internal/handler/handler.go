package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/effects"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/fileops"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/llm"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/pipeline"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/store"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/version"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Handler handles HTTP requests.
type Handler struct {
	store      *store.Store
	orch       *pipeline.Orchestrator
	sounds     *effects.SoundLibrary
	uploadsDir string
}

// New creates a new Handler.
func New(st *store.Store, orch *pipeline.Orchestrator, sounds *effects.SoundLibrary, uploadsDir string) *Handler {
	return &Handler{
		store:      st,
		orch:       orch,
		sounds:     sounds,
		uploadsDir: uploadsDir,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health)
		api.GET("/version", h.Version)
		api.GET("/effects", h.Effects)

		api.POST("/videos", h.Upload)
		api.POST("/videos/:id/script", h.GenerateScript)
		api.POST("/videos/:id/render", h.GenerateVideo)
		api.GET("/videos/:id/status", h.Status)
		api.GET("/videos/:id/script/download", h.DownloadScript)
		api.GET("/videos/:id/video/download", h.DownloadVideo)
	}
}

// Health returns service health status.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Version returns service version.
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Version})
}

// Effects returns the effect and sound catalogs offered to the LLM.
func (h *Handler) Effects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"effects": effects.Catalog(),
		"sounds":  h.sounds.Catalog(),
	})
}

// Upload receives a video file, registers a job and starts transcription.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("videoFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no file selected"})
		return
	}
	if !fileops.IsVideoFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unsupported file type"})
		return
	}

	videoID := uuid.New().String()
	uploadPath := filepath.Join(h.uploadsDir, videoID+filepath.Ext(file.Filename))

	if err := c.SaveUploadedFile(file, uploadPath); err != nil {
		logger.Errorf("❌ Upload save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save upload"})
		return
	}

	if err := h.orch.StartTranscribe(videoID, uploadPath); err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	}

	logger.Infof("📥 Upload received: %s (job: %s)", file.Filename, videoID)
	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "video uploaded, transcription started",
		"video_id": videoID,
	})
}

// GenerateScriptRequest is the ai_script_gen stage request body.
type GenerateScriptRequest struct {
	OriginalScript string `json:"original_script" binding:"required"`
	Theme          string `json:"theme"`
	TargetAudience string `json:"target_audience"`
	VideoPurpose   string `json:"video_purpose"`

	LLMProvider string `json:"llm_provider"`
	APIURL      string `json:"api_url"`
	APIMethod   string `json:"api_method"`
	APIKey      string `json:"api_key"`
}

// GenerateScript starts the AI script revision stage for a job.
func (h *Handler) GenerateScript(c *gin.Context) {
	videoID := c.Param("id")

	var req GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Fill in the provider's default endpoint when the caller left it blank.
	if req.APIURL == "" && req.LLMProvider != "" {
		req.APIURL = llm.DefaultURL(req.LLMProvider)
	}
	if req.APIURL == "" && req.LLMProvider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing api_url or llm_provider"})
		return
	}

	params := pipeline.ScriptParams{
		OriginalScript: req.OriginalScript,
		Theme:          req.Theme,
		TargetAudience: req.TargetAudience,
		VideoPurpose:   req.VideoPurpose,
		LLM: llm.Options{
			Provider: req.LLMProvider,
			URL:      req.APIURL,
			Method:   req.APIMethod,
			APIKey:   req.APIKey,
		},
	}

	if err := h.orch.StartScriptGen(videoID, params); err != nil {
		h.rejectStageStart(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "AI script generation started"})
}

// GenerateVideoRequest is the video_gen stage request body.
type GenerateVideoRequest struct {
	AIScript string `json:"ai_script" binding:"required"`
}

// GenerateVideo starts the final render stage for a job.
func (h *Handler) GenerateVideo(c *gin.Context) {
	videoID := c.Param("id")

	var req GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.orch.StartVideoGen(videoID, req.AIScript); err != nil {
		h.rejectStageStart(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "final video generation started"})
}

// StatusResponse is the job record plus inlined artifact content where the
// finished stage has readable output.
type StatusResponse struct {
	store.Job
	ScriptContent   string `json:"script_content,omitempty"`
	AIScriptContent string `json:"ai_script_content,omitempty"`
}

// Status returns the current job record. A pure read: never blocks on
// pipeline work and never mutates the record.
func (h *Handler) Status(c *gin.Context) {
	videoID := c.Param("id")

	job, ok := h.store.Get(videoID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "message": "unknown video id"})
		return
	}

	resp := StatusResponse{Job: job}
	if job.Status == store.StatusCompleted {
		switch job.Stage {
		case store.StageTranscribe:
			resp.ScriptContent = readArtifact(job, store.StageTranscribe)
		case store.StageScriptGen:
			resp.AIScriptContent = readArtifact(job, store.StageScriptGen)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadScript serves the timestamped transcript script.
func (h *Handler) DownloadScript(c *gin.Context) {
	h.download(c, store.StageTranscribe, "script_with_timestamps.txt")
}

// DownloadVideo serves the final rendered video.
func (h *Handler) DownloadVideo(c *gin.Context) {
	h.download(c, store.StageVideoGen, "final_video.mp4")
}

func (h *Handler) download(c *gin.Context, stage store.Stage, name string) {
	job, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown video id"})
		return
	}
	path, ok := job.Artifacts[stage]
	if !ok || !fileops.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not available yet"})
		return
	}
	c.FileAttachment(path, name)
}

func (h *Handler) rejectStageStart(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, pipeline.ErrStageActive), errors.Is(err, pipeline.ErrStageOrder):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
	}
}

func readArtifact(job store.Job, stage store.Stage) string {
	path, ok := job.Artifacts[stage]
	if !ok {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("⚠️ Could not read artifact %s: %v", path, err)
		return ""
	}
	return string(b)
}
