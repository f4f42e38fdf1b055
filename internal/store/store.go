package store

import (
	"sync"
	"time"
)

// Stage identifies one unit of pipeline work for a job.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageScriptGen  Stage = "ai_script_gen"
	StageVideoGen   Stage = "video_gen"
)

// Status is the lifecycle state of the current stage run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether a status ends a stage run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one video processing request tracked through the pipeline.
type Job struct {
	ID       string `json:"id"`
	Stage    Stage  `json:"stage"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`

	// SourcePath is the originally uploaded video; set once, read-only after.
	SourcePath string `json:"source_path"`

	// Artifacts maps a stage name to its primary output file.
	Artifacts map[Stage]string `json:"artifacts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the process-wide job status map: one writer per job while a
// stage runs, many concurrent readers.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func New() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new job at the transcribe stage.
func (s *Store) Create(id, sourcePath string) Job {
	job, _ := s.CreateIfAbsent(id, sourcePath)
	return job
}

// CreateIfAbsent registers a new job unless the id is already taken, under
// one lock acquisition. Returns false when the job already existed.
func (s *Store) CreateIfAbsent(id, sourcePath string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[id]; ok {
		return snapshot(existing), false
	}

	now := time.Now()
	job := &Job{
		ID:         id,
		Stage:      StageTranscribe,
		Status:     StatusPending,
		Message:    "Queued for transcription...",
		SourcePath: sourcePath,
		Artifacts:  make(map[Stage]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.jobs[id] = job
	return snapshot(job), true
}

// Get returns a copy of the job record; reads never block on pipeline work.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return snapshot(job), true
}

// StartStage re-enters a job into a new stage run: status pending,
// progress reset to zero. The stage field only ever advances.
func (s *Store) StartStage(id string, stage Stage, message string) bool {
	return s.update(id, func(j *Job) {
		j.Stage = stage
		j.Status = StatusPending
		j.Progress = 0
		j.Message = message
	})
}

// StartResult is the outcome of an atomic stage-start attempt.
type StartResult int

const (
	StartOK StartResult = iota
	StartNotFound
	StartActive
	StartMissingArtifact
)

// StartStageIfTerminal validates and re-enters a job into a new stage run
// under one lock acquisition, so concurrent start requests for the same job
// cannot both observe a terminal status. The current run must be terminal,
// and when required is non-empty that stage's artifact must be recorded.
func (s *Store) StartStageIfTerminal(id string, stage Stage, required Stage, message string) StartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return StartNotFound
	}
	if !job.Status.Terminal() {
		return StartActive
	}
	if required != "" {
		if _, ok := job.Artifacts[required]; !ok {
			return StartMissingArtifact
		}
	}

	job.Stage = stage
	job.Status = StatusPending
	job.Progress = 0
	job.Message = message
	job.UpdatedAt = time.Now()
	return StartOK
}

// SetProcessing marks the current stage run as actively executing.
func (s *Store) SetProcessing(id string, message string) bool {
	return s.update(id, func(j *Job) {
		j.Status = StatusProcessing
		j.Message = message
	})
}

// SetProgress advances progress within the current stage. Progress never
// decreases inside a run; stale lower values are clamped away.
func (s *Store) SetProgress(id string, progress int, message string) bool {
	return s.update(id, func(j *Job) {
		if progress > 100 {
			progress = 100
		}
		if progress > j.Progress {
			j.Progress = progress
		}
		j.Message = message
	})
}

// Complete finishes the current stage run successfully.
func (s *Store) Complete(id string, message string) bool {
	return s.update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.Progress = 100
		j.Message = message
	})
}

// Fail finishes the current stage run with an error. The error field is
// never cleared automatically.
func (s *Store) Fail(id string, errMsg string) bool {
	return s.update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Message = errMsg
		j.Error = errMsg
	})
}

// AddArtifact records the stage's primary output location. Append-only:
// one artifact per stage key.
func (s *Store) AddArtifact(id string, stage Stage, path string) bool {
	return s.update(id, func(j *Job) {
		j.Artifacts[stage] = path
	})
}

func (s *Store) update(id string, fn func(*Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(job)
	job.UpdatedAt = time.Now()
	return true
}

func snapshot(j *Job) Job {
	out := *j
	out.Artifacts = make(map[Stage]string, len(j.Artifacts))
	for k, v := range j.Artifacts {
		out.Artifacts[k] = v
	}
	return out
}
