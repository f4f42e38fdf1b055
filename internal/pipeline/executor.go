package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/effects"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/fileops"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/llm"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/notify"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/script"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/store"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/transcribe"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Artifact file names inside a job's output directory.
const (
	audioFile      = "extracted_audio.wav"
	transcriptJSON = "whisper_transcript.json"
	scriptFile     = "script_with_timestamps.txt"
	aiScriptFile   = "ai_generated_script.txt"
	finalVideoFile = "final_video.mp4"
)

// AudioExtractor is the slice of the media engine the transcribe stage needs.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, in, outWav string) error
}

// Renderer is the compositor contract consumed by the video_gen stage.
type Renderer interface {
	Render(ctx context.Context, src, out string, cues []script.Cue) error
}

// ClientFactory builds an LLM client for one script-revision request.
type ClientFactory interface {
	Client(opts llm.Options) llm.Client
}

// ScriptParams carries the ai_script_gen stage inputs from the request.
type ScriptParams struct {
	OriginalScript string
	Theme          string
	TargetAudience string
	VideoPurpose   string
	LLM            llm.Options
}

// Executor runs one pipeline stage to completion or failure. It is the sole
// writer of a job's status record while its stage is active.
type Executor struct {
	store       *store.Store
	extractor   AudioExtractor
	transcriber transcribe.Transcriber
	llm         ClientFactory
	renderer    Renderer
	sounds      *effects.SoundLibrary
	notifier    *notify.Notifier
	outRoot     string
}

func NewExecutor(
	st *store.Store,
	extractor AudioExtractor,
	transcriber transcribe.Transcriber,
	clientFactory ClientFactory,
	renderer Renderer,
	sounds *effects.SoundLibrary,
	notifier *notify.Notifier,
	outRoot string,
) *Executor {
	return &Executor{
		store:       st,
		extractor:   extractor,
		transcriber: transcriber,
		llm:         clientFactory,
		renderer:    renderer,
		sounds:      sounds,
		notifier:    notifier,
		outRoot:     outRoot,
	}
}

// OutputDir returns the per-job artifact directory.
func (e *Executor) OutputDir(jobID string) string {
	return filepath.Join(e.outRoot, jobID)
}

// RunTranscribe extracts audio, transcribes it, and writes the transcript
// JSON plus the timestamped script text.
func (e *Executor) RunTranscribe(ctx context.Context, jobID string) {
	e.run(jobID, store.StageTranscribe, func(outDir string) error {
		job, ok := e.store.Get(jobID)
		if !ok {
			return fmt.Errorf("job %s not found", jobID)
		}

		e.store.SetProgress(jobID, 10, "Extracting audio...")
		audioPath := filepath.Join(outDir, audioFile)
		if err := e.extractor.ExtractAudio(ctx, job.SourcePath, audioPath); err != nil {
			return fmt.Errorf("audio extraction: %w", err)
		}

		e.store.SetProgress(jobID, 50, "Transcribing audio...")
		tr, err := e.transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return fmt.Errorf("transcription: %w", err)
		}
		if tr == nil || len(tr.Segments) == 0 {
			return fmt.Errorf("transcription returned no segments")
		}

		jb, err := json.MarshalIndent(tr, "", "  ")
		if err != nil {
			return fmt.Errorf("encode transcript: %w", err)
		}
		if err := os.WriteFile(filepath.Join(outDir, transcriptJSON), jb, 0644); err != nil {
			return fmt.Errorf("write transcript json: %w", err)
		}

		scriptPath := filepath.Join(outDir, scriptFile)
		if err := os.WriteFile(scriptPath, []byte(tr.Script()), 0644); err != nil {
			return fmt.Errorf("write script: %w", err)
		}

		e.store.AddArtifact(jobID, store.StageTranscribe, scriptPath)
		e.store.Complete(jobID, "Transcription complete.")
		return nil
	})
}

// RunScriptGen sends the transcript to the LLM and stores the revised
// script. An LLM failure still produces a readable artifact embedding the
// error, so the caller has something to display.
func (e *Executor) RunScriptGen(ctx context.Context, jobID string, p ScriptParams) {
	e.run(jobID, store.StageScriptGen, func(outDir string) error {
		e.store.SetProgress(jobID, 20, "Requesting AI script revision...")

		prompt := llm.BuildRevisionPrompt(
			p.OriginalScript, p.Theme, p.TargetAudience, p.VideoPurpose,
			effects.Catalog(), e.sounds.Catalog(),
		)

		aiScriptPath := filepath.Join(outDir, aiScriptFile)
		text, err := e.llm.Client(p.LLM).Complete(ctx, prompt)
		if err != nil {
			failure := fmt.Sprintf("AI script generation failed.\nError: %v", err)
			if werr := os.WriteFile(aiScriptPath, []byte(failure), 0644); werr == nil {
				e.store.AddArtifact(jobID, store.StageScriptGen, aiScriptPath)
			}
			return fmt.Errorf("ai script generation: %w", err)
		}

		if err := os.WriteFile(aiScriptPath, []byte(text), 0644); err != nil {
			return fmt.Errorf("write ai script: %w", err)
		}

		// Parse the revised script so the caller learns up front how many
		// instructions the render stage will see.
		var instructions int
		for _, seg := range script.Parse(text) {
			if seg.Kind != script.SegmentText {
				instructions++
			}
		}
		if instructions == 0 {
			logger.Warnf("⚠️ Job %s: revised script contains no effect or sound instructions", jobID)
		}
		logger.Infof("🪄 Job %s: %d instruction(s) in revised script", jobID, instructions)

		e.store.AddArtifact(jobID, store.StageScriptGen, aiScriptPath)
		e.store.Complete(jobID, fmt.Sprintf(
			"AI script generation complete. %d effect/sound instruction(s) found.", instructions,
		))
		return nil
	})
}

// RunVideoGen parses the revised script into cues and renders the final
// video over the originally uploaded media.
func (e *Executor) RunVideoGen(ctx context.Context, jobID string, aiScript string) {
	e.run(jobID, store.StageVideoGen, func(outDir string) error {
		job, ok := e.store.Get(jobID)
		if !ok {
			return fmt.Errorf("job %s not found", jobID)
		}
		if job.SourcePath == "" || !fileops.Exists(job.SourcePath) {
			return fmt.Errorf("original media path is missing")
		}

		e.store.SetProgress(jobID, 20, "Applying effects and compositing video...")

		cues := script.ParseCues(aiScript)
		logger.Infof("🎬 Job %s: %d cue(s) parsed from AI script", jobID, len(cues))

		outPath := filepath.Join(outDir, finalVideoFile)
		if err := e.renderer.Render(ctx, job.SourcePath, outPath, cues); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		e.store.AddArtifact(jobID, store.StageVideoGen, outPath)
		e.store.Complete(jobID, "Final video generation complete.")
		return nil
	})
}

// run wraps one stage body: processing transition, output dir, panic
// recovery, failure bookkeeping and notifications.
func (e *Executor) run(jobID string, stage store.Stage, body func(outDir string) error) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("stage %s panicked: %v", stage, r)
			logger.Errorf("❌ Job %s: %s", jobID, msg)
			e.store.Fail(jobID, msg)
			e.notifier.StageFailed(jobID, stage, msg)
		}
	}()

	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("🔄 Job %s: starting stage %s", jobID, stage)

	e.store.SetProcessing(jobID, fmt.Sprintf("Stage %s in progress...", stage))

	outDir := e.OutputDir(jobID)
	if err := fileops.EnsureDir(outDir); err != nil {
		msg := fmt.Sprintf("stage %s failed: create output dir: %v", stage, err)
		logger.Errorf("❌ Job %s: %s", jobID, msg)
		e.store.Fail(jobID, msg)
		e.notifier.StageFailed(jobID, stage, msg)
		return
	}

	if err := body(outDir); err != nil {
		msg := fmt.Sprintf("stage %s failed: %v", stage, err)
		logger.Errorf("❌ Job %s: %s", jobID, msg)
		e.store.Fail(jobID, msg)
		e.notifier.StageFailed(jobID, stage, msg)
		return
	}

	logger.Infof("✅ Job %s: stage %s completed", jobID, stage)
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	e.notifier.StageCompleted(jobID, stage)
}
