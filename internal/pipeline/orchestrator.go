package pipeline

import (
	"context"
	"fmt"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/store"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Orchestrator validates stage-start requests against the job store and
// dispatches executor runs asynchronously. Callers get an immediate answer
// and poll the status record.
type Orchestrator struct {
	store *store.Store
	exec  *Executor
	// sem caps concurrent stage workers across all jobs; a dispatched run
	// waits here while the cap is reached, its job staying pending.
	sem chan struct{}
}

func NewOrchestrator(st *store.Store, exec *Executor, maxWorkers int) *Orchestrator {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Orchestrator{
		store: st,
		exec:  exec,
		sem:   make(chan struct{}, maxWorkers),
	}
}

// StartTranscribe registers a freshly uploaded video and dispatches the
// transcription stage. Registration is create-if-absent, so two uploads
// racing on one id cannot both dispatch.
func (o *Orchestrator) StartTranscribe(jobID, sourcePath string) error {
	if _, created := o.store.CreateIfAbsent(jobID, sourcePath); !created {
		return fmt.Errorf("job %s already exists", jobID)
	}

	o.dispatch(func(ctx context.Context) {
		o.exec.RunTranscribe(ctx, jobID)
	})
	logger.Infof("📥 Job %s: transcribe stage dispatched", jobID)
	return nil
}

// StartScriptGen dispatches the AI script revision stage. The transcription
// stage must have completed first, and no stage may be active: only one
// executor run per job at a time. The check and the state reset happen in
// one store operation, so concurrent start requests cannot both pass.
func (o *Orchestrator) StartScriptGen(jobID string, p ScriptParams) error {
	res := o.store.StartStageIfTerminal(
		jobID, store.StageScriptGen, store.StageTranscribe,
		"Queued for AI script generation...",
	)
	if err := startError(res); err != nil {
		return err
	}

	o.dispatch(func(ctx context.Context) {
		o.exec.RunScriptGen(ctx, jobID, p)
	})
	logger.Infof("📥 Job %s: ai_script_gen stage dispatched", jobID)
	return nil
}

// StartVideoGen dispatches the final render stage with the revised script.
func (o *Orchestrator) StartVideoGen(jobID string, aiScript string) error {
	res := o.store.StartStageIfTerminal(
		jobID, store.StageVideoGen, "",
		"Queued for final video generation...",
	)
	if err := startError(res); err != nil {
		return err
	}

	o.dispatch(func(ctx context.Context) {
		o.exec.RunVideoGen(ctx, jobID, aiScript)
	})
	logger.Infof("📥 Job %s: video_gen stage dispatched", jobID)
	return nil
}

func startError(res store.StartResult) error {
	switch res {
	case store.StartNotFound:
		return ErrJobNotFound
	case store.StartActive:
		return ErrStageActive
	case store.StartMissingArtifact:
		return fmt.Errorf("%w: transcription has not completed", ErrStageOrder)
	default:
		return nil
	}
}

func (o *Orchestrator) dispatch(run func(ctx context.Context)) {
	go func() {
		o.sem <- struct{}{}
		defer func() { <-o.sem }()
		run(context.Background())
	}()
}
