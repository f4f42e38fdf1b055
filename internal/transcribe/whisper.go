package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/config"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

const openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// Whisper transcribes via local whisper.cpp or the OpenAI API.
type Whisper struct {
	cfg    config.WhisperConfig
	client *resty.Client
}

func NewWhisper(cfg config.WhisperConfig) *Whisper {
	client := resty.New().SetTimeout(10 * time.Minute)
	return &Whisper{cfg: cfg, client: client}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	switch strings.ToLower(w.cfg.Provider) {
	case "openai":
		return w.transcribeOpenAI(ctx, audioPath)
	default:
		return w.transcribeLocal(ctx, audioPath)
	}
}

// transcribeLocal runs the whisper.cpp binary with JSON output.
func (w *Whisper) transcribeLocal(ctx context.Context, audioPath string) (*Transcript, error) {
	bin := w.cfg.Bin
	if bin == "" {
		bin = "whisper-cli"
	}

	outPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	args := []string{
		"-m", w.cfg.Model,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	}
	if w.cfg.Language != "" && w.cfg.Language != "auto" {
		args = append(args, "-l", w.cfg.Language)
	}

	logger.Infof("🎤 Transcribing (whisper.cpp): %s", filepath.Base(audioPath))
	logger.Debugf("  Command: %s %s", bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var raw struct {
		Transcription []struct {
			Offsets struct {
				From int64 `json:"from"`
				To   int64 `json:"to"`
			} `json:"offsets"`
			Text string `json:"text"`
		} `json:"transcription"`
	}
	if err := json.Unmarshal(jb, &raw); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	tr := &Transcript{}
	for _, seg := range raw.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		tr.Segments = append(tr.Segments, Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return tr, nil
}

// transcribeOpenAI uses the OpenAI Whisper API with verbose JSON output.
func (w *Whisper) transcribeOpenAI(ctx context.Context, audioPath string) (*Transcript, error) {
	logger.Infof("🎤 Transcribing (OpenAI API): %s", filepath.Base(audioPath))

	model := w.cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	form := map[string]string{
		"model":           model,
		"response_format": "verbose_json",
	}
	if w.cfg.Language != "" && w.cfg.Language != "auto" {
		form["language"] = w.cfg.Language
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetAuthToken(w.cfg.APIKey).
		SetFile("file", audioPath).
		SetFormData(form).
		Post(openAITranscriptionURL)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("transcription api error (%d): %s", resp.StatusCode(), resp.String())
	}

	var tr Transcript
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return nil, fmt.Errorf("parse transcription response: %w", err)
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
	}
	return &tr, nil
}
