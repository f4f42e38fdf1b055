package notify

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/store"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Config selects the Apprise endpoint used for stage notifications.
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Key     string `mapstructure:"key"`
	Tag     string `mapstructure:"tag"`
}

// Notifier pushes stage outcomes to an Apprise server. A nil Notifier is
// valid and does nothing.
type Notifier struct {
	cfg    Config
	client *resty.Client
}

func New(cfg Config) *Notifier {
	if !cfg.Enabled {
		return nil
	}
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)
	return &Notifier{cfg: cfg, client: client}
}

// StageCompleted reports a finished stage for a job.
func (n *Notifier) StageCompleted(jobID string, stage store.Stage) {
	n.send("🎬 Stage Completed",
		fmt.Sprintf("Job %s finished stage %s", jobID, stage), "success")
}

// StageFailed reports a failed stage with its error.
func (n *Notifier) StageFailed(jobID string, stage store.Stage, errMsg string) {
	n.send("❌ Stage Failed",
		fmt.Sprintf("Job %s failed at stage %s\nError: %s", jobID, stage, errMsg), "failure")
}

func (n *Notifier) send(title, body, kind string) {
	if n == nil {
		return
	}

	tag := n.cfg.Tag
	if tag == "" {
		tag = "all"
	}

	payload := map[string]string{
		"title": title,
		"body":  body,
		"type":  kind,
		"tag":   tag,
	}
	url := fmt.Sprintf("%s/notify/%s", n.cfg.BaseURL, n.cfg.Key)

	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		logger.Warnf("⚠️ Notification failed: %v", err)
		return
	}
	if resp.StatusCode() >= 400 {
		logger.Warnf("⚠️ Notification rejected: %s", resp.String())
		return
	}
	logger.Debugf("🔔 Notification sent: %s", title)
}
