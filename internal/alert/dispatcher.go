// Package alert turns high-confidence signals into alert rows and delivers
// them to the configured chat channels from a background worker, keeping
// third-party latency off the ingest path.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"signalboard/internal/config"
	"signalboard/internal/models"
	"signalboard/internal/notify"
	"signalboard/internal/repository"
)

// Task is one signal's delivery batch: the rendered text plus the queued
// alert rows, one per channel.
type Task struct {
	Signal models.Signal
	Text   string
	Rows   []Row
}

type Row struct {
	ID      uint64
	Channel string
}

type Dispatcher struct {
	Repo    repository.Repository
	Senders []notify.Sender
	Logger  *zap.Logger

	minConfidence float64
	sendTimeout   time.Duration
	queue         chan Task
}

func NewDispatcher(cfg config.AlertsConfig, repo repository.Repository, senders []notify.Sender, logger *zap.Logger) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Repo:          repo,
		Senders:       senders,
		Logger:        logger,
		minConfidence: cfg.MinConfidence,
		sendTimeout:   timeout,
		queue:         make(chan Task, size),
	}
}

// MaybeQueue inserts one queued alert row per configured channel and hands
// the batch to the worker. It is a no-op when alerting is disabled, the
// signal is below threshold, or no channel is configured. Row-insert
// failures are logged and skipped: the signal is already committed and the
// ingest response must not depend on alert bookkeeping.
func (d *Dispatcher) MaybeQueue(ctx context.Context, sig models.Signal) {
	if d == nil || d.Repo == nil || len(d.Senders) == 0 {
		return
	}
	if d.minConfidence <= 0 || sig.Confidence < d.minConfidence {
		return
	}

	text := Text(sig)
	payload, err := json.Marshal(map[string]any{
		"text":       text,
		"platform":   sig.Platform,
		"round_id":   sig.RoundID,
		"confidence": sig.Confidence,
	})
	if err != nil {
		d.Logger.Warn("alert payload marshal failed", zap.String("signal_id", sig.ID), zap.Error(err))
		return
	}

	task := Task{Signal: sig, Text: text}
	for _, sender := range d.Senders {
		row := &models.Alert{
			SignalID: sig.ID,
			Channel:  sender.Name(),
			Payload:  datatypes.JSON(payload),
			Status:   models.AlertQueued,
		}
		if err := d.Repo.InsertAlert(ctx, row); err != nil {
			d.Logger.Warn("alert row insert failed",
				zap.String("signal_id", sig.ID),
				zap.String("channel", sender.Name()),
				zap.Error(err))
			continue
		}
		task.Rows = append(task.Rows, Row{ID: row.ID, Channel: sender.Name()})
	}
	if len(task.Rows) == 0 {
		return
	}

	select {
	case d.queue <- task:
	default:
		// Rows stay queued in the store; the backlog is visible there.
		d.Logger.Warn("alert queue full, delivery skipped",
			zap.String("signal_id", sig.ID),
			zap.Int("backlog", len(d.queue)))
	}
}

// Run drains the queue until ctx is canceled. One task is delivered at a
// time; channels within a task are sent sequentially, each bounded by the
// configured send timeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d == nil || d.Repo == nil {
		return nil
	}
	d.Logger.Info("alert dispatcher started",
		zap.Int("channels", len(d.Senders)),
		zap.Float64("min_confidence", d.minConfidence))
	for {
		select {
		case <-ctx.Done():
			d.Logger.Info("alert dispatcher stopped", zap.Int("backlog", len(d.queue)))
			return ctx.Err()
		case task := <-d.queue:
			d.deliver(ctx, task)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, task Task) {
	for _, row := range task.Rows {
		sender := d.senderFor(row.Channel)
		if sender == nil {
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		status, err := sender.Send(sendCtx, task.Text)
		cancel()

		if err == nil && status >= 200 && status < 300 {
			sentAt := time.Now().UnixMilli()
			if uerr := d.Repo.UpdateAlertStatus(ctx, row.ID, models.AlertSent, &sentAt); uerr != nil {
				d.Logger.Warn("alert status update failed",
					zap.Uint64("alert_id", row.ID),
					zap.Error(uerr))
			}
			continue
		}

		d.Logger.Warn("alert delivery failed",
			zap.Uint64("alert_id", row.ID),
			zap.String("channel", row.Channel),
			zap.Int("status", status),
			zap.Error(err))
		if uerr := d.Repo.UpdateAlertStatus(ctx, row.ID, models.AlertFailed, nil); uerr != nil {
			d.Logger.Warn("alert status update failed",
				zap.Uint64("alert_id", row.ID),
				zap.Error(uerr))
		}
	}
}

func (d *Dispatcher) senderFor(channel string) notify.Sender {
	for _, s := range d.Senders {
		if s.Name() == channel {
			return s
		}
	}
	return nil
}
