package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/examkeeper/internal/logging"
)

// Event names a telemetry event of the upload workflow.
type Event string

const (
	EventOpenPicker Event = "upload_open_picker"
	EventSelected   Event = "upload_selected"
	EventSent       Event = "upload_sent"
	EventFailed     Event = "upload_failed"
	EventRetry      Event = "upload_retry"
	EventCleared    Event = "history_cleared"
)

type Params map[string]any

var allowedParams = map[string]struct{}{
	"size":   {},
	"locale": {},
	"status": {},
	"reason": {},
}

// Sanitize drops every key outside the allow-list. File names and paths
// never leave the device.
func Sanitize(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if _, ok := allowedParams[k]; ok {
			out[k] = v
		}
	}
	return out
}

// EventSink receives telemetry. Implementations must not block for long.
type EventSink interface {
	Track(ctx context.Context, ev Event, p Params)
}

type NoopSink struct{}

func (NoopSink) Track(context.Context, Event, Params) {}

// LogSink writes sanitized events to the log.
type LogSink struct {
	log    logging.Logger
	locale string
}

func NewLogSink(log logging.Logger, locale string) *LogSink {
	return &LogSink{log: log.With("module", "telemetry"), locale: locale}
}

func (s *LogSink) Track(ctx context.Context, ev Event, p Params) {
	clean := Sanitize(p)
	if _, ok := clean["locale"]; !ok && s.locale != "" {
		clean["locale"] = s.locale
	}

	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2+2*len(keys))
	args = append(args, "event", string(ev))
	for _, k := range keys {
		args = append(args, k, clean[k])
	}
	s.log.Info(ctx, "telemetry", args...)
}
