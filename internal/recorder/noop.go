package recorder

import "RainSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error                             { return nil }
func (n *NoopRecorder) RecordDaily(_ model.Station, _ []model.DailyRecord) error { return nil }
func (n *NoopRecorder) Close() error                                             { return nil }
