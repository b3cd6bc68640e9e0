package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render_docs", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("render_docs", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.AddBrokenLinks("link", 3)
	r.SetPagesRendered(4)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveStageDuration("render_docs", time.Second)
	p.IncBuildOutcome(BuildOutcomeFailed)
	p.AddBrokenLinks("link", 1)
}
