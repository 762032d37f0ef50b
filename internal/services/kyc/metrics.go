package kyc

import "time"

// NoopMetricsCollector discards everything.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) IncUpload(string, string)        {}
func (NoopMetricsCollector) IncDecision(string)              {}
func (NoopMetricsCollector) IncScoringFailure()              {}
func (NoopMetricsCollector) AddSwept(int)                    {}
func (NoopMetricsCollector) ObserveScore(int, time.Duration) {}
