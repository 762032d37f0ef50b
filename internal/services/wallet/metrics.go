package wallet

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) IncDeposit(string)      {}
func (n *NoopMetricsCollector) IncCapRejection(string) {}
