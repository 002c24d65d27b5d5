package providers

import (
	"net/http"
	"time"
)

// local mocks; testutil imports this package

type testLogger struct {
	debug int
}

func (m *testLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) { m.debug++ }
func (m *testLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Close()                                        {}

type testMetrics struct {
	noopMetrics
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *testMetrics) IncCacheHits()                                    { m.hits++ }
func (m *testMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *testMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }
