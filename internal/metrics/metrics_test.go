package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// scrape renders m and returns the exposition text.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("exposition missing %q\n%s", w, body)
		}
	}
}

func TestObserveTool(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveTool("list_s3_buckets", true, "", 10*time.Millisecond)
	m.ObserveTool("list_s3_buckets", false, "provider", 5*time.Millisecond)
	m.ObserveTool("aws_cli_command", false, "command", time.Millisecond)

	body := scrape(t, m)
	assertContains(t, body,
		"# TYPE awsai_tool_calls_total counter",
		`awsai_tool_calls_total{outcome="ok",tool="list_s3_buckets"} 1`,
		`awsai_tool_calls_total{outcome="error",tool="list_s3_buckets"} 1`,
		`awsai_tool_errors_total{kind="command",tool="aws_cli_command"} 1`,
		`awsai_tool_duration_seconds_count{tool="list_s3_buckets"} 2`,
	)
	if strings.Contains(body, `awsai_tool_errors_total{kind=""`) {
		t.Error("successful call recorded as an error")
	}
}

func TestObserveModelAndQuery(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveModel("respond", true, time.Second)
	m.ObserveModel("respond", false, time.Second)
	m.ObserveModel("select", true, 2*time.Second)
	m.ObserveQuery(true)
	m.ObserveQuery(false)
	m.ObserveQuery(false)

	assertContains(t, scrape(t, m),
		`awsai_model_requests_total{call="respond",outcome="error"} 1`,
		`awsai_model_requests_total{call="select",outcome="ok"} 1`,
		`awsai_model_duration_seconds_count{call="respond"} 2`,
		`awsai_harness_queries_total{dispatched="false"} 2`,
		`awsai_harness_queries_total{dispatched="true"} 1`,
	)
}

func TestNew_IsolatedRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.ObserveQuery(true)

	if strings.Contains(scrape(t, b), "awsai_harness_queries_total") {
		t.Error("metrics leaked between registries")
	}
	if a.Gatherer() == b.Gatherer() {
		t.Error("Gatherer() shared between instances")
	}
}
