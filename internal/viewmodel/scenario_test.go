package viewmodel

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/testutil"
)

func runScenario(t *testing.T, name string) []string {
	t.Helper()
	s, err := Lookup(name)
	testutil.AssertNoError(t, err, "Lookup")
	rec := &testutil.TraceRecorder{}
	s.Run(rec)
	return rec.Strings()
}

func TestScenarioPrimitives(t *testing.T) {
	testutil.AssertValues(t, runScenario(t, "primitives"), []string{
		"behavior_subject 0",
		"behavior_relay 0",
		"publish_subject 1",
		"publish_subject 2",
		"publish_subject sample failure",
		"publish_relay 1",
		"publish_relay 2",
		"publish_relay 3",
		"behavior_subject 1",
		"behavior_subject 2",
		"behavior_subject.value 2",
		"behavior_subject sample failure",
		"behavior_subject.value -1",
		"behavior_relay 1",
		"behavior_relay 2",
		"behavior_relay.value 2",
	}, "primitives trace")
}

func TestScenarioExternal(t *testing.T) {
	testutil.AssertValues(t, runScenario(t, "external"), []string{
		"publish_relay 1",
		"publish_relay 2",
	}, "external trace")
}

func TestScenarioOpenRelay(t *testing.T) {
	testutil.AssertValues(t, runScenario(t, "open-relay"), []string{
		"open_relay 1",
		"open_relay 0",
		"caller 0",
		"open_relay 1",
		"caller 1",
		"caller.value 1",
	}, "open-relay trace")
}

func TestScenarioExposedIO(t *testing.T) {
	testutil.AssertValues(t, runScenario(t, "exposed-io"), []string{
		"output 10",
		"output 20",
		"output 10",
	}, "exposed-io trace")
}

func TestScenarioSourceOfTruth(t *testing.T) {
	testutil.AssertValues(t, runScenario(t, "source-of-truth"), []string{
		"truth_reader 0",
		"owner_reader 0",
		"truth_mirror 0",
		"truth_reader 1",
		"owner_reader 1",
		"truth_mirror 1",
		"truth_owner.value 1",
		"truth_reader.current 1",
		"owner_reader.current 1",
	}, "source-of-truth trace")
}

func TestEveryScenarioRuns(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Scenarios() {
		if seen[s.Name] {
			t.Fatalf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		t.Run(s.Name, func(t *testing.T) {
			rec := &testutil.TraceRecorder{}
			s.Run(rec)
			if len(rec.Lines()) == 0 {
				t.Errorf("scenario %q traced nothing", s.Name)
			}
			// A nil tracer is allowed.
			s.Run(nil)
		})
	}
}

func TestEveryPatternHasAScenario(t *testing.T) {
	for _, p := range Patterns() {
		if _, err := Lookup(p.Name); err != nil {
			t.Errorf("pattern %q: %v", p.Name, err)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope")
	testutil.AssertError(t, err, "Lookup")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrUnknownScenario), "errors.Is ErrUnknownScenario")
	testutil.AssertContains(t, err.Error(), "nope", "message names the scenario")
}

func TestSlogTracer(t *testing.T) {
	var buf bytes.Buffer
	tr := SlogTracer(slog.New(slog.NewTextHandler(&buf, nil)))
	tr.Trace("tap_counter", 3)
	testutil.AssertContains(t, buf.String(), "msg=tap_counter", "message")
	testutil.AssertContains(t, buf.String(), "value=3", "value attr")
}
