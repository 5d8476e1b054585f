package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/aretw0/voyant/internal/adapters/http"
	"github.com/aretw0/voyant/internal/service"
	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/domain"
)

type staticSearch struct {
	data    *domain.TravelData
	summary string
	err     error
}

func (s *staticSearch) Search(_ context.Context, _ domain.TravelForm) (*domain.TravelData, string, error) {
	return s.data, s.summary, s.err
}

func newTestServer(t *testing.T, provider service.Provider) (*api.Server, *httptest.Server) {
	t.Helper()

	srv := api.NewServer(nil)
	exec := service.NewExecutor(memory.NewStore(), provider,
		service.WithStepDelay(0),
		service.WithNotify(srv.BroadcastState),
	)
	srv.Service = exec

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func defaultProvider() service.Provider {
	return &staticSearch{
		data: &domain.TravelData{
			DepartureFlight: &domain.FlightOption{Airline: "Atlas Air Lines", Price: 1200},
			ReturnFlight:    &domain.FlightOption{Airline: "Atlas Air Lines", Price: 1100},
			Accommodation:   &domain.Accommodation{HotelName: "The Tokyo Grand", Price: 900},
		},
		summary: "A fine trip.",
	}
}

func startPlan(t *testing.T, baseURL string) domain.PlanState {
	t.Helper()

	body := `{"origin":"Lisbon","destination":"Tokyo","departure_date":"2026-09-12","return_date":"2026-09-26","cabin_class":"economy","passengers":1}`
	resp, err := http.Post(baseURL+"/plan/start", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state domain.PlanState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	return state
}

func fetchState(t *testing.T, baseURL, planRunID string) (int, domain.PlanState) {
	t.Helper()

	resp, err := http.Get(baseURL + "/plan/" + planRunID + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var state domain.PlanState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	return resp.StatusCode, state
}

func TestStartPlanReturnsPreparingState(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	state := startPlan(t, ts.URL)
	assert.NotEmpty(t, state.PlanRunID)
	assert.Equal(t, domain.RunPreparing, state.State)
	assert.Equal(t, "Preparing your travel plan...", state.StatusMessage)
}

func TestStartPlanRejectsMalformedBody(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	resp, err := http.Post(ts.URL+"/plan/start", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartPlanRejectsIncompleteForm(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	resp, err := http.Post(ts.URL+"/plan/start", "application/json", strings.NewReader(`{"origin":"Lisbon"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["detail"])
}

func TestGetPlanStateReachesCompletion(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())
	state := startPlan(t, ts.URL)

	deadline := time.Now().Add(5 * time.Second)
	for {
		code, current := fetchState(t, ts.URL, state.PlanRunID)
		require.Equal(t, http.StatusOK, code)
		if current.State.Terminal() {
			assert.Equal(t, domain.RunComplete, current.State)
			assert.Equal(t, "Plan completed successfully", current.StatusMessage)

			encoded, ok := current.FinalOutput.(string)
			require.True(t, ok)
			assert.Contains(t, encoded, "Atlas Air Lines")
			return
		}
		require.True(t, time.Now().Before(deadline), "plan never reached a terminal state")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetPlanStateFailure(t *testing.T) {
	_, ts := newTestServer(t, &staticSearch{err: service.ErrNoFlights})
	state := startPlan(t, ts.URL)

	deadline := time.Now().Add(5 * time.Second)
	for {
		code, current := fetchState(t, ts.URL, state.PlanRunID)
		require.Equal(t, http.StatusOK, code)
		if current.State.Terminal() {
			assert.Equal(t, domain.RunFailed, current.State)
			assert.Equal(t, "No flights found", current.Error)
			assert.Equal(t, "Plan failed: No flights found", current.StatusMessage)
			return
		}
		require.True(t, time.Now().Before(deadline), "plan never reached a terminal state")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetPlanStateUnknownRun(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	code, state := fetchState(t, ts.URL, "does-not-exist")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, domain.RunNotFound, state.State)
	assert.Equal(t, "does-not-exist", state.PlanRunID)
	assert.Equal(t, "Plan not found", state.StatusMessage)
}

func TestHealthAndInfo(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/info")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var info map[string]string
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&info))
	assert.Equal(t, "voyant-planner", info["app"])
	assert.NotEmpty(t, info["version"])
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/plan/start", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestOpenAPISpecServed(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())

	resp, err := http.Get(ts.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Voyant Planner API")
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, defaultProvider())
	startPlan(t, ts.URL)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "voyant_plan_runs_started_total")
}

func TestStreamPlanEventsDeliversSnapshots(t *testing.T) {
	srv, ts := newTestServer(t, defaultProvider())
	state := startPlan(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/plan/"+state.PlanRunID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Nudge a broadcast in case the run finished before we subscribed.
	srv.BroadcastState(&domain.PlanState{PlanRunID: state.PlanRunID, State: domain.RunComplete})

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var snapshot domain.PlanState
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snapshot))
		assert.Equal(t, state.PlanRunID, snapshot.PlanRunID)
		return
	}
	t.Fatal("no SSE event received")
}
