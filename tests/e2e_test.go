package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type stubbleHubContainer struct {
	testcontainers.Container
	URI string
}

func setupStubbleHub(ctx context.Context, t *testing.T) (*stubbleHubContainer, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "test-secret"
	}

	natPort := nat.Port(port + "/tcp")

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../",
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{string(natPort)},
		Env: map[string]string{
			"PORT":         port,
			"GIN_MODE":     "release",
			"DATABASE_URL": "sqlite::memory:",
			"JWT_SECRET":   jwtSecret,
			"TEST_MODE":    "true",
		},
		WaitingFor: wait.ForHTTP("/healthz").
			WithPort(natPort).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	var hubC *stubbleHubContainer
	if container != nil {
		hubC = &stubbleHubContainer{Container: container}
	}
	if err != nil {
		return hubC, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return hubC, err
	}

	mappedPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return hubC, err
	}

	hubC.URI = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return hubC, nil
}

func doJSON(t *testing.T, method, url, body, userID, role string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", userID)
	req.Header.Set("X-Test-Role", role)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", string(raw))
	}
	if resp.StatusCode >= 400 {
		t.Logf("%s %s -> %d: %s", method, url, resp.StatusCode, string(raw))
	}
	return resp.StatusCode, result
}

// TestE2E_PickupFlow drives one booking over HTTP from creation to payout.
func TestE2E_PickupFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	hubC, err := setupStubbleHub(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, hubC)

	const (
		farmer   = "1"
		operator = "10"
		hubUser  = "100"
	)

	// Farmer books a pickup and gets an estimate up front.
	status, booking := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/bookings", `{
		"farm_plot_id": 1,
		"crop_type": "paddy",
		"area_acres": 5,
		"harvest_end_date": "2026-11-01T00:00:00Z",
		"pickup_window_start": "2026-11-02T00:00:00Z",
		"pickup_window_end": "2026-11-05T00:00:00Z"
	}`, farmer, "farmer")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 6.0, booking["estimated_tonnes"])
	assert.Equal(t, 12000.0, booking["estimated_price"])
	bookingID := int(booking["id"].(float64))

	// Hub confirms and registers a baler.
	status, _ = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/v1/hub/bookings/%d/confirm", hubC.URI, bookingID), "", hubUser, "hub")
	require.Equal(t, http.StatusOK, status)

	status, vehicle := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/vehicles", `{
		"hub_id": 1,
		"registration_no": "PB-11-AA-1234",
		"type": "baler",
		"operator_id": 10,
		"time_per_tonne_minutes": 30
	}`, hubUser, "hub")
	require.Equal(t, http.StatusCreated, status)
	balerID := int(vehicle["id"].(float64))

	// Dispatch.
	status, result := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/assignments",
		fmt.Sprintf(`{"booking_id": %d, "baler_vehicle_id": %d}`, bookingID, balerID), hubUser, "hub")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 180.0, result["estimated_minutes"])
	assignment := result["assignment"].(map[string]interface{})
	assignmentID := int(assignment["id"].(float64))

	// Operator works the job.
	for _, next := range []string{"accepted", "en_route", "arrived", "work_started"} {
		status, _ = doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/v1/operator/assignments/%d/advance", hubC.URI, assignmentID),
			fmt.Sprintf(`{"status": %q}`, next), operator, "operator")
		require.Equal(t, http.StatusOK, status, "advance to %s", next)
	}

	status, completed := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/v1/operator/assignments/%d/complete", hubC.URI, assignmentID), `{
		"actual_quantity_tonnes": 5.8,
		"time_required_minutes": 150,
		"bale_count": 23
	}`, operator, "operator")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "work_complete", completed["operator_status"])

	// Hub reconciles against the weighbridge.
	status, approved := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/v1/hub/assignments/%d/approve", hubC.URI, assignmentID),
		`{"final_quantity_tonnes": 5.8}`, hubUser, "hub")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", approved["status"])

	// Stock arrives at the hub.
	status, entry := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/inventory/inbound",
		fmt.Sprintf(`{"assignment_id": %d}`, assignmentID), hubUser, "hub")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 5.8, entry["quantity_tonnes"])

	status, stock := doJSON(t, http.MethodGet, hubC.URI+"/api/v1/hub/hubs/1/inventory/stock", "", hubUser, "hub")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5.8, stock["current_stock_tonnes"])

	// Payout preview then commit.
	status, breakdown := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/payouts/calculate",
		fmt.Sprintf(`{"farmer_id": 1, "booking_ids": [%d]}`, bookingID), hubUser, "hub")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 11890.0, breakdown["net_payable"])

	status, payout := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/payouts",
		fmt.Sprintf(`{"farmer_id": 1, "booking_ids": [%d]}`, bookingID), hubUser, "hub")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", payout["status"])
	assert.Equal(t, 11890.0, payout["net_payable"])

	// Committing the same booking twice is refused.
	status, _ = doJSON(t, http.MethodPost, hubC.URI+"/api/v1/hub/payouts",
		fmt.Sprintf(`{"farmer_id": 1, "booking_ids": [%d]}`, bookingID), hubUser, "hub")
	assert.Equal(t, http.StatusConflict, status)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	hubC, err := setupStubbleHub(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, hubC)

	// A farmer cannot touch hub endpoints.
	status, _ := doJSON(t, http.MethodGet, hubC.URI+"/api/v1/hub/bookings", "", "1", "farmer")
	assert.Equal(t, http.StatusForbidden, status)

	// An operator cannot create bookings.
	status, _ = doJSON(t, http.MethodPost, hubC.URI+"/api/v1/bookings",
		`{"farm_plot_id": 1, "crop_type": "paddy", "area_acres": 5}`, "10", "operator")
	assert.Equal(t, http.StatusForbidden, status)

	// Missing test headers fall through to 401.
	req, err := http.NewRequest(http.MethodGet, hubC.URI+"/api/v1/bookings", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestE2E_UnknownCropRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	hubC, err := setupStubbleHub(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, hubC)

	status, body := doJSON(t, http.MethodPost, hubC.URI+"/api/v1/bookings", `{
		"farm_plot_id": 1,
		"crop_type": "quinoa",
		"area_acres": 5
	}`, "1", "farmer")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "crop")
}
