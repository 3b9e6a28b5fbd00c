package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.DispatchInterval)
	assert.Equal(t, 5, cfg.DispatchBatchLimit)
	assert.Equal(t, 10*time.Minute, cfg.AssignmentTimeout)
	assert.Equal(t, 45*time.Minute, cfg.SLACreatedThreshold)
	assert.Empty(t, cfg.NotifyBrokers)
	require.Len(t, cfg.Riders, 2)
	assert.Equal(t, RiderConfig{
		ID: "r1", Name: "Rider Alpha", Zone: "CBD", ShiftStart: 6, ShiftEnd: 22,
		SpeedKph: 32, MaxActiveOrders: 2, AcceptanceRate: 0.96,
	}, cfg.Riders[0])
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DISPATCH_INTERVAL", "1m")
	t.Setenv("NOTIFY_BROKERS", " Redis, nats ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RIDER_BRAVO_ZONE", "bamburi")
	t.Setenv("RIDER_BRAVO_SHIFT_START", "22")
	t.Setenv("RIDER_BRAVO_SHIFT_END", "6")
	t.Setenv("RIDER_ALPHA_CHAT_ID", "555")

	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, time.Minute, cfg.DispatchInterval)
	assert.Equal(t, []string{"redis", "nats"}, cfg.NotifyBrokers)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "555", cfg.Riders[0].ChatID)
	assert.Equal(t, "bamburi", cfg.Riders[1].Zone)
	assert.Equal(t, 22, cfg.Riders[1].ShiftStart)
	assert.Equal(t, 6, cfg.Riders[1].ShiftEnd)

	riders, err := newRiderDirectory(cfg.Riders)
	require.NoError(t, err)
	r2, err := riders.Get(t.Context(), "r2")
	require.NoError(t, err)
	assert.Equal(t, "BAMBURI", string(r2.BaseZone()))
}

func TestLoadConfig_YAMLRoster(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store_driver: postgres
db_host: db.internal
riders:
  - id: r9
    name: Night Owl
    zone: KISAUNI
    shift_start: 20
    shift_end: 4
    speed_kph: 25
    max_active_orders: 1
    acceptance_rate: 0.8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
	require.Len(t, cfg.Riders, 1)
	assert.Equal(t, "r9", cfg.Riders[0].ID)
	assert.InDelta(t, 0.8, cfg.Riders[0].AcceptanceRate, 1e-9)
}

func TestNewRiderDirectory_RejectsInvalidRoster(t *testing.T) {
	tests := []struct {
		name  string
		rider RiderConfig
	}{
		{name: "unknown zone", rider: RiderConfig{ID: "r1", Name: "A", Zone: "MARS", ShiftStart: 6, ShiftEnd: 22, SpeedKph: 30, MaxActiveOrders: 1}},
		{name: "bad shift", rider: RiderConfig{ID: "r1", Name: "A", Zone: "CBD", ShiftStart: 25, ShiftEnd: 22, SpeedKph: 30, MaxActiveOrders: 1}},
		{name: "no capacity", rider: RiderConfig{ID: "r1", Name: "A", Zone: "CBD", ShiftStart: 6, ShiftEnd: 22, SpeedKph: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRiderDirectory([]RiderConfig{tt.rider})

			assert.Error(t, err)
		})
	}
}

func TestConfig_Location(t *testing.T) {
	loc, err := Config{Timezone: "Africa/Nairobi"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Nairobi", loc.String())

	_, err = Config{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}

func TestCompositionRoot_MemoryStore(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	root, err := NewCompositionRoot(t.Context(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	router, jobManager, err := root.CreateApp()
	require.NoError(t, err)
	assert.NotNil(t, router)
	assert.NotNil(t, jobManager)

	riders, err := root.CreateListRidersQueryHandler().Handle(t.Context(), queries.NewListRidersQuery())
	require.NoError(t, err)
	assert.Len(t, riders, 2)
}

func TestCompositionRoot_RejectsUnknownDrivers(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.StoreDriver = "sqlite"
	_, err = NewCompositionRoot(t.Context(), cfg, slog.Default())
	assert.ErrorContains(t, err, "unsupported store driver")

	cfg.StoreDriver = StoreDriverMemory
	cfg.NotifyBrokers = []string{"kafka"}
	_, err = NewCompositionRoot(t.Context(), cfg, slog.Default())
	assert.ErrorContains(t, err, "unsupported notify broker")
}
