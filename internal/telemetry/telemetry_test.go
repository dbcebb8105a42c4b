package telemetry_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/lava-ml/lavatensor/internal/telemetry"
)

// TestNewLogger filters below the requested level.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := telemetry.NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	_, err = telemetry.NewLogger(&buf, "loud")
	assert.Error(t, err)
}

// TestInitTracer exports spans on shutdown.
func TestInitTracer(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.InitTracer(&buf, "lava-test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "unit-span")
	assert.Contains(t, buf.String(), "lava-test")
}

// TestServeMetrics answers on /metrics.
func TestServeMetrics(t *testing.T) {
	srv, addr, err := telemetry.ServeMetrics("127.0.0.1:0", zerolog.Nop())
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
