package services

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedService string

func (n namedService) ID() string {
	return string(n)
}

func TestServiceLoggerMethodTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	logger := NewServiceLogger(namedService("graph-service"))
	logger.Method("Refresh").Warn().Msg("refresh failed")

	var event map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "graph-service", event["service"])
	assert.Equal(t, "Refresh", event["method"])
	assert.Equal(t, "warn", event["level"])

	buf.Reset()
	logger.Info().Msg("published")
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &event))
	assert.NotContains(t, buf.String(), `"method"`)
}
