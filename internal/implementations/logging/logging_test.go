package logging

import (
	"context"
	"errors"
	"linetask/internal/core/domain/logging"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerLevelsAndEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := fromZap(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "Parsed message.", logging.Entry("title", "数学の宿題"))
	log.Info(ctx, "Task registered.", logging.Entry("taskID", "t1"), logging.Entry("deadline", "2026-10-19"))
	log.Warning(ctx, "Reply token is empty.")
	logging.Error(ctx, log, errors.New("boom"), logging.Entry("userID", "U1"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "Task registered.", entries[0].Message)
	require.Equal(t, map[string]interface{}{"taskID": "t1", "deadline": "2026-10-19"}, entries[0].ContextMap())

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Empty(t, entries[1].ContextMap())

	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.Equal(t, "Unexpected error occurred.", entries[2].Message)
	require.Equal(t, "U1", entries[2].ContextMap()["userID"])
	require.Equal(t, "boom", entries[2].ContextMap()["err"])
}
