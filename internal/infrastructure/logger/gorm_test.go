package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func traceFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Options(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)

	warn, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	const stmt = `SELECT * FROM "coc_documents" WHERE material_name = 'Glass' FOR UPDATE`

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"error", gormlogger.Warn, time.Now(), errors.New("deadlock detected"), "SQL Error"},
		{"record not found ignored", gormlogger.Info, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"slow query", gormlogger.Warn, time.Now().Add(-time.Second), nil, "SLOW SQL"},
		{"normal query", gormlogger.Info, time.Now(), nil, "SQL Query"},
		{"normal query below info", gormlogger.Warn, time.Now(), nil, ""},
		{"silent", gormlogger.Silent, time.Now(), errors.New("ignored"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level)

			gl.Trace(context.Background(), tt.begin, traceFn(stmt, 2), tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, logs.Len())
				return
			}
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, stmt, entry.ContextMap()["sql"])
			assert.Equal(t, int64(2), entry.ContextMap()["rows"])
		})
	}
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	gl.Trace(ctx, time.Now(), traceFn("SELECT 1", 1), nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-7", logs.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LevelMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "info %d", 1)
	gl.Warn(context.Background(), "warn %d", 2)
	gl.Error(context.Background(), "error %d", 3)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "warn 2", logs.All()[0].Message)
	assert.Equal(t, "error 3", logs.All()[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
