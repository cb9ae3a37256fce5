package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type lotRow struct {
	ID         int64  `gorm:"primaryKey"`
	LotBatchNo string `gorm:"size:64"`
}

func (lotRow) TableName() string { return "coc_documents" }

func newInstrumentedDB(t *testing.T, cfg DBConfig, withMetrics bool) (*gorm.DB, *DBInstrumentation, *tracetest.SpanRecorder, func() map[string]int64) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lotRow{}))

	mp, reader := newTestMeter(t)
	meter := mp.Meter(MeterName)
	if !withMetrics {
		meter = nil
	}
	in, err := InstrumentDatabase(db, cfg, meter, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Close() })

	readCounts := func() map[string]int64 {
		metrics := collect(t, reader)
		out := map[string]int64{}
		for _, name := range []string{"db_query_total", "db_slow_query_total"} {
			m, ok := metrics[name]
			if !ok {
				continue
			}
			out[name+":insert"] = sumFor(t, m, attribute.String("operation", "create"), attribute.String("table", "coc_documents"), attribute.Bool("error", false))
			out[name+":select"] = sumFor(t, m, attribute.String("operation", "select"), attribute.String("table", "coc_documents"), attribute.Bool("error", false))
		}
		return out
	}
	return db, in, recorder, readCounts
}

func TestInstrumentDatabase_Metrics(t *testing.T) {
	db, _, _, counts := newInstrumentedDB(t, DBConfig{SlowQueryThreshold: time.Hour}, true)
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&lotRow{LotBatchNo: "G-1"}).Error)
	var rows []lotRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)

	got := counts()
	assert.Equal(t, int64(1), got["db_query_total:insert"])
	assert.Equal(t, int64(2), got["db_query_total:select"])
	assert.Equal(t, int64(0), got["db_slow_query_total:select"])
}

func TestInstrumentDatabase_SlowQueries(t *testing.T) {
	db, _, _, counts := newInstrumentedDB(t, DBConfig{SlowQueryThreshold: time.Nanosecond}, true)

	var rows []lotRow
	require.NoError(t, db.Find(&rows).Error)

	assert.Equal(t, int64(1), counts()["db_slow_query_total:select"])
}

func TestInstrumentDatabase_Tracing(t *testing.T) {
	db, _, recorder, _ := newInstrumentedDB(t, DBConfig{TraceEnabled: true, DBName: "sqlite", SlowQueryThreshold: time.Nanosecond}, false)

	require.NoError(t, db.Create(&lotRow{LotBatchNo: "G-1"}).Error)
	var row lotRow
	err := db.Where("lot_batch_no = ?", "missing").First(&row).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var sawTable, sawSlow bool
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			switch kv.Key {
			case "db.sql.table":
				sawTable = sawTable || kv.Value.AsString() == "coc_documents"
			case "db.slow_query":
				sawSlow = sawSlow || kv.Value.AsBool()
			}
		}
	}
	assert.True(t, sawTable)
	assert.True(t, sawSlow)
}

func TestDetectOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM coc_documents":      "select",
		"  insert into companies values()": "insert",
		"UPDATE coc_documents SET x = 1":   "update",
		"DELETE FROM companies":            "delete",
		"WITH t AS (SELECT 1) SELECT *":    "select",
		"PRAGMA foreign_keys = ON":         "other",
		"":                                 "other",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperation(sql), sql)
	}
}
