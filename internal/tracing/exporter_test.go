package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewFileExporter_CreatesFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created")

	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer("test")

	_, span := tracer.Start(context.Background(), "save-draft")
	span.End()
	_, span = tracer.Start(context.Background(), "submit")
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))

	f, err := os.Open(tracePath) //nolint:gosec // test file
	require.NoError(t, err)
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		require.NotEmpty(t, rec.TraceID)
		require.NotEmpty(t, rec.SpanID)
		names = append(names, rec.Name)
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, []string{"save-draft", "submit"}, names)
}

func TestFileExporter_ShutdownTwice(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
