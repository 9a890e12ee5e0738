package doodle

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ShouldReportDebugEvents(t *testing.T) {
	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	c := newController(t, 10, 10)
	assert.False(t, c.Undo())
	assert.Contains(t, out.String(), "nothing to undo")

	require.NoError(t, c.SelectTool(Fill))
	c.SetColor(white)
	require.NoError(t, c.PointerDown(image.Pt(1, 1)))
	assert.Contains(t, out.String(), "degenerate fill skipped")
}

func TestLogger_DefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
