package overlay

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/tsawler/pdfpipe/internal/pdftest"
	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/reader"
)

// buffer is an in-memory destination that records Close
type buffer struct {
	bytes.Buffer
	closed int
}

func (b *buffer) Close() error {
	b.closed++
	return nil
}

func pageEvents(t *testing.T, data []byte, n int) []model.Event {
	t.Helper()
	r, err := reader.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	p, err := r.Page(n)
	require.NoError(t, err)

	var events []model.Event
	require.NoError(t, p.Walk(func(ev model.Event) { events = append(events, ev) }))
	return events
}

func TestTarget_DrawAndWrite(t *testing.T) {
	src := pdftest.Build(pdftest.Numbered(2)...)
	dst := &buffer{}

	target, err := NewTarget(bytes.NewReader(src), dst)
	require.NoError(t, err)
	assert.Equal(t, 2, target.PageCount())

	s, err := target.Surface(1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Page())
	require.NoError(t, s.StrokeRect(50, 60, 100, 20, colornames.Red))
	require.NoError(t, s.StrokeLine(10, 10, 200, 10, colornames.Blue))
	require.NoError(t, s.Close())

	require.NoError(t, target.Close())
	assert.Equal(t, 1, dst.closed)

	out := dst.Bytes()
	r, err := reader.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Equal(t, 2, r.PageCount())

	events := pageEvents(t, out, 1)
	require.Len(t, events, 3)
	assert.Equal(t, "Page 1", events[0].Text)
	require.Len(t, events[1].Rects, 1)
	assert.Equal(t, model.NewBBox(50, 60, 100, 20), events[1].Rects[0])
	require.Len(t, events[2].Segments, 1)
	assert.Equal(t, model.Point{X: 200, Y: 10}, events[2].Segments[0].To)

	// untouched pages keep their content only
	events = pageEvents(t, out, 2)
	require.Len(t, events, 1)
	assert.Equal(t, "Page 2", events[0].Text)
}

func TestTarget_OverlayIgnoresPageCTM(t *testing.T) {
	// the page leaves a scaled CTM behind
	src := pdftest.Build(pdftest.Page{Raw: "2 0 0 2 0 0 cm"})
	dst := &buffer{}

	target, err := NewTarget(bytes.NewReader(src), dst)
	require.NoError(t, err)
	s, err := target.Surface(1)
	require.NoError(t, err)
	require.NoError(t, s.StrokeRect(10, 10, 5, 5, color.Black))
	require.NoError(t, target.Close())

	events := pageEvents(t, dst.Bytes(), 1)
	require.Len(t, events, 1)
	assert.Equal(t, model.NewBBox(10, 10, 5, 5), events[0].Rects[0])
}

func TestTarget_CloseCommitsOpenSurfaces(t *testing.T) {
	dst := &buffer{}
	target, err := NewTarget(bytes.NewReader(pdftest.Build(pdftest.Numbered(1)...)), dst)
	require.NoError(t, err)

	s, err := target.Surface(1)
	require.NoError(t, err)
	require.NoError(t, s.StrokeRect(1, 2, 3, 4, nil))

	require.NoError(t, target.Close())
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.StrokeRect(1, 2, 3, 4, nil), ErrSurfaceClosed)
	assert.NoError(t, s.Close())

	assert.Len(t, pageEvents(t, dst.Bytes(), 1), 2)
}

func TestTarget_CloseTwice(t *testing.T) {
	dst := &buffer{}
	target, err := NewTarget(bytes.NewReader(pdftest.Build(pdftest.Numbered(1)...)), dst)
	require.NoError(t, err)

	require.NoError(t, target.Close())
	require.NoError(t, target.Close())
	assert.Equal(t, 1, dst.closed)

	_, err = target.Surface(1)
	assert.ErrorIs(t, err, ErrTargetClosed)
}

func TestTarget_SurfaceOutOfRange(t *testing.T) {
	target, err := NewTarget(bytes.NewReader(pdftest.Build(pdftest.Numbered(2)...)), &buffer{})
	require.NoError(t, err)

	for _, n := range []int{0, 3} {
		_, err := target.Surface(n)
		assert.ErrorIs(t, err, ErrPageRange)
	}
}

func TestTarget_MultipleSurfacesAccumulate(t *testing.T) {
	dst := &buffer{}
	target, err := NewTarget(bytes.NewReader(pdftest.Build(pdftest.Numbered(1)...)), dst)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		s, err := target.Surface(1)
		require.NoError(t, err)
		require.NoError(t, s.StrokeRect(float64(i*10), 0, 5, 5, nil))
		require.NoError(t, s.Close())
	}
	require.NoError(t, target.Close())

	assert.Len(t, pageEvents(t, dst.Bytes(), 1), 3)
}

func TestNewTarget_Corrupt(t *testing.T) {
	dst := &buffer{}
	_, err := NewTarget(bytes.NewReader([]byte("not a pdf")), dst)
	assert.Error(t, err)
	assert.Zero(t, dst.closed)
}

func TestStrokeColor(t *testing.T) {
	assert.Equal(t, "1.000 0.000 0.000 RG", strokeColor(color.RGBA{R: 255, A: 255}))
	assert.Equal(t, "0.000 0.000 0.000 RG", strokeColor(nil))
}
