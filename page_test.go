package pdfpipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfpipe/layout"
	"github.com/tsawler/pdfpipe/model"
)

func TestPage_ParseStreamsEvents(t *testing.T) {
	doc, _, _ := newFakeDocument(t, []model.Event{
		textEvent(0, "Hello", 700),
		textEvent(1, "World", 680),
	})
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)

	ext := &resultExtractor{result: model.NewBlockPage(p.Info())}
	result, err := p.Parse(ext)
	require.NoError(t, err)
	assert.Equal(t, 1, ext.begun)
	assert.Equal(t, 2, ext.events)

	last, err := p.LastResult()
	require.NoError(t, err)
	assert.Same(t, result, last)
}

func TestPage_ParseWithRunExtractor(t *testing.T) {
	doc, _, _ := newFakeDocument(t, []model.Event{
		textEvent(0, "Hello", 700),
		textEvent(1, "World", 680),
	})
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)
	result, err := p.Parse(layout.NewRunExtractor())
	require.NoError(t, err)
	require.Len(t, result.Blocks, 2)
	assert.Equal(t, "Hello", result.Blocks[0].Text)
	assert.Equal(t, 1, result.Page.Number)
}

func TestPage_InvalidResult(t *testing.T) {
	doc, _, _ := newFakeDocument(t, nil)
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		result *model.BlockPage
	}{
		{"nil result", nil},
		{"nil blocks", &model.BlockPage{Page: p.Info()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(&resultExtractor{result: tt.result})
			assert.ErrorIs(t, err, ErrInvalidParseResult)
			_, err = p.LastResult()
			assert.ErrorIs(t, err, ErrNotParsed)
		})
	}
}

func TestPage_InvalidResultKeepsPrevious(t *testing.T) {
	doc, _, _ := newFakeDocument(t, nil)
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)

	good := model.NewBlockPage(p.Info())
	_, err = p.Parse(&resultExtractor{result: good})
	require.NoError(t, err)

	_, err = p.Parse(&resultExtractor{})
	require.ErrorIs(t, err, ErrInvalidParseResult)

	last, err := p.LastResult()
	require.NoError(t, err)
	assert.Same(t, good, last)
	assert.Zero(t, last.Len())
}

func TestPage_EngineFailureIsCorrupt(t *testing.T) {
	doc, eng, _ := newFakeDocument(t, nil)
	defer doc.Close()

	errDecode := errors.New("bad stream")
	eng.walkErr = map[int]error{1: errDecode}

	p, err := doc.Page(1)
	require.NoError(t, err)
	_, err = p.Parse(layout.NewRunExtractor())
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, errDecode)
}

func TestPage_NotParsed(t *testing.T) {
	doc, _, _ := newFakeDocument(t, nil)
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)
	_, err = p.LastResult()
	assert.ErrorIs(t, err, ErrNotParsed)
}

func TestPage_Close(t *testing.T) {
	doc, _, _ := newFakeDocument(t, nil)
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)
	result, err := p.Parse(layout.NewRunExtractor())
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())

	_, err = p.Parse(layout.NewRunExtractor())
	assert.ErrorIs(t, err, ErrPageClosed)
	assert.ErrorIs(t, p.DrawRectangle(0, 0, 1, 1, nil), ErrPageClosed)
	assert.ErrorIs(t, p.DrawLine(0, 0, 1, 1, nil), ErrPageClosed)

	// the result of a closed page stays readable
	last, err := p.LastResult()
	require.NoError(t, err)
	assert.Same(t, result, last)
}

func TestPage_DrawWithoutOverlay(t *testing.T) {
	doc, _, _ := newFakeDocument(t, nil)
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)
	assert.ErrorIs(t, p.DrawRectangle(0, 0, 1, 1, nil), ErrNoOverlay)
	assert.ErrorIs(t, p.DrawLine(0, 0, 1, 1, nil), ErrNoOverlay)
}

func TestParseWith(t *testing.T) {
	doc, _, _ := newFakeDocument(t, []model.Event{textEvent(0, "x", 700)})
	defer doc.Close()

	p, err := doc.Page(1)
	require.NoError(t, err)
	require.NoError(t, ParseWith(layout.NewRunExtractor())(p))

	last, err := p.LastResult()
	require.NoError(t, err)
	assert.Equal(t, 1, last.Len())

	assert.ErrorIs(t, ParseWith(&resultExtractor{})(p), ErrInvalidParseResult)
}
