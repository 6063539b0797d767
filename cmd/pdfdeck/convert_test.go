package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pdfdeck/internal/testutil"
)

func TestPageList(t *testing.T) {
	assert.Equal(t, "", pageList(nil))
	assert.Equal(t, "1", pageList([]int{0}))
	assert.Equal(t, "2, 5, 10", pageList([]int{1, 4, 9}))
}

func TestRoundPixels(t *testing.T) {
	assert.Equal(t, 1224, roundPixels(1224.4))
	assert.Equal(t, 1225, roundPixels(1224.5))
}

func TestConvertCmd_OutputRequiresSingleInput(t *testing.T) {
	convertOutput = "deck.pptx"
	t.Cleanup(func() { convertOutput = "" })

	err := runConvert(convertCmd, []string{"a.pdf", "b.pdf"})
	assert.EqualError(t, err, "--output can only be used with a single input file")
}

func TestOutputNames(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []string
		explicit string
		want     []string
	}{
		{"distinct", []string{"a/q1.pdf", "b/q2.pdf"}, "", []string{"q1.pptx", "q2.pptx"}},
		{"same base name", []string{"a/deck.pdf", "b/deck.pdf", "c/deck.pdf"}, "", []string{"deck.pptx", "deck-2.pptx", "deck-3.pptx"}},
		{"case-insensitive clash", []string{"a/Deck.pdf", "b/deck.PDF"}, "", []string{"Deck.pptx", "deck-2.pptx"}},
		{"suffix already in use", []string{"deck.pdf", "deck-2.pdf", "x/deck.pdf"}, "", []string{"deck.pptx", "deck-2.pptx", "deck-3.pptx"}},
		{"explicit name", []string{"in.pdf"}, "slides", []string{"slides.pptx"}},
		{"no base name", []string{"/"}, "", []string{"converted.pptx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputNames(tt.inputs, tt.explicit, "converted.pptx"))
		})
	}
}

func TestRunConvert_SameBaseNameKeepsBothOutputs(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PDFDECK_STORAGE_ENABLED", "false")

	convertOutDir = filepath.Join(dir, "out")
	t.Cleanup(func() { convertOutDir = "" })

	inputs := []string{filepath.Join(dir, "a", "deck.pdf"), filepath.Join(dir, "b", "deck.pdf")}
	for i, input := range inputs {
		pages := make([]testutil.PageSpec, i*2+1)
		for j := range pages {
			pages[j] = testutil.Letter
		}
		pdfBytes, err := testutil.BuildPDF(pages...)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
		require.NoError(t, os.WriteFile(input, pdfBytes, 0644))
	}

	require.NoError(t, setup(convertCmd, nil))
	require.NoError(t, runConvert(convertCmd, inputs))

	entries, err := os.ReadDir(convertOutDir)
	require.NoError(t, err)
	var files []string
	for _, e := range entries {
		files = append(files, e.Name())
	}
	assert.ElementsMatch(t, []string{"deck.pptx", "deck-2.pptx"}, files)
}
