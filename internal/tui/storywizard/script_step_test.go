package storywizard

import (
	"testing"

	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChaptersToMarkdown(t *testing.T) {
	chapters := []session.Chapter{
		{Title: "Arrival", Narration: "We got there at noon."},
		{Title: "The Beach", Narration: "The kids ran straight for the water."},
	}

	md := chaptersToMarkdown(chapters)
	assert.Contains(t, md, "## Arrival")
	assert.Contains(t, md, "We got there at noon.")
	assert.Contains(t, md, "## The Beach")
}

func TestMarkdownToChaptersRoundTrip(t *testing.T) {
	chapters := []session.Chapter{
		{Title: "Arrival", Narration: "We got there at noon."},
		{Title: "The Beach", Narration: "The kids ran straight for the water.\nNobody wanted to leave."},
	}

	parsed, err := markdownToChapters(chaptersToMarkdown(chapters))
	require.NoError(t, err)
	assert.Equal(t, chapters, parsed)
}

func TestMarkdownToChaptersNoHeadings(t *testing.T) {
	_, err := markdownToChapters("just some prose without headings")
	assert.Error(t, err)
}

func TestMarkdownToChaptersEmptyNarration(t *testing.T) {
	_, err := markdownToChapters("## Lonely Title\n")
	assert.Error(t, err)
}

func TestMarkdownToChaptersIgnoresLeadingProse(t *testing.T) {
	parsed, err := markdownToChapters("preamble text\n\n## One\n\nBody one.\n")
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "One", parsed[0].Title)
	assert.Equal(t, "Body one.", parsed[0].Narration)
}

func TestScriptStepEditApplied(t *testing.T) {
	step := NewScriptStep([]session.Chapter{{Title: "Old", Narration: "Old text."}})

	step.Update(ScriptEditedMsg{Content: "## New\n\nNew text.\n"})

	require.Len(t, step.Chapters(), 1)
	assert.Equal(t, "New", step.Chapters()[0].Title)
	assert.True(t, step.WasEdited())
}

func TestScriptStepEditRejectedKeepsChapters(t *testing.T) {
	step := NewScriptStep([]session.Chapter{{Title: "Old", Narration: "Old text."}})

	step.Update(ScriptEditedMsg{Content: "no headings here"})

	require.Len(t, step.Chapters(), 1)
	assert.Equal(t, "Old", step.Chapters()[0].Title)
	assert.False(t, step.WasEdited())
	assert.NotEmpty(t, step.err)
}
