package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewStage_StageShowsPanel(t *testing.T) {
	doc := NewDocument()
	p := NewPreviewStage(doc, "animationPreview")
	assert.Equal(t, StageEmpty, p.State())

	_, replaced := p.Stage(Item{ID: "a1", Media: "/static/animations/a1.mp4"})

	assert.False(t, replaced)
	assert.Equal(t, StageStaged, p.State())
	assert.Equal(t, Panel{Visible: true, Source: "/static/animations/a1.mp4"}, doc.Panel("animationPreview"))
}

func TestPreviewStage_StageReplacesSilently(t *testing.T) {
	doc := NewDocument()
	p := NewPreviewStage(doc, "animationPreview")
	p.Stage(Item{ID: "a1", Media: "first"})

	old, replaced := p.Stage(Item{ID: "a2", Media: "second"})

	assert.True(t, replaced)
	assert.Equal(t, "a1", old.ID)
	pending, ok := p.Pending()
	assert.True(t, ok)
	assert.Equal(t, "a2", pending.ID)
	assert.Equal(t, "second", doc.Panel("animationPreview").Source)
	assert.Empty(t, doc.Alerts())
}

func TestPreviewStage_OnePendingAcrossPanels(t *testing.T) {
	doc := NewDocument()
	p := NewPreviewStage(doc, "step1Preview")
	p.StageIn("step1Preview", Item{ID: "a1", Media: "first"})

	p.StageIn("animationPreview", Item{ID: "a2", Media: "second"})

	assert.False(t, doc.Panel("step1Preview").Visible)
	assert.Empty(t, doc.Panel("step1Preview").Source)
	assert.True(t, doc.Panel("animationPreview").Visible)
	assert.Equal(t, "animationPreview", p.Panel())
}

func TestPreviewStage_Clear(t *testing.T) {
	doc := NewDocument()
	p := NewPreviewStage(doc, "animationPreview")
	p.Stage(Item{ID: "a1", Media: "first"})

	cleared, ok := p.Clear()

	assert.True(t, ok)
	assert.Equal(t, "a1", cleared.ID)
	assert.Equal(t, StageEmpty, p.State())
	assert.Equal(t, Panel{}, doc.Panel("animationPreview"))

	_, ok = p.Clear()
	assert.False(t, ok)
}

func TestPreviewStage_ClearIfIgnoresNewerStage(t *testing.T) {
	doc := NewDocument()
	p := NewPreviewStage(doc, "animationPreview")
	first := Item{ID: "a1", Media: "first"}
	p.Stage(first)
	p.Stage(Item{ID: "a2", Media: "second"})

	assert.False(t, p.clearIf(first))
	assert.Equal(t, StageStaged, p.State())
	assert.True(t, doc.Panel("animationPreview").Visible)
}
