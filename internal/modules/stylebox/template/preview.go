package template

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var briefEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// RenderBrief renders the narrative quadrant texts of a box as storefront
// HTML. Quadrants that are absent render as a "not yet defined" stub rather
// than being skipped, so the four-quadrant layout stays stable.
func RenderBrief(t *models.StyleBoxModel) (string, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", t.Title)
	if t.DesignGuidelines != "" {
		fmt.Fprintf(&md, "%s\n\n", t.DesignGuidelines)
	}

	writeQuadrant(&md, "Archetype", func() bool { return t.Archetype != nil }, func() {
		fmt.Fprintf(&md, "**Silhouette:** %s\n\n", t.Archetype.Silhouette)
		if t.Archetype.Rationale != "" {
			fmt.Fprintf(&md, "%s\n\n", t.Archetype.Rationale)
		}
	})
	writeQuadrant(&md, "Mutation", func() bool { return t.Mutation != nil }, func() {
		fmt.Fprintf(&md, "**Concept:** %s\n\n", t.Mutation.Concept)
		if t.Mutation.Directive != "" {
			fmt.Fprintf(&md, "%s\n\n", t.Mutation.Directive)
		}
	})
	writeQuadrant(&md, "Restrictions", func() bool { return t.Restrictions != nil }, func() {
		for _, p := range t.Restrictions.Points {
			fmt.Fprintf(&md, "- %s\n", p)
		}
		md.WriteString("\n")
		if tol := t.Restrictions.Tolerances; tol.MaxWeight > 0 || tol.MaxCost > 0 {
			fmt.Fprintf(&md, "Tolerances: max weight %.2f, max cost %.2f\n\n", tol.MaxWeight, tol.MaxCost)
		}
	})
	writeQuadrant(&md, "Manifestation", func() bool { return t.Manifestation != nil }, func() {
		fmt.Fprintf(&md, "%s\n\n", t.Manifestation.Prompt)
	})

	var buf bytes.Buffer
	if err := briefEngine.Convert([]byte(md.String()), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeQuadrant(md *strings.Builder, name string, defined func() bool, body func()) {
	fmt.Fprintf(md, "## %s\n\n", name)
	if !defined() {
		md.WriteString("_Not yet defined._\n\n")
		return
	}
	body()
}
