package graph

import (
	"fmt"
	"strings"
)

// Mermaid renders g as a left-to-right Mermaid flowchart. Node colors
// become style lines.
func Mermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for _, n := range g.Nodes {
		id := sanitizeID(n.ID)
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escapeMermaid(n.Label)))
	}

	for _, e := range g.Edges {
		fromID := sanitizeID(e.From)
		toID := sanitizeID(e.To)
		arrow := "---"
		if e.Arrows != "" {
			arrow = "-->"
		}
		if e.Label != "" {
			b.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", fromID, arrow, escapeMermaid(e.Label), toID))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", fromID, arrow, toID))
		}
	}

	for _, n := range g.Nodes {
		if n.Color != "" {
			b.WriteString(fmt.Sprintf("    style %s fill:%s\n", sanitizeID(n.ID), n.Color))
		}
	}

	return b.String()
}

var idReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ".", "_", "-", "_", " ", "_",
	"(", "_", ")", "_", "[", "_", "]", "_", "{", "_", "}", "_",
	":", "_", "#", "_", "\"", "_", "<", "_", ">", "_", "'", "_",
)

// sanitizeID converts an IRI or literal into a safe Mermaid node ID.
// A prefix keeps IDs from starting with a digit or clashing with keywords.
func sanitizeID(s string) string {
	return "n_" + idReplacer.Replace(s)
}

// escapeMermaid escapes characters that have special meaning in Mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
