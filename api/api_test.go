package api

import (
	"strings"
	"testing"
)

func TestMarkdownListsEveryEndpoint(t *testing.T) {
	md := Markdown()
	for _, ep := range Endpoints {
		if !strings.Contains(md, "## "+ep.Name+"\n") {
			t.Errorf("missing section for %s", ep.Name)
		}
		if !strings.Contains(md, "```"+ep.Method+" "+ep.Path+"```") {
			t.Errorf("missing route line for %s %s", ep.Method, ep.Path)
		}
	}
}

func TestMarkdownParamTable(t *testing.T) {
	md := Markdown()
	if !strings.Contains(md, "|	radius	|	number	|") {
		t.Error("nearby radius parameter not documented")
	}
}
