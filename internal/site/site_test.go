package site

import "testing"

func TestProjectsGraphConsistent(t *testing.T) {
	g := Projects()

	if len(g.Nodes) == 0 {
		t.Fatal("no project nodes")
	}

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" || n.Label == "" || n.Group == "" {
			t.Errorf("incomplete node: %+v", n)
		}
		if ids[n.ID] {
			t.Errorf("duplicate node ID %q", n.ID)
		}
		ids[n.ID] = true
	}

	// Every link endpoint must reference an existing node.
	for _, l := range g.Links {
		if !ids[l.Source] {
			t.Errorf("link source %q is not a node", l.Source)
		}
		if !ids[l.Target] {
			t.Errorf("link target %q is not a node", l.Target)
		}
	}
}

func TestSkillsNonEmpty(t *testing.T) {
	groups := Skills()
	if len(groups) == 0 {
		t.Fatal("no skill groups")
	}
	for _, g := range groups {
		if g.Category == "" || len(g.Skills) == 0 {
			t.Errorf("incomplete skill group: %+v", g)
		}
	}
}
