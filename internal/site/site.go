// Package site holds the static portfolio payloads served by the API.
// The data is fixed at build time; the frontend renders it as a constellation
// graph plus a skills list.
package site

// Node is one project in the constellation graph.
type Node struct {
	ID    string `json:"id"`
	Group string `json:"group"`
	Label string `json:"label"`
}

// Link connects two projects in the same constellation.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the full projects payload.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// SkillGroup is one category in the skills payload.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Projects returns the project constellation graph.
func Projects() Graph {
	return Graph{
		Nodes: []Node{
			// AI Projects constellation
			{ID: "peata", Group: "AI Projects", Label: "Peata - AI Pet Reunification"},
			{ID: "relic", Group: "AI Projects", Label: "Relic - AI Archaeological Study"},
			{ID: "astro_archive", Group: "AI Projects", Label: "Astro Archive"},
			{ID: "planetrics", Group: "AI Projects", Label: "Planetrics"},

			// Gaming constellation
			{ID: "stargate", Group: "Gaming", Label: "Project Stargate and Bobot"},
			{ID: "king_of_meat", Group: "Gaming", Label: "King of Meat (QA Testing)"},

			// Ethical Hacking constellation
			{ID: "knowhax", Group: "Ethical Hacking", Label: "KnowHax 2025 Challenge"},
			{ID: "sesa", Group: "Ethical Hacking", Label: "SESA Project Proposal"},
		},
		Links: []Link{
			{Source: "peata", Target: "relic"},
			{Source: "relic", Target: "astro_archive"},
			{Source: "astro_archive", Target: "planetrics"},
			{Source: "stargate", Target: "king_of_meat"},
			{Source: "knowhax", Target: "sesa"},
		},
	}
}

// Skills returns the static skills payload.
func Skills() []SkillGroup {
	return []SkillGroup{
		{
			Category: "AI & Machine Learning",
			Skills:   []string{"RAG systems", "Embeddings & vector search", "Computer vision", "LLM integration"},
		},
		{
			Category: "Backend Development",
			Skills:   []string{"Go", "Python", "REST APIs", "PostgreSQL"},
		},
		{
			Category: "Security",
			Skills:   []string{"Ethical hacking", "Threat modelling", "CTF challenges"},
		},
		{
			Category: "Games",
			Skills:   []string{"QA testing", "Gameplay scripting"},
		},
	}
}
