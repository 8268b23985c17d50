package engine

import "strings"

// cannedResponse pairs trigger keywords with a fixed local answer. Matching
// is the same case-insensitive substring style as the domain classifier, but
// the keyword set is independent and broader: fallback must still say
// something useful when no index or provider exists.
type cannedResponse struct {
	keywords []string
	response string
}

// cannedResponses is evaluated in order; first match wins, so more specific
// entries come before general buckets.
var cannedResponses = []cannedResponse{
	{
		keywords: []string{"peata", "pet"},
		response: "Peata is Gaston's AI pet reunification project: it matches photos of lost pets against found-pet reports using image embeddings, helping owners and shelters reconnect faster.",
	},
	{
		keywords: []string{"relic"},
		response: "Relic is an AI archaeological study tool Gaston built to classify and catalogue artifact imagery, pairing computer vision with structured metadata for researchers.",
	},
	{
		keywords: []string{"astro archive", "astro-archive", "astro"},
		response: "Astro Archive is Gaston's searchable archive of astronomy imagery and metadata, built to make public space datasets easier to explore.",
	},
	{
		keywords: []string{"planetrics"},
		response: "Planetrics is Gaston's exoplanet analytics project: it visualizes planetary data and surfaces patterns across confirmed exoplanet catalogues.",
	},
	{
		keywords: []string{"stargate", "bobot"},
		response: "Project Stargate and Bobot are Gaston's gaming projects, combining custom game mechanics with an AI companion character.",
	},
	{
		keywords: []string{"king of meat"},
		response: "Gaston worked on King of Meat doing QA testing: systematic bug hunting, regression passes, and gameplay feedback during development.",
	},
	{
		keywords: []string{"knowhax", "hackathon"},
		response: "KnowHax 2025 was a hackathon challenge Gaston took on, building an ethical-hacking solution under competition time pressure.",
	},
	{
		keywords: []string{"sesa"},
		response: "SESA is a security project proposal Gaston authored in the ethical hacking space, covering threat modelling and a defensive architecture.",
	},
	{
		keywords: []string{"nasa", "space"},
		response: "Gaston's space-related work includes Astro Archive and Planetrics, both built around public NASA datasets for astronomy imagery and exoplanet analytics.",
	},
	{
		keywords: []string{"skill", "technolog", "stack"},
		response: "Gaston's core skills span AI/ML engineering (RAG systems, embeddings, computer vision), backend development, ethical hacking, and game QA.",
	},
	{
		keywords: []string{"contact", "email", "reach", "hire"},
		response: "You can reach Gaston through the contact section of this site or via the links on his profile. He's open to opportunities in AI engineering.",
	},
	{
		keywords: []string{"project", "portfolio", "work"},
		response: "Gaston's portfolio covers AI projects (Peata, Relic, Astro Archive, Planetrics), gaming (Project Stargate and Bobot, King of Meat QA), and ethical hacking (KnowHax 2025, SESA). Ask about any of them!",
	},
	{
		keywords: []string{"hello", "hi ", "hey"},
		response: "Hi! I'm the assistant on Gaston's portfolio. Ask me about his projects, skills, or experience.",
	},
}

// DefaultFallbackResponse is served when no canned keyword matches.
const DefaultFallbackResponse = "I can tell you about Gaston's projects, skills, and experience — try asking about Peata, Relic, Astro Archive, Planetrics, his gaming work, or his ethical hacking projects."

// Fallback returns a deterministic local answer for the query: the first
// canned response whose keywords match, or the generic default. Used when no
// provider is configured or the single generation attempt failed.
func Fallback(query string) string {
	q := strings.ToLower(query)
	for _, c := range cannedResponses {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				return c.response
			}
		}
	}
	return DefaultFallbackResponse
}
