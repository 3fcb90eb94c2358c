package dataset

// Archetype is a category a player can belong to, with its legend colour.
type Archetype struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Archetypes is the legend, in display order.
var Archetypes = []Archetype{
	{"Infrastructure Integrators", "#1F8C7D", "Builds and manages the core physical and digital rails of travel."},
	{"Vertical Specialists", "#E85D75", "Focuses on deep expertise in specific travel niches."},
	{"Experience Designers", "#F5A623", "Creates unique, end-to-end travel moments and journeys."},
	{"Facilitators & Enablers", "#4A90E2", "Provides the financial, technical, and logistical tools to make travel happen."},
	{"Community Builders", "#BD10E0", "Connects travelers, fosters engagement, and drives demand through social proof."},
	{"Regulators & Standards Setters", "#7ED321", "Sets the rules, safety standards, and policies for the industry."},
	{"Market Aggregators", "#B8E986", "Brings supply and demand together at scale, often acting as the primary search interface."},
}

// DefaultColor is used for players without a known archetype.
const DefaultColor = "#999999"

// LookupArchetype finds a legend entry by exact name.
func LookupArchetype(name string) (Archetype, bool) {
	for _, a := range Archetypes {
		if a.Name == name {
			return a, true
		}
	}
	return Archetype{}, false
}
