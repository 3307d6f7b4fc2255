package worksheets

// Worksheet is one printable activity in the catalog.
type Worksheet struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subject     string   `json:"subject"`
	Grade       int      `json:"grade"`
	Chapter     string   `json:"chapter"`
	AgeRange    string   `json:"ageRange"`
	Topic       string   `json:"topic"`
	Duration    int      `json:"duration"`
	Skills      []string `json:"skills"`
	Format      string   `json:"format"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Access      string   `json:"access"`
}

// Free reports whether the worksheet needs no subscription.
func (w Worksheet) Free() bool { return w.Access == "free" }

// Catalog is the built-in worksheet list.
var Catalog = []Worksheet{
	{
		ID:          "ela-evidence",
		Title:       "Finding Evidence in the Text",
		Subject:     "ELA",
		Grade:       4,
		Chapter:     "Close Reading",
		AgeRange:    "9-10",
		Topic:       "Text Evidence",
		Duration:    30,
		Skills:      []string{"citing evidence", "inference"},
		Format:      "PDF + Google Doc",
		Description: "Short passages with scaffolds that guide students to cite and explain textual evidence.",
		File:        "ela-evidence.pdf",
		Access:      "free",
	},
	{
		ID:          "math-fractions",
		Title:       "Fractions in Word Problems",
		Subject:     "Math",
		Grade:       5,
		Chapter:     "Fractions",
		AgeRange:    "10-11",
		Topic:       "Fraction Operations",
		Duration:    35,
		Skills:      []string{"modeling", "number sense"},
		Format:      "PDF + Jamboard",
		Description: "Real world scenarios that ask students to model and solve fraction addition and subtraction.",
		File:        "math-fractions.pdf",
		Access:      "locked",
	},
	{
		ID:          "science-tectonics",
		Title:       "Evidence of Plate Tectonics",
		Subject:     "Science",
		Grade:       6,
		Chapter:     "Earth Systems",
		AgeRange:    "11-12",
		Topic:       "Plate Tectonics",
		Duration:    40,
		Skills:      []string{"data analysis", "CER writing"},
		Format:      "PDF + slide deck",
		Description: "Data tables, maps, and diagrams for students to analyze patterns in earthquakes and volcanoes.",
		File:        "science-tectonics.pdf",
		Access:      "locked",
	},
	{
		ID:          "history-sources",
		Title:       "Evaluating Primary Sources",
		Subject:     "Social Studies",
		Grade:       7,
		Chapter:     "Historical Thinking",
		AgeRange:    "12-13",
		Topic:       "Primary Sources",
		Duration:    30,
		Skills:      []string{"sourcing", "corroboration"},
		Format:      "PDF + editable doc",
		Description: "Source sets with guiding questions that ask students to evaluate credibility and perspective.",
		File:        "history-sources.pdf",
		Access:      "free",
	},
	{
		ID:          "ela-argument",
		Title:       "Argument Writing Planner",
		Subject:     "ELA",
		Grade:       8,
		Chapter:     "Writing Workshop",
		AgeRange:    "13-14",
		Topic:       "Argument Writing",
		Duration:    25,
		Skills:      []string{"argument structure", "drafting"},
		Format:      "PDF + fillable form",
		Description: "Graphic organizers that guide claim, evidence, and reasoning with mentor sentence stems.",
		File:        "ela-argument.pdf",
		Access:      "locked",
	},
	{
		ID:          "math-word-problems",
		Title:       "Multi Step Word Problems",
		Subject:     "Math",
		Grade:       3,
		Chapter:     "Problem Solving",
		AgeRange:    "8-9",
		Topic:       "Word Problems",
		Duration:    20,
		Skills:      []string{"problem solving", "modeling"},
		Format:      "PDF + printable cards",
		Description: "Visual models and scaffolds for two step problems using the four operations.",
		File:        "math-word-problems.pdf",
		Access:      "free",
	},
	{
		ID:          "science-energy",
		Title:       "Energy Transfer Scenarios",
		Subject:     "Science",
		Grade:       5,
		Chapter:     "Matter & Energy",
		AgeRange:    "10-11",
		Topic:       "Energy",
		Duration:    28,
		Skills:      []string{"cause and effect", "data tables"},
		Format:      "PDF + lab sheet",
		Description: "Short scenarios that ask students to identify the direction of energy flow and support claims.",
		File:        "science-energy.pdf",
		Access:      "free",
	},
	{
		ID:          "ela-context-clues",
		Title:       "Context Clues Sprint",
		Subject:     "ELA",
		Grade:       3,
		Chapter:     "Vocabulary",
		AgeRange:    "8-9",
		Topic:       "Context Clues",
		Duration:    18,
		Skills:      []string{"vocabulary", "context clues"},
		Format:      "PDF",
		Description: "Quick passages where students use nearby words to infer meaning of bolded terms.",
		File:        "ela-context-clues.pdf",
		Access:      "locked",
	},
}
