package domain

// Question is one intake question: the product context key it fills and the
// prompt shown to the user.
type Question struct {
	Key    string
	Prompt string
}

// Questions is the fixed, ordered intake sequence.
var Questions = []Question{
	{Key: "product_name", Prompt: "What is your product name (or working title)?"},
	{Key: "product_type", Prompt: "What type of product is this? (SaaS, App, Tool, Platform)"},
	{Key: "target_user", Prompt: "Who is the target user? Be specific."},
	{Key: "problem", Prompt: "What painful problem does this product solve?"},
	{Key: "stage", Prompt: "What stage are you at? (Idea, MVP, Launched)"},
	{Key: "goal", Prompt: "What do you want help with right now?"},
	{Key: "place", Prompt: "Where do you want to sell your product? Name the country and anything else that helps me understand the market."},
}

// ExpertMode is a named advisor profile and the behavior instruction sent
// with every completion request made under it.
type ExpertMode struct {
	Name     string `json:"name"`
	Behavior string `json:"behavior"`
}

// DefaultExpertMode is selected for new sessions.
const DefaultExpertMode = "Idea Validator"

// ExpertModes lists the selectable modes in display order.
var ExpertModes = []ExpertMode{
	{Name: "Idea Validator", Behavior: "Validate the idea. Be brutally honest. Explain it in the simplest way possible."},
	{Name: "Pricing Strategist", Behavior: "Suggest pricing based on value."},
	{Name: "Marketing Strategist", Behavior: "Suggest early go-to-market tactics. Give market strategies according to the place, timing and financial condition."},
}

// LookupExpertMode returns the mode with the given name.
func LookupExpertMode(name string) (ExpertMode, bool) {
	for _, m := range ExpertModes {
		if m.Name == name {
			return m, true
		}
	}
	return ExpertMode{}, false
}
