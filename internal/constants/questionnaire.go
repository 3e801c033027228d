package constants

const (
	// Questionnaire prompts, in the order answers are stored
	QuestionHealthGoal    = "What is your primary health goal?"
	QuestionActivityLevel = "Activity level (1-5)"
	QuestionDiet          = "Diet type"
	QuestionMedications   = "Current medications"
	QuestionNotes         = "Additional notes"

	MinHealthGoalLen     = 3
	MinActivityLevel     = 1
	MaxActivityLevel     = 5
	DefaultActivityLevel = 3

	// NoneAnswer replaces empty optional answers
	NoneAnswer = "None"
)

// DietOptions are the diet types offered by the questionnaire.
var DietOptions = []string{
	"Balanced",
	"Vegetarian",
	"Vegan",
	"Low-carb",
	"Mediterranean",
	"Other",
}
