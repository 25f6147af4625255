package problemgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered list of validators run on every generated
	// question. A question failing any of them is dropped from its set.
	Validators []Validator

	// MaxTokens is the token budget for one set.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many recently served questions are
	// listed in the prompt for deduplication.
	MaxPriorQuestions int

	ReadingQuestions  int
	MockELAQuestions  int
	MockMathQuestions int

	// SpellingSample is the fallback spelling set size when the caller
	// does not ask for a count.
	SpellingSample int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:         6000,
		Temperature:       0.7,
		MaxPriorQuestions: 30,
		ReadingQuestions:  5,
		MockELAQuestions:  15,
		MockMathQuestions: 10,
		SpellingSample:    25,
	}
}
