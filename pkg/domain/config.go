package domain

// Field keys recognized by ConfigStore.UpsertMerge. They double as the hash
// field names in the redis adapter, so changing one is a data migration.
const (
	FieldQuestions = "questions"
	FieldIntro     = "intro"
	FieldOutro     = "outro"
	FieldMoveTo    = "move_to"
)

// QuestionnaireConfig is the per-scope interview configuration.
//
// It is treated as an immutable snapshot: fetched once at the start of a flow
// and never mutated in place. All writes go through the store's merge-patch.
type QuestionnaireConfig struct {
	// Questions is the ordered list to ask. Order defines both the ask order
	// and the order of fields in the final summary.
	Questions []string `json:"questions" mapstructure:"questions"`

	// Intro is sent verbatim before the first question, if set.
	Intro string `json:"intro,omitempty" mapstructure:"intro"`

	// Outro is sent verbatim after the summary, if set.
	Outro string `json:"outro,omitempty" mapstructure:"outro"`

	// MoveTo is the destination category ID for relocation after the
	// interview completes. Relocation is skipped if it no longer resolves.
	MoveTo string `json:"move_to,omitempty" mapstructure:"move_to"`
}

// Enabled reports whether the interview feature is active for this scope.
// A scope with no questions configured is a defined no-op, not an error.
func (c *QuestionnaireConfig) Enabled() bool {
	return c != nil && len(c.Questions) > 0
}
