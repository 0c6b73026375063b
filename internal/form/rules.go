package form

import "github.com/yanizio/interactive/internal/validate"

// Rule names accepted in FieldDef.Rule.
const (
	RuleName     = "name"
	RuleEmail    = "email"
	RulePassword = "password"
	RuleConfirm  = "confirm"
)

// ruleFunc validates field f against the current control values.
type ruleFunc func(f FieldDef, c Controls) validate.Result

var rules = map[string]ruleFunc{
	RuleName:     func(f FieldDef, c Controls) validate.Result { return validate.Name(c.Value(f.Name)) },
	RuleEmail:    func(f FieldDef, c Controls) validate.Result { return validate.Email(c.Value(f.Name)) },
	RulePassword: func(f FieldDef, c Controls) validate.Result { return validate.Password(c.Value(f.Name)) },
	RuleConfirm: func(f FieldDef, c Controls) validate.Result {
		return validate.ConfirmPassword(c.Value(f.Match), c.Value(f.Name))
	},
}
