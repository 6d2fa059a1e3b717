// Package password evaluates candidate wallet passwords against the
// onboarding policy.
//
// Every rule is evaluated independently so a UI can render a live checklist;
// a password is accepted only when all six hold.
package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/illarion/seedlock/internal/crypto"
)

// MinLength is the minimum number of characters.
const MinLength = 8

// specialChars is the accepted symbol set.
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var (
	ErrPolicyViolation  = errors.New("password does not meet requirements")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Rule identifies one policy predicate.
type Rule int

const (
	RuleLength Rule = iota
	RuleUppercase
	RuleLowercase
	RuleNumber
	RuleSpecial
	RuleNotCommon
)

var ruleLabels = [...]string{
	RuleLength:    "at least 8 characters",
	RuleUppercase: "an uppercase letter",
	RuleLowercase: "a lowercase letter",
	RuleNumber:    "a number",
	RuleSpecial:   "a special character",
	RuleNotCommon: "not a common password",
}

func (r Rule) String() string {
	if int(r) < 0 || int(r) >= len(ruleLabels) {
		return fmt.Sprintf("rule(%d)", int(r))
	}
	return ruleLabels[r]
}

// Result holds the outcome of each rule.
type Result struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
	NotCommon bool
}

// Accepted reports whether every rule holds.
func (r Result) Accepted() bool {
	return r.Length && r.Uppercase && r.Lowercase && r.Number && r.Special && r.NotCommon
}

// Failed lists the rules that do not hold, in checklist order.
func (r Result) Failed() []Rule {
	var failed []Rule
	for rule, ok := range r.checks() {
		if !ok {
			failed = append(failed, Rule(rule))
		}
	}
	return failed
}

func (r Result) checks() []bool {
	return []bool{r.Length, r.Uppercase, r.Lowercase, r.Number, r.Special, r.NotCommon}
}

// Evaluate checks candidate against every rule.
func Evaluate(candidate string) Result {
	res := Result{
		Length:    utf8.RuneCountInString(candidate) >= MinLength,
		NotCommon: !IsCommon(candidate),
	}
	for _, c := range candidate {
		switch {
		case c >= 'A' && c <= 'Z':
			res.Uppercase = true
		case c >= 'a' && c <= 'z':
			res.Lowercase = true
		case c >= '0' && c <= '9':
			res.Number = true
		case strings.ContainsRune(specialChars, c):
			res.Special = true
		}
	}
	return res
}

// PolicyError lists the rules a rejected password failed.
type PolicyError struct {
	Failed []Rule
}

func (e *PolicyError) Error() string {
	labels := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		labels[i] = r.String()
	}
	return fmt.Sprintf("%v: needs %s", ErrPolicyViolation, strings.Join(labels, ", "))
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrPolicyViolation
}

// Check validates a new password and its confirmation.
func Check(password, confirm string) error {
	if res := Evaluate(password); !res.Accepted() {
		return &PolicyError{Failed: res.Failed()}
	}
	if !crypto.ConstantTimeCompare([]byte(password), []byte(confirm)) {
		return ErrPasswordMismatch
	}
	return nil
}
