package cmd

import (
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/password"
)

// CheckPassword prints the policy checklist for a candidate password.
func CheckPassword() {
	con := NewConsole()
	pw, err := con.ReadPassword("Password to check: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(pw)

	printChecklist(con, password.Evaluate(string(pw)))
}

func printChecklist(con *Console, res password.Result) {
	checks := []struct {
		rule password.Rule
		ok   bool
	}{
		{password.RuleLength, res.Length},
		{password.RuleUppercase, res.Uppercase},
		{password.RuleLowercase, res.Lowercase},
		{password.RuleNumber, res.Number},
		{password.RuleSpecial, res.Special},
		{password.RuleNotCommon, res.NotCommon},
	}
	for _, c := range checks {
		mark := "✗"
		if c.ok {
			mark = "✓"
		}
		con.Printf("  %s %s\n", mark, c.rule)
	}
	if res.Accepted() {
		con.Println("Password accepted")
	} else {
		con.Println("Password rejected")
	}
}

// Suggest prints wordlist entries that complete prefix.
func Suggest(prefix string) {
	suggest(NewConsole(), prefix)
}

func suggest(con *Console, prefix string) {
	words := mnemonic.SuggestCompletions(prefix)
	if len(words) == 0 {
		if closest := mnemonic.Closest(prefix); closest != "" && len(prefix) >= 2 {
			con.Printf("No matches. Did you mean %q?\n", closest)
			return
		}
		con.Println("No matches")
		return
	}
	for _, w := range words {
		con.Println(w)
	}
}
