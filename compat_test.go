package git_test

import (
	"slices"
	"testing"

	git "github.com/KeenNjupt/git"
)

func TestArgvArrayAliasesStrvec(t *testing.T) {
	t.Parallel()

	// The alias must be interchangeable with Strvec, not a lookalike type.
	var legacy git.ArgvArray
	legacy.Pushl("init", "--bare")

	var v *git.Strvec = &legacy
	if got := v.Strings(); !slices.Equal(got, []string{"init", "--bare"}) {
		t.Errorf("Strings() through alias = %v, want [init --bare]", got)
	}

	mustBeTerminated(t, v)
}

func TestEmptyArgvArrayAliasesEmptyStrvec(t *testing.T) {
	t.Parallel()

	if &git.EmptyArgvArray[0] != &git.EmptyStrvec[0] {
		t.Error("EmptyArgvArray does not alias EmptyStrvec")
	}
}

func TestNewArgvArray(t *testing.T) {
	t.Parallel()

	legacy := git.NewArgvArray("rev-parse", "HEAD")
	if got := legacy.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := legacy.String(); got != "rev-parse HEAD" {
		t.Errorf("String() = %q, want %q", got, "rev-parse HEAD")
	}
}
