package journal

import (
	"encoding/hex"
	"testing"
)

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

func TestHashArgvShape(t *testing.T) {
	t.Parallel()

	hash := HashArgv([]string{"git", "status"})
	if len(hash) != 16 {
		t.Errorf("hash length = %d, want 16", len(hash))
	}
	if !isHex(hash) {
		t.Errorf("hash %q contains non-hex characters", hash)
	}
}

func TestHashArgvDeterministic(t *testing.T) {
	t.Parallel()

	argv := []string{"git", "log", "--oneline"}
	if HashArgv(argv) != HashArgv(argv) {
		t.Error("identical argv produced different hashes")
	}
}

func TestHashArgvDistinguishes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b []string
	}{
		"different values":   {a: []string{"git", "pull"}, b: []string{"git", "push"}},
		"different order":    {a: []string{"a", "b"}, b: []string{"b", "a"}},
		"element boundaries": {a: []string{"ab", "c"}, b: []string{"a", "bc"}},
		"empty vs one empty": {a: []string{}, b: []string{""}},
		"trailing empty":     {a: []string{"x"}, b: []string{"x", ""}},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if HashArgv(tc.a) == HashArgv(tc.b) {
				t.Errorf("HashArgv(%q) == HashArgv(%q), want distinct", tc.a, tc.b)
			}
		})
	}
}
