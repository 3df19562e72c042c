package payment

import (
	"regexp"
	"testing"
)

var referencePattern = regexp.MustCompile(`^VOYA-\d+-[0-9A-Z]{7}$`)

func TestGenerateReference_Format(t *testing.T) {
	ref := GenerateReference()
	if !referencePattern.MatchString(ref) {
		t.Fatalf("reference %q does not match expected format", ref)
	}
}

func TestGenerateReference_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		ref := GenerateReference()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference after %d generations: %s", i, ref)
		}
		seen[ref] = struct{}{}
	}
}
