package fingerprint

import (
	"strings"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"func main() {}",
		"for (let i = 0; i < n; i++) { sum += a[i]; }",
		strings.Repeat("quicksort(arr, lo, hi)\n", 200),
	}

	for _, in := range inputs {
		first := Hash(in)
		for i := 0; i < 3; i++ {
			if got := Hash(in); got != first {
				t.Errorf("Hash(%.20q) not deterministic: %q then %q", in, first, got)
			}
		}
	}
}

func TestHashEmptyString(t *testing.T) {
	if got := Hash(""); got != "0" {
		t.Errorf("Hash(\"\") = %q, want \"0\"", got)
	}
}

func TestHashKnownValue(t *testing.T) {
	// 'a','b','c' accumulate to 96354, which is "22ci" in base 36.
	if got := Hash("abc"); got != "22ci" {
		t.Errorf("Hash(\"abc\") = %q, want \"22ci\"", got)
	}
}

func TestHashDistinguishesInputs(t *testing.T) {
	a := Hash("def add(a, b): return a + b")
	b := Hash("def add(a, b): return a - b")
	if a == b {
		t.Errorf("expected different fingerprints, both %q", a)
	}
}

func TestHashWrapsOnLongInput(t *testing.T) {
	// Long inputs overflow int32 many times over; the result must still be
	// a valid base-36 string (possibly negative) and stable.
	in := strings.Repeat("z", 10000)
	got := Hash(in)
	if got == "" {
		t.Fatal("expected non-empty fingerprint")
	}
	if got != Hash(in) {
		t.Error("fingerprint of long input not stable")
	}
}
