package pep440_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memphora/pypub/pkg/python/pep440"
	"github.com/memphora/pypub/pkg/testutil"
)

func TestCanonicalizationIdempotent(t *testing.T) {
	t.Parallel()
	prop := func(str string) bool {
		ver, err := pep440.ParseVersion(str)
		if err != nil {
			// not a version at all; nothing to check
			return true
		}
		again, err := pep440.ParseVersion(ver.String())
		if err != nil {
			return false
		}
		return again.String() == ver.String() && again.Cmp(*ver) == 0
	}
	testutil.QuickCheck(t, prop, testutil.QuickConfig{MaxCount: 500},
		[]interface{}{"1.0"},
		[]interface{}{"1!2.3.4rc5.post6.dev7+local.8"},
		[]interface{}{"V1.0-POST.dev"},
	)
}

func TestSort(t *testing.T) {
	t.Parallel()
	testcases := map[string][]string{
		// from the spec
		"final-releases": {
			"0.9",
			"0.9.1",
			"0.9.2",
			"0.9.10",
			"1.0",
			"1.0.1",
			"1.1",
			"2.0",
		},
		"pre-releases": {
			"4.3a2",  // Alpha release
			"4.3b2",  // Beta release
			"4.3rc2", // Release Candidate
			"4.3",    // Final release
		},
		"suffix-ordering": {
			"1.0.dev456",
			"1.0a1",
			"1.0a2.dev456",
			"1.0a2",
			"1.0b1.dev456",
			"1.0b2",
			"1.0b2.post345.dev456",
			"1.0b2.post345",
			"1.0rc1.dev456",
			"1.0rc1",
			"1.0",
			"1.0+abc.5",
			"1.0+abc.7",
			"1.0+5",
			"1.0.post456.dev34",
			"1.0.post456",
			"1.1.dev1",
		},
		"epochs": {
			"1.0",
			"2.0",
			"1!0.5",
			"1!1.0",
		},
	}
	for tcName, inOrder := range testcases {
		inOrder := inOrder
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			parsed := make([]pep440.Version, len(inOrder))
			for i, str := range inOrder {
				ver, err := pep440.ParseVersion(str)
				require.NoError(t, err)
				parsed[i] = *ver
			}

			shuffled := make([]pep440.Version, len(parsed))
			copy(shuffled, parsed)
			rand.New(rand.NewSource(time.Now().UnixNano())).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			pep440.Sort(shuffled)

			got := make([]string, len(shuffled))
			for i, ver := range shuffled {
				got[i] = ver.String()
			}
			want := make([]string, len(parsed))
			for i, ver := range parsed {
				want[i] = ver.String()
			}
			assert.Equal(t, strings.Join(want, "\n"), strings.Join(got, "\n"))
		})
	}
}

func TestNormalization(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		// case sensitivity and alternate spellings, from the spec
		"1.1RC1":         "1.1rc1",
		"1.1alpha1":      "1.1a1",
		"1.1beta2":       "1.1b2",
		"1.1c3":          "1.1rc3",
		"v1.0":           "1.0",
		"1.0-r4":         "1.0.post4",
		"1.2-rev":        "1.2.post0",
		"1.0-1":          "1.0.post1",
		"1.2.dev":        "1.2.dev0",
		"1.0-dev-4":      "1.0.dev4",
		"1.0+ubuntu-1":   "1.0+ubuntu.1",
		"1.0+UBUNTU_1":   "1.0+ubuntu.1",
		"  1.0  ":        "1.0",
		"2!1.0.post1":    "2!1.0.post1",
		"0.5.0a2.dev123": "0.5.0a2.dev123",
	}
	for in, want := range testcases {
		in, want := in, want
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			ver, err := pep440.ParseVersion(in)
			require.NoError(t, err)
			assert.Equal(t, want, ver.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"",
		"bogus",
		"1.0+",
		"1.0+ubuntu!1",
		"french toast",
		"1.0 1.1",
	} {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := pep440.ParseVersion(in)
			assert.Error(t, err)
		})
	}
}

func TestEquality(t *testing.T) {
	t.Parallel()
	pairs := [][2]string{
		{"1.0", "v1.0"},
		{"1.0.post0", "1.0-rev"},
		{"1.1RC1", "1.1rc1"},
		{"1.0+foo.1", "1.0+foo-1"},
	}
	for _, pair := range pairs {
		pair := pair
		t.Run(pair[0]+"=="+pair[1], func(t *testing.T) {
			t.Parallel()
			a, err := pep440.ParseVersion(pair[0])
			require.NoError(t, err)
			b, err := pep440.ParseVersion(pair[1])
			require.NoError(t, err)
			assert.Zero(t, a.Cmp(*b))
		})
	}
}
