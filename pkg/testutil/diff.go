package testutil

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// AssertEqual is assert.Equal, but on failure the report is a unified diff of
// the two values' dumps, which stays readable for multi-line strings and big
// structs where assert.Equal's one-line report doesn't.
func AssertEqual(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()
	if assert.ObjectsAreEqual(expected, actual) {
		return true
	}

	var expectedStr, actualStr string
	if e, eOK := expected.(string); eOK {
		if a, aOK := actual.(string); aOK {
			expectedStr, actualStr = e, a
		}
	}
	if expectedStr == "" && actualStr == "" {
		expectedStr = spewConfig.Sdump(expected)
		actualStr = spewConfig.Sdump(actual)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expectedStr),
		B:        difflib.SplitLines(actualStr),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}
	return assert.Fail(t, fmt.Sprintf("Not equal:\n%s", diff), msgAndArgs...)
}
