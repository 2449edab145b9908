// Package pep440 implements the version scheme from PEP 440 -- Version
// Identification and Dependency Specification.
//
// https://www.python.org/dev/peps/pep-0440/
package pep440

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// A Version is a parsed public version identifier, optionally with a local
// version label:
//
//     [N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local]
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
	Local   []intstr.IntOrString
}

type PreRelease struct {
	L string // "a", "b", or "rc" (normalized)
	N int
}

// reVersion is the "permissive" regular expression from PEP 440 Appendix B; it
// accepts inputs that require normalization (case variations, alternate
// separators and spellings, a leading "v").
var reVersion = regexp.MustCompile(`^(?i)\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?:post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_.]?dev[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?` +
	`\s*$`)

// ParseVersion parses a string to a Version object, performing normalization.
func ParseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("pep440.ParseVersion: invalid version: %q", str)
	}
	get := func(name string) string {
		return match[reVersion.SubexpIndex(name)]
	}

	var ret Version

	if epoch := get("epoch"); epoch != "" {
		n, err := strconv.Atoi(epoch)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseVersion: %q: %w", str, err)
		}
		ret.Epoch = n
	}

	for _, part := range strings.Split(get("release"), ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseVersion: %q: %w", str, err)
		}
		ret.Release = append(ret.Release, n)
	}

	if get("pre") != "" {
		pre := PreRelease{L: normPreLetter(get("pre_l"))}
		if preN := get("pre_n"); preN != "" {
			pre.N, _ = strconv.Atoi(preN)
		}
		ret.Pre = &pre
	}

	if get("post") != "" {
		// A bare ".post" (no number) normalizes to ".post0"; the "-N"
		// shorthand carries its number in post_n1.
		n := 0
		if postN := get("post_n1") + get("post_n2"); postN != "" {
			n, _ = strconv.Atoi(postN)
		}
		ret.Post = &n
	}

	if get("dev") != "" {
		n := 0
		if devN := get("dev_n"); devN != "" {
			n, _ = strconv.Atoi(devN)
		}
		ret.Dev = &n
	}

	if local := strings.ToLower(get("local")); local != "" {
		for _, seg := range strings.FieldsFunc(local, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			if n, err := strconv.Atoi(seg); err == nil {
				ret.Local = append(ret.Local, intstr.FromInt(n))
			} else {
				ret.Local = append(ret.Local, intstr.FromString(seg))
			}
		}
	}

	return &ret, nil
}

func normPreLetter(l string) string {
	switch strings.ToLower(l) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default: // "c", "rc", "pre", "preview"
		return "rc"
	}
}

// String returns the canonical form of the version.
func (v Version) String() string {
	var ret strings.Builder
	if v.Epoch > 0 {
		fmt.Fprintf(&ret, "%d!", v.Epoch)
	}
	release := make([]string, len(v.Release))
	for i, n := range v.Release {
		release[i] = strconv.Itoa(n)
	}
	ret.WriteString(strings.Join(release, "."))
	if v.Pre != nil {
		fmt.Fprintf(&ret, "%s%d", v.Pre.L, v.Pre.N)
	}
	if v.Post != nil {
		fmt.Fprintf(&ret, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&ret, ".dev%d", *v.Dev)
	}
	if len(v.Local) > 0 {
		segs := make([]string, len(v.Local))
		for i, seg := range v.Local {
			segs[i] = seg.String()
		}
		fmt.Fprintf(&ret, "+%s", strings.Join(segs, "."))
	}
	return ret.String()
}

// Sentinel ordinals for the optional segments; see the "Summary of permitted
// suffixes and relative ordering" section of PEP 440.
const (
	ordMin = -1 << 40
	ordMax = 1 << 40
)

// Cmp returns <0 if v<other, 0 if v==other, and >0 if v>other.
func (v Version) Cmp(other Version) int {
	if d := v.Epoch - other.Epoch; d != 0 {
		return d
	}
	if d := cmpRelease(v.Release, other.Release); d != 0 {
		return d
	}
	if d := cmpPair(v.preKey(), other.preKey()); d != 0 {
		return d
	}
	if d := cmpPair(v.postKey(), other.postKey()); d != 0 {
		return d
	}
	if d := cmpPair(v.devKey(), other.devKey()); d != 0 {
		return d
	}
	return cmpLocal(v.Local, other.Local)
}

func cmpRelease(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

func cmpPair(a, b [2]int) int {
	if a[0] != b[0] {
		return a[0] - b[0]
	}
	return a[1] - b[1]
}

// preKey: a dev release of the base version sorts before any pre-release;
// a version with no pre-release segment sorts after all pre-releases.
func (v Version) preKey() [2]int {
	switch {
	case v.Pre == nil && v.Post == nil && v.Dev != nil:
		return [2]int{ordMin, 0}
	case v.Pre == nil:
		return [2]int{ordMax, 0}
	default:
		var l int
		switch v.Pre.L {
		case "a":
			l = 0
		case "b":
			l = 1
		default: // "rc"
			l = 2
		}
		return [2]int{l, v.Pre.N}
	}
}

func (v Version) postKey() [2]int {
	if v.Post == nil {
		return [2]int{ordMin, 0}
	}
	return [2]int{*v.Post, 0}
}

func (v Version) devKey() [2]int {
	if v.Dev == nil {
		return [2]int{ordMax, 0}
	}
	return [2]int{*v.Dev, 0}
}

// cmpLocal compares local version labels segment-by-segment: numeric segments
// compare numerically and sort after lexicographically-compared string
// segments; a version with a local label sorts after the same version without
// one.
func cmpLocal(a, b []intstr.IntOrString) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		switch {
		case i >= len(a):
			return -1
		case i >= len(b):
			return 1
		}
		av, bv := a[i], b[i]
		switch {
		case av.Type == intstr.Int && bv.Type == intstr.Int:
			if d := av.IntValue() - bv.IntValue(); d != 0 {
				return d
			}
		case av.Type == intstr.String && bv.Type == intstr.String:
			if d := strings.Compare(av.StrVal, bv.StrVal); d != 0 {
				return d
			}
		case av.Type == intstr.Int:
			return 1
		default:
			return -1
		}
	}
	return 0
}

// IsPreRelease reports whether the version is a pre-release or dev release.
func (v Version) IsPreRelease() bool {
	return v.Pre != nil || v.Dev != nil
}

// Sort sorts a list of versions, ascending.
func Sort(vers []Version) {
	sort.SliceStable(vers, func(i, j int) bool {
		return vers[i].Cmp(vers[j]) < 0
	})
}
