// Package dist deals with the distribution files that a build frontend leaves
// in the dist/ directory: wheels (PEP 427 filenames) and sdists.
package dist

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/memphora/pypub/pkg/python/pep440"
	"github.com/memphora/pypub/pkg/python/pep503"
)

type Kind int

const (
	Wheel Kind = iota
	Sdist
)

func (k Kind) String() string {
	switch k {
	case Wheel:
		return "wheel"
	case Sdist:
		return "sdist"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// A File is a parsed distribution filename.
type File struct {
	Filename string
	Kind     Kind
	// Name is the distribution name as spelled in the filename; wheel
	// filenames spell it with underscores.
	Name    string
	Version pep440.Version
	// CompatibilityTag is the "{python}-{abi}-{platform}" part of a wheel
	// filename; empty for sdists.
	CompatibilityTag string
}

// Wheel filenames are
// "{distribution}-{version}(-{build tag})?-{python}-{abi}-{platform}.whl"
// (PEP 427); the distribution name never contains "-".
var reWheel = regexp.MustCompile(`^(?P<distribution>[^-]+)-(?P<version>[^-]+)` +
	`(?:-(?P<build>[0-9][^-]*))?` +
	`-(?P<python>[^-]+)-(?P<abi>[^-]+)-(?P<platform>[^-]+)\.whl$`)

// ParseFilename parses a wheel or sdist filename.
func ParseFilename(filename string) (*File, error) {
	switch {
	case strings.HasSuffix(filename, ".whl"):
		match := reWheel.FindStringSubmatch(filename)
		if match == nil {
			return nil, fmt.Errorf("invalid wheel filename: %q", filename)
		}
		ver, err := pep440.ParseVersion(match[reWheel.SubexpIndex("version")])
		if err != nil {
			return nil, fmt.Errorf("invalid wheel filename: %q: %w", filename, err)
		}
		return &File{
			Filename: filename,
			Kind:     Wheel,
			Name:     match[reWheel.SubexpIndex("distribution")],
			Version:  *ver,
			CompatibilityTag: strings.Join([]string{
				match[reWheel.SubexpIndex("python")],
				match[reWheel.SubexpIndex("abi")],
				match[reWheel.SubexpIndex("platform")],
			}, "-"),
		}, nil
	case strings.HasSuffix(filename, ".tar.gz"), strings.HasSuffix(filename, ".zip"):
		stem := strings.TrimSuffix(strings.TrimSuffix(filename, ".tar.gz"), ".zip")
		// The version is everything after the last "-"; sdist names may
		// themselves contain "-".
		sep := strings.LastIndex(stem, "-")
		if sep < 1 {
			return nil, fmt.Errorf("invalid sdist filename: %q", filename)
		}
		ver, err := pep440.ParseVersion(stem[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid sdist filename: %q: %w", filename, err)
		}
		return &File{
			Filename: filename,
			Kind:     Sdist,
			Name:     stem[:sep],
			Version:  *ver,
		}, nil
	default:
		return nil, fmt.Errorf("not a recognized distribution filename: %q", filename)
	}
}

// An Entry is a File as found on disk.
type Entry struct {
	File
	Size int64
}

// Scan parses every regular file in dir, sorted by filename.  A file that is
// not a recognizable distribution is an error; a missing or empty dir yields a
// "no distributions" error, since every caller wants at least one file.
func Scan(dir string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ret []Entry
	for _, dirent := range dirents {
		if dirent.IsDir() {
			continue
		}
		parsed, err := ParseFilename(dirent.Name())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		info, err := dirent.Info()
		if err != nil {
			return nil, err
		}
		ret = append(ret, Entry{File: *parsed, Size: info.Size()})
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%s: no distributions found", dir)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Filename < ret[j].Filename
	})
	return ret, nil
}

// Paths returns the dir-prefixed path of every entry, for handing to tools
// that expect the shell's dist/* expansion.
func Paths(dir string, entries []Entry) []string {
	ret := make([]string, len(entries))
	for i, entry := range entries {
		ret[i] = filepath.Join(dir, entry.Filename)
	}
	return ret
}

// Verify checks that every entry belongs to the named project at the given
// version.  Name comparison is PEP 503-normalized, so the underscores in wheel
// filenames compare equal to the hyphens in pyproject.toml.
func Verify(entries []Entry, name string, version pep440.Version) error {
	want := pep503.NormalizeName(name)
	for _, entry := range entries {
		if got := pep503.NormalizeName(entry.Name); got != want {
			return fmt.Errorf("%s: distribution name %q does not match project %q",
				entry.Filename, got, want)
		}
		if entry.Version.Cmp(version) != 0 {
			return fmt.Errorf("%s: version %s does not match project version %s",
				entry.Filename, entry.Version.String(), version.String())
		}
	}
	return nil
}

// HumanSize renders a byte count the way `ls -lh` does: powers of 1024, one
// decimal place for values under 10.
func HumanSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d", n)
	}
	val := float64(n)
	for _, unit := range []string{"K", "M", "G", "T", "P"} {
		val /= 1024
		if val < 10 {
			return fmt.Sprintf("%.1f%s", val, unit)
		}
		if val < 1024 {
			return fmt.Sprintf("%.0f%s", val, unit)
		}
	}
	return fmt.Sprintf("%.0fE", val/1024)
}

// Listing renders a table of the entries, one per line, with human sizes.
func Listing(entries []Entry) string {
	var ret strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&ret, "%6s  %-5s  %s\n",
			HumanSize(entry.Size), entry.Kind.String(), entry.Filename)
	}
	return ret.String()
}
