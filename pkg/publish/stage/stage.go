// Package stage swaps publish-time variants of files in to place, keeping
// backups of whatever they overwrite.
//
// The Memphora SDK repo keeps the standalone module and its packaging
// metadata under publish-only names (memphora_sdk_standalone.py,
// pyproject.toml.sdk); before building, those are copied over the working
// names, and the working files are backed up so they can be restored after.
package stage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/datawire/dlib/dlog"
)

// A Pair names a publish-time source file and the working file it replaces.
// Both paths are relative to the project directory.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// BackupSuffix is appended to a target's filename to name its backup.
const BackupSuffix = ".backup"

func (p Pair) BackupName() string {
	return p.Target + BackupSuffix
}

// Stage copies each pair's source over its target.  A target that already
// exists is copied to its backup name first; the invariant is that a backup
// exists before its file is overwritten.  A missing source is an error.
func Stage(ctx context.Context, dir string, pairs []Pair) error {
	for _, pair := range pairs {
		source := filepath.Join(dir, pair.Source)
		target := filepath.Join(dir, pair.Target)

		if _, err := os.Stat(source); err != nil {
			return fmt.Errorf("stage %s: %w", pair.Source, err)
		}

		if _, err := os.Stat(target); err == nil {
			backup := filepath.Join(dir, pair.BackupName())
			if err := copyFile(target, backup); err != nil {
				return fmt.Errorf("back up %s: %w", pair.Target, err)
			}
			dlog.Infof(ctx, "backed up %s -> %s", pair.Target, pair.BackupName())
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stage %s: %w", pair.Target, err)
		}

		if err := copyFile(source, target); err != nil {
			return fmt.Errorf("stage %s: %w", pair.Source, err)
		}
		dlog.Infof(ctx, "staged %s -> %s", pair.Source, pair.Target)
	}
	return nil
}

// Restore moves each pair's backup back over its target and removes the
// backup.  A pair whose backup is missing is an error unless ignoreMissing is
// set; this happens legitimately when the target did not exist before Stage.
func Restore(ctx context.Context, dir string, pairs []Pair, ignoreMissing bool) error {
	for _, pair := range pairs {
		backup := filepath.Join(dir, pair.BackupName())
		target := filepath.Join(dir, pair.Target)

		if _, err := os.Stat(backup); err != nil {
			if os.IsNotExist(err) && ignoreMissing {
				dlog.Infof(ctx, "no backup for %s; leaving it as-is", pair.Target)
				continue
			}
			return fmt.Errorf("restore %s: %w", pair.Target, err)
		}

		if err := os.Rename(backup, target); err != nil {
			return fmt.Errorf("restore %s: %w", pair.Target, err)
		}
		dlog.Infof(ctx, "restored %s from %s", pair.Target, pair.BackupName())
	}
	return nil
}

// Backups returns the pairs whose backup file currently exists in dir.
func Backups(dir string, pairs []Pair) []Pair {
	var ret []Pair
	for _, pair := range pairs {
		if _, err := os.Stat(filepath.Join(dir, pair.BackupName())); err == nil {
			ret = append(ret, pair)
		}
	}
	return ret
}

func copyFile(src, dst string) (err error) {
	maybeSetErr := func(_err error) {
		if _err != nil && err == nil {
			err = _err
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		maybeSetErr(in.Close())
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		maybeSetErr(out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}
