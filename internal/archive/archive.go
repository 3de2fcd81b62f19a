// Package archive loads APEX result archives: one JSON or YAML file per run,
// mapping configuration -> property block -> result, plus the identity fields
// work_path and archive_key and an optional display tag.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

var (
	// ErrMalformedArchive marks an archive without its identity fields.
	ErrMalformedArchive = errors.New("invalid result archive")
	// ErrNoInputs is returned when no argument matched any file.
	ErrNoInputs = errors.New("no result archive path found")
	// ErrNotAFile is returned when an argument matches a directory.
	ErrNotAFile = errors.New("result archive path is not a file")
)

// Identity field names.
const (
	FieldWorkPath   = "work_path"
	FieldArchiveKey = "archive_key"
	FieldTag        = "tag"
)

// Archive is one loaded result archive with its identity fields removed from
// Data.
type Archive struct {
	Source   string
	WorkPath string
	Tag      string
	Data     *ordered.Map
}

var identitySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		FieldWorkPath: map[string]any{"type": "string", "minLength": 1},
		FieldTag:      map[string]any{"type": []string{"string", "null"}},
	},
	"required": []string{FieldWorkPath, FieldArchiveKey},
}

// validateIdentity checks the identity fields of a decoded archive.
func validateIdentity(m *ordered.Map) error {
	fields := make(map[string]any, 3)
	for _, k := range []string{FieldWorkPath, FieldArchiveKey, FieldTag} {
		if v, ok := m.Get(k); ok {
			fields[k] = ordered.PlainValue(v)
		}
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(identitySchema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformedArchive, strings.Join(errs, ", "))
}

// Load reads and validates one archive.
func Load(path string) (Archive, error) {
	v, err := ordered.DecodeFile(path)
	if err != nil {
		return Archive{}, err
	}
	m, ok := v.(*ordered.Map)
	if !ok {
		return Archive{}, fmt.Errorf("%w: top level is %T, not a mapping", ErrMalformedArchive, v)
	}
	return fromMap(path, m)
}

func fromMap(source string, m *ordered.Map) (Archive, error) {
	if err := validateIdentity(m); err != nil {
		return Archive{}, err
	}
	data := ordered.NewMap()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		data.Set(k, v)
	}
	a := Archive{Source: source, Data: data}
	wp, _ := data.Delete(FieldWorkPath)
	a.WorkPath, _ = wp.(string)
	data.Delete(FieldArchiveKey)
	if tag, ok := data.Delete(FieldTag); ok && tag != nil {
		a.Tag = fmt.Sprint(tag)
	}
	return a, nil
}

// LoadAll loads every path in order. Unreadable or malformed archives are
// logged and skipped.
func LoadAll(paths []string) []Archive {
	out := make([]Archive, 0, len(paths))
	for _, p := range paths {
		a, err := Load(p)
		if err != nil {
			logging.LogDiagnostic(logging.KindMalformedArchive, "skipping result archive",
				zap.String("path", p), zap.Error(err))
			continue
		}
		logging.LogDebug("loaded %s (work path %s)", p, a.WorkPath)
		out = append(out, a)
	}
	return out
}

// ExpandInputs resolves each argument as a glob over its absolute path and
// returns the sorted matches. A match that is not a regular file is an error,
// as is an empty result.
func ExpandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		matches, err := filepath.Glob(abs)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrNotAFile, p)
		}
	}
	return paths, nil
}
