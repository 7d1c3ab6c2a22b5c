package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to the uppercased key name to form the environment
// variable that overrides it.
const EnvPrefix = "BBAKE_"

// DefaultName is the file name new-config writes into the config directory.
const DefaultName = "bench.json"

// Document is a bench configuration: string keys to arbitrary JSON values.
// Numbers are held as json.Number so they round-trip exactly.
type Document map[string]any

// EnvFunc looks up an environment variable. It reports false when the
// variable is unset, which is distinct from set-but-empty.
type EnvFunc func(key string) (string, bool)

// OSEnv reads the process environment.
var OSEnv EnvFunc = os.LookupEnv

// MapEnv returns an EnvFunc backed by vars.
func MapEnv(vars map[string]string) EnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// EnvName returns the override variable name for a document key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// Var looks up the BBAKE_ override for key.
func (e EnvFunc) Var(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	return e(EnvName(key))
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a single JSON object from r.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return doc, nil
}

// Marshal returns the canonical form: 2-space indent, sorted keys, no HTML
// escaping, trailing newline.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	m := map[string]any(d)
	if m == nil {
		m = map[string]any{}
	}
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the canonical form of doc to path, replacing any existing file.
// Readers never observe a partially written document.
func Save(path string, doc Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

// Keys returns the document keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present, whatever its value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Merge copies every key of src into d, replacing existing values.
func (d Document) Merge(src Document) {
	for k, v := range src {
		d[k] = v
	}
}

// Missing returns the names in required that are not keys of d, in the
// order given.
func (d Document) Missing(required []string) []string {
	var missing []string
	for _, k := range required {
		if !d.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// FormatValue renders a document value as a plain string: strings verbatim,
// numbers as written, booleans as true/false, null as empty and composite
// values as compact JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// Truthy reports whether v counts as set: not null, false, zero, or empty.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	ok = true
	return nil
}
