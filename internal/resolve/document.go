package resolve

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dshills/bbake/internal/config"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Update writes the BBAKE_ values of vars back into the document at path.
// A variable is applied only if it is set, not empty, and differs from the
// current value. The document is always rewritten.
func (r *Resolver) Update(path string, vars []string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	doc, err := config.Load(path)
	if err != nil {
		return err
	}

	staged := config.Document{}
	for _, k := range vars {
		v, _ := r.Env.Var(k)
		if v == "" {
			continue
		}
		cur, ok := doc[k]
		if ok && config.FormatValue(cur) == v {
			continue
		}
		was := "not set"
		if ok {
			was = config.FormatValue(cur)
		}
		fmt.Fprintf(r.Out, "updating: %s=%s (was %s)\n", k, v, was)
		staged[k] = v
	}
	doc.Merge(staged)

	if err := config.Save(path, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	r.Logger.Debug("document updated", slog.String("path", path), slog.Int("changed", len(staged)))
	fmt.Fprintf(r.Out, "Wrote: %s\n", path)
	return nil
}

// Require checks that every name in required is a key of the document
// dir/name. When some are missing it prints the document, its path and the
// missing names, and returns a *MissingError.
func (r *Resolver) Require(dir, name string, required []string) error {
	path, doc, err := load(dir, name)
	if err != nil {
		return err
	}
	missing := doc.Missing(required)
	if len(missing) == 0 {
		return nil
	}
	if err := r.printDocument(doc); err != nil {
		return err
	}
	merr := &MissingError{Kind: KindKey, Names: missing}
	fmt.Fprintln(r.Out, path)
	fmt.Fprintln(r.Out, merr.Error())
	return merr
}

// ShellExport prints an export statement for every key of the document,
// in key order. Values are not quoted or escaped.
func (r *Resolver) ShellExport(dir, name string) error {
	_, doc, err := load(dir, name)
	if err != nil {
		return err
	}
	for _, k := range doc.Keys() {
		if _, err := fmt.Fprintf(r.Out, "export %s=%s\n", config.EnvName(k), config.FormatValue(doc[k])); err != nil {
			return err
		}
	}
	return nil
}

// Show prints the document in canonical form.
func (r *Resolver) Show(dir, name string) error {
	_, doc, err := load(dir, name)
	if err != nil {
		return err
	}
	return r.printDocument(doc)
}

// Get prints the value at a gjson path, e.g. "maxnodes" or "nodes.0.name".
func (r *Resolver) Get(dir, name, path string) error {
	_, doc, err := load(dir, name)
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	_, err = fmt.Fprintln(r.Out, res.String())
	return err
}

// Set stores value at an sjson path and rewrites the document. With raw the
// value is inserted as JSON rather than as a string.
func (r *Resolver) Set(dir, name, path, value string, raw bool) error {
	file, doc, err := load(dir, name)
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if raw {
		data, err = sjson.SetRawBytes(data, path, []byte(value))
	} else {
		data, err = sjson.SetBytes(data, path, value)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}

	updated, err := config.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}
	if err := config.Save(file, updated); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	fmt.Fprintf(r.Out, "Set %s = %s\n", path, value)
	return nil
}

// load reads dir/name, returning its absolute path.
func load(dir, name string) (string, config.Document, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	path := resolvePath(dir, name)
	doc, err := config.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, doc, nil
}
