package resolve

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dshills/bbake/internal/config"
)

// Supported consensus protocols and deployment mechanisms.
var (
	Consensuses = []string{"ibft", "raft", "rrr"}
	DeployModes = []string{"k8s", "compose"}
)

// Options are the inputs to NewConfig.
type Options struct {
	Consensus  string
	DeployMode string
	ConfigDir  string
	LaunchDir  string
	TuskDir    string
	NodesDir   string
	Profile    string

	// ConfigVars names the keys whose BBAKE_ variables override profile
	// values.
	ConfigVars []string
}

// missing returns the required options that are empty, in a fixed order.
func (o Options) missing() []string {
	var names []string
	for _, f := range []struct {
		name, value string
	}{
		{"consensus", o.Consensus},
		{"configdir", o.ConfigDir},
		{"deploymode", o.DeployMode},
		{"launchdir", o.LaunchDir},
		{"tuskdir", o.TuskDir},
	} {
		if f.value == "" {
			names = append(names, f.name)
		}
	}
	return names
}

// Result describes a document written by NewConfig.
type Result struct {
	Path      string
	ConfigDir string
	NodesDir  string
	Document  config.Document
}

// Resolver runs the bench.json operations. Diagnostics the operations are
// expected to print go to Out; incidental detail goes to Logger.
type Resolver struct {
	Env    config.EnvFunc
	Out    io.Writer
	Logger *slog.Logger
}

// New returns a Resolver. A nil logger discards log output.
func New(env config.EnvFunc, out io.Writer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{Env: env, Out: out, Logger: logger}
}

// NewConfig builds a fresh bench.json from the standard profiles for the
// consensus and deploy mode, the optional user profile, and BBAKE_
// overrides, and writes it to <configdir>/bench.json.
func (r *Resolver) NewConfig(opts Options) (*Result, error) {
	if names := opts.missing(); len(names) > 0 {
		err := &MissingError{Kind: KindOption, Names: names}
		fmt.Fprintln(r.Out, err.Error())
		return nil, err
	}
	if !slices.Contains(Consensuses, opts.Consensus) {
		return nil, fmt.Errorf("%w: consensus %q (choose from %v)", ErrInvalidChoice, opts.Consensus, Consensuses)
	}
	if !slices.Contains(DeployModes, opts.DeployMode) {
		return nil, fmt.Errorf("%w: deploymode %q (choose from %v)", ErrInvalidChoice, opts.DeployMode, DeployModes)
	}

	tuskdir, err := filepath.Abs(opts.TuskDir)
	if err != nil {
		return nil, fmt.Errorf("resolving tuskdir: %w", err)
	}
	launchdir, err := filepath.Abs(opts.LaunchDir)
	if err != nil {
		return nil, fmt.Errorf("resolving launchdir: %w", err)
	}

	configdir := resolvePath(launchdir, opts.ConfigDir)
	if err := os.MkdirAll(configdir, 0o755); err != nil {
		return nil, fmt.Errorf("creating configdir: %w", err)
	}

	// A user supplied nodesdir is resolved against the launchdir rather
	// than the configdir so it agrees with shell tab completion.
	var nodesdir string
	if opts.NodesDir != "" {
		nodesdir = resolvePath(launchdir, opts.NodesDir)
	} else {
		nodesdir = filepath.Join(configdir, opts.Consensus, "nodes")
	}
	if err := os.MkdirAll(nodesdir, 0o755); err != nil {
		return nil, fmt.Errorf("creating nodesdir: %w", err)
	}

	r.Logger.Debug("resolved directories",
		slog.String("tuskdir", tuskdir),
		slog.String("launchdir", launchdir),
		slog.String("configdir", configdir),
		slog.String("nodesdir", nodesdir),
	)

	doc := config.Document{}
	for _, p := range Profiles(tuskdir, launchdir, opts.Consensus, opts.DeployMode, opts.Profile) {
		pdoc, err := loadProfile(p)
		if err != nil {
			return nil, err
		}
		if pdoc == nil {
			r.Logger.Debug("profile not present", slog.String("path", p.Path))
			continue
		}
		doc.Merge(pdoc)
		fmt.Fprintf(r.Out, "applying %s profile: %s\n", p.Kind, p.Path)
	}

	// A profile pyenv is relative to the configdir; the default, which may
	// come from BBAKE_PYENV, is relative to the launchdir.
	if v, ok := doc["pyenv"]; ok {
		doc["pyenv"] = resolvePath(configdir, config.FormatValue(v))
	} else {
		pyenv, ok := r.Env.Var("pyenv")
		if !ok {
			pyenv = "env"
		}
		doc["pyenv"] = resolvePath(launchdir, pyenv)
	}

	for _, k := range opts.ConfigVars {
		// consensus is a command option, not an override
		if k == "consensus" {
			continue
		}
		// Unset leaves the profile value alone. Set, even to the empty
		// string, always wins.
		v, ok := r.Env.Var(k)
		if !ok {
			continue
		}
		if !config.Truthy(doc[k]) {
			doc[k] = v
			fmt.Fprintf(r.Out, "%s: %s (bbake new default)\n", k, v)
			continue
		}
		doc[k] = v
		fmt.Fprintf(r.Out, "%s: %s (set by option, env or profile)\n", k, v)
	}

	doc["consensus"] = opts.Consensus
	doc["nodesdir"] = nodesdir

	if !config.Truthy(doc["name"]) {
		maxnodes, ok := doc["maxnodes"]
		if !ok {
			err := &MissingError{Kind: KindKey, Names: []string{"maxnodes"}}
			fmt.Fprintln(r.Out, err.Error())
			return nil, err
		}
		doc["name"] = opts.Consensus + config.FormatValue(maxnodes)
	}

	path := filepath.Join(configdir, config.DefaultName)
	if err := config.Save(path, doc); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := r.printDocument(doc); err != nil {
		return nil, err
	}
	fmt.Fprintf(r.Out, "Wrote: %s\n", path)

	return &Result{
		Path:      path,
		ConfigDir: configdir,
		NodesDir:  nodesdir,
		Document:  doc,
	}, nil
}

func (r *Resolver) printDocument(doc config.Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	_, err = r.Out.Write(data)
	return err
}
