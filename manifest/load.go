package manifest

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	getter "github.com/hashicorp/go-getter"
	"github.com/teranos/autobuild/errors"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the range of manifest schema versions this build reads.
const SupportedSchema = ">= 1.0, < 2.0"

// Load fetches the manifest from source and parses it. Source is a local
// path (relative, absolute or ~-prefixed) or any go-getter address.
func Load(ctx context.Context, source string) (*Manifest, error) {
	path, cleanup, err := fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", source)
	}
	return m, nil
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidManifest, err.Error())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks schema compatibility and structural consistency.
func (m *Manifest) Validate() error {
	if m.SchemaVersion == "" {
		return errors.Wrap(errors.ErrInvalidManifest, "schema_version is required")
	}
	ver, err := semver.NewVersion(m.SchemaVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidManifest, "schema_version %q: %v", m.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return errors.Wrap(err, "invalid supported schema constraint")
	}
	if !constraint.Check(ver) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidManifest, "schema_version %s outside supported range %s", m.SchemaVersion, SupportedSchema),
			"regenerate the manifest with a matching extractor",
		)
	}

	seen := make(map[string]bool, len(m.Root.Attributes))
	for _, a := range m.Root.Attributes {
		if a.Name == "" {
			return errors.Wrap(errors.ErrInvalidManifest, "root attribute without name")
		}
		if seen[a.Name] {
			return errors.Wrapf(errors.ErrInvalidManifest, "duplicate root attribute %s", a.Name)
		}
		seen[a.Name] = true
	}

	for nsName, ns := range m.Namespaces {
		for className, class := range ns.Classes {
			methods := make(map[string]bool, len(class.Methods))
			for _, meth := range class.Methods {
				if meth.Name == "" {
					return errors.Wrapf(errors.ErrInvalidManifest, "%s.%s: method without name", nsName, className)
				}
				if methods[meth.Name] {
					return errors.Wrapf(errors.ErrInvalidManifest, "%s.%s: duplicate method %s", nsName, className, meth.Name)
				}
				methods[meth.Name] = true
				if len(meth.Defaults) > len(meth.Args) {
					return errors.Wrapf(errors.ErrInvalidManifest, "%s.%s.%s: %d defaults for %d arguments",
						nsName, className, meth.Name, len(meth.Defaults), len(meth.Args))
				}
			}
		}
	}
	return nil
}

// LocalPath resolves source to a filesystem path when it refers to a local
// file, and reports false for remote sources.
func LocalPath(source string) (string, bool) {
	source, err := expandHome(source)
	if err != nil {
		return "", false
	}
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(source, pwd, getter.Detectors)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(detected)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "file":
		return u.Path, true
	case "":
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", false
		}
		return abs, true
	}
	return "", false
}

// fetch returns a local path for source, downloading remote sources into
// a temporary directory removed by the returned cleanup.
func fetch(ctx context.Context, source string) (string, func(), error) {
	noop := func() {}
	if path, ok := LocalPath(source); ok {
		return path, noop, nil
	}

	tmp, err := os.MkdirTemp("", "autobuild-manifest-")
	if err != nil {
		return "", noop, errors.Wrap(err, "failed to create download directory")
	}
	cleanup := func() { os.RemoveAll(tmp) }

	pwd, _ := os.Getwd()
	dst := filepath.Join(tmp, "manifest.yml")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  source,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		cleanup()
		return "", noop, errors.Wrapf(err, "failed to fetch manifest %s", source)
	}
	return dst, cleanup, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
