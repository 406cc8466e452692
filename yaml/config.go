// Package yaml loads the run configuration from YAML files with
// gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/classify"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration with the default classifier
// tables.
func Default() rulefetch.Config {
	cfg := rulefetch.DefaultConfig()
	cfg.Classifier = classify.DefaultConfig()
	return cfg
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (rulefetch.Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return rulefetch.Config{}, rulefetch.Errorf(rulefetch.ENOTFOUND, "config file not found: %s", path)
	} else if err != nil {
		return rulefetch.Config{}, err
	}
	return Parse(data)
}

// Parse decodes data over the defaults. Keys present in data replace the
// default value entirely, lists included. Unknown keys are an error.
func Parse(data []byte) (rulefetch.Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return rulefetch.Config{}, rulefetch.Errorf(rulefetch.EINVALID, "parse config: %v", err)
	}
	if err := Validate(cfg); err != nil {
		return rulefetch.Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg rulefetch.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate reports the first setting a run cannot work with.
func Validate(cfg rulefetch.Config) error {
	switch {
	case strings.TrimSpace(cfg.Site.TOCURL) == "":
		return rulefetch.Errorf(rulefetch.EINVALID, "site.toc_url required")
	case !strings.Contains(cfg.Site.SectionURLTemplate, "{ruleNumber}"):
		return rulefetch.Errorf(rulefetch.EINVALID, "site.section_url_template must contain {ruleNumber}")
	case strings.TrimSpace(cfg.ArtifactPrefix) == "":
		return rulefetch.Errorf(rulefetch.EINVALID, "artifact_prefix required")
	case cfg.Delay < 0:
		return rulefetch.Errorf(rulefetch.EINVALID, "delay must not be negative")
	case cfg.ManifestMaxAge <= 0:
		return rulefetch.Errorf(rulefetch.EINVALID, "manifest_max_age must be positive")
	case cfg.Classifier.Threshold <= 0:
		return rulefetch.Errorf(rulefetch.EINVALID, "classifier.threshold must be positive")
	}

	for _, in := range cfg.Classifier.Inclusions {
		if !in.Category.Valid() {
			return rulefetch.Errorf(rulefetch.EINVALID, "inclusion %q: unknown category %q", in.Label, in.Category)
		}
		if in.Min > in.Max {
			return rulefetch.Errorf(rulefetch.EINVALID, "inclusion %q: min above max", in.Label)
		}
	}
	for _, ex := range cfg.Classifier.Exclusions {
		if ex.Min > ex.Max {
			return rulefetch.Errorf(rulefetch.EINVALID, "exclusion %q: min above max", ex.Reason)
		}
	}
	for _, tier := range cfg.Classifier.Tiers {
		for _, kw := range tier.Keywords {
			if !kw.Category.Valid() {
				return rulefetch.Errorf(rulefetch.EINVALID, "keyword %q: unknown category %q", kw.Term, kw.Category)
			}
		}
	}
	return nil
}
