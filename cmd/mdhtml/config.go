package main

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig holds defaults read from --config. Unset keys leave the flag
// defaults alone and flags given on the command line always win.
type fileConfig struct {
	BaseURL     *string `yaml:"base_url"`
	Style       *string `yaml:"style"`
	Page        *bool   `yaml:"page"`
	Title       *string `yaml:"title"`
	FrontMatter *bool   `yaml:"front_matter"`
	Width       *int    `yaml:"width"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	src, err := os.ReadFile(normalizePath(path))
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return fileConfig{}, nil
		}
		return fileConfig{}, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

func (c fileConfig) apply(o *options, changed func(name string) bool) {
	if c.BaseURL != nil && !changed("base-url") {
		o.baseURL = *c.BaseURL
	}
	if c.Style != nil && !changed("style") {
		o.style = *c.Style
	}
	if c.Page != nil && !changed("page") {
		o.page = *c.Page
	}
	if c.Title != nil && !changed("title") {
		o.title = *c.Title
	}
	if c.FrontMatter != nil && !changed("front-matter") {
		o.frontMatter = *c.FrontMatter
	}
	if c.Width != nil && !changed("width") {
		o.width = *c.Width
	}
}
