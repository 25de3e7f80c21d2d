package mdhtml

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	baseURL     string
	style       string
	separator   string
	frontMatter bool
}

// WithBaseURL sets the prefix applied to link targets that are not absolute
// URIs.
func WithBaseURL(baseURL string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.baseURL = baseURL
	}
}

// WithStyle sets an inline style attribute on every generated tag.
func WithStyle(style string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.style = style
	}
}

// WithLineSeparator fixes the line separator instead of detecting it from the
// first line break of the input.
func WithLineSeparator(sep string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.separator = sep
	}
}

// WithFrontMatter enables stripping of a leading YAML, TOML or JSON front
// matter block in RenderStream. RenderDocument always strips it and Render
// never does.
func WithFrontMatter(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.frontMatter = enabled
	}
}

func buildConfig(opts []RenderOption) renderConfig {
	var cfg renderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
