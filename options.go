package docxtex

import "log/slog"

// Option configures a Converter.
type Option func(*Converter)

// WithMathMaxDepth sets the element nesting limit for equation translation.
// Deeper equations fall back to their plain text.
func WithMathMaxDepth(depth int) Option {
	return func(c *Converter) {
		c.mathMaxDepth = depth
	}
}

// WithLogger sets the logger for conversion diagnostics
// (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithMarkdown configures whether Markdown output is produced alongside HTML
// (default: true).
func WithMarkdown(enabled bool) Option {
	return func(c *Converter) {
		c.markdown = enabled
	}
}

// WithBibliography configures whether the document's bibliography sources
// are read and attached to citations (default: true).
func WithBibliography(enabled bool) Option {
	return func(c *Converter) {
		c.bibliography = enabled
	}
}
