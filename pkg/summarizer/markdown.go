package summarizer

import (
	"fmt"
	"strings"
)

// Translator translates section and label keys for localized reports.
type Translator func(key string) string

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets a translator for labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds a version line to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format converts a Summary to Markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Decode Summary"))

	// Input
	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	fmt.Fprintf(&b, "- %s: %s\n", t("File"), summary.Input.Path)
	fmt.Fprintf(&b, "- %s: %s\n", t("Format"), summary.Input.Format)
	fmt.Fprintf(&b, "- %s: %s\n\n", t("Size"), formatBytes(summary.Input.FileSize))

	// Stream structure
	fmt.Fprintf(&b, "## %s\n\n", t("Stream"))
	fmt.Fprintf(&b, "- %s: %d\n\n", t("NAL Units"), summary.Stream.NALUnitCount)

	if len(summary.Stream.TypeCounts) > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Type"), t("Count"))
		b.WriteString("|------|-------|\n")
		for _, tc := range summary.Stream.TypeCounts {
			fmt.Fprintf(&b, "| %s | %d |\n", tc.Type, tc.Count)
		}
		b.WriteString("\n")
	}

	// Decode results
	fmt.Fprintf(&b, "## %s\n\n", t("Decode"))
	fmt.Fprintf(&b, "- %s: %s\n", t("Backend"), summary.Decode.Backend)
	fmt.Fprintf(&b, "- %s: %d\n", t("Pictures"), summary.Decode.Pictures)
	fmt.Fprintf(&b, "- %s: %d\n", t("Failed Access Units"), summary.Decode.Failed)
	if summary.Decode.Pictures > 0 {
		fmt.Fprintf(&b, "- %s: %dx%d\n", t("Dimensions"), summary.Decode.Width, summary.Decode.Height)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "- %s: %d ms\n", t("Elapsed"), summary.ElapsedMs)

	// Footer
	b.WriteString("\n---\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s %s | ", t("Generated by nalshow"), f.version)
	} else {
		fmt.Fprintf(&b, "%s | ", t("Generated by nalshow"))
	}
	b.WriteString(summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString("\n")

	return b.String()
}

// formatBytes formats a byte count in human-readable units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
