// Package outfmt classifies pandoc output-format names into the families
// the filter cares about.
package outfmt

// IsLaTeX reports formats with native label/reference macros.
func IsLaTeX(format string) bool {
	return format == "latex" || format == "beamer"
}

// IsHTML reports the html and epub family.
func IsHTML(format string) bool {
	switch format {
	case "html", "html4", "html5", "epub", "epub2", "epub3":
		return true
	}
	return false
}

// NeedsComputedSectionTag reports formats whose section numbering the
// document processor handles itself (html/epub/docx with --number-sections)
// but whose table counters it does not scope to sections; for those the
// filter computes "section.ordinal" tags explicitly.
func NeedsComputedSectionTag(format string) bool {
	return IsHTML(format) || format == "docx"
}
