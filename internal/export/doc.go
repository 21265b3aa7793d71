// Package export writes the field and its overlay to PNG and SVG files.
package export
