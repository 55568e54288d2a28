// Package export writes rendered diagrams to image files and diagram
// definitions to text-based formats.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"lexdraw/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatPNG exports a raster image
	FormatPNG Format = "png"
	// FormatJPEG exports a raster image without transparency
	FormatJPEG Format = "jpeg"
	// FormatPDF exports a single-page vector document
	FormatPDF Format = "pdf"
	// FormatSVG exports a vector image
	FormatSVG Format = "svg"
	// FormatText exports box-drawing characters
	FormatText Format = "txt"
	// FormatJSON exports the diagram definition
	FormatJSON Format = "json"
	// FormatMermaid exports to Mermaid diagram syntax
	FormatMermaid Format = "mermaid"
	// FormatPlantUML exports to PlantUML syntax
	FormatPlantUML Format = "plantuml"
	// FormatD2 exports to D2 syntax
	FormatD2 Format = "d2"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
)

// ErrUnsupportedFormat is returned for file extensions and format names lexdraw cannot write.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter converts a diagram definition to a text-based format.
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates a definition exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatPlantUML:
		return NewPlantUMLExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a format name or file extension to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	case "svg":
		return FormatSVG, nil
	case "txt", "text", "ascii":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "plantuml", "puml":
		return FormatPlantUML, nil
	case "d2":
		return FormatD2, nil
	case "dot", "gv", "graphviz":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// IsImage reports whether the format is a rendered picture rather than a definition.
func (f Format) IsImage() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatPDF, FormatSVG, FormatText:
		return true
	}
	return false
}

// ImageFormats returns the formats a rendered diagram can be saved as.
func ImageFormats() []Format {
	return []Format{FormatPNG, FormatJPEG, FormatPDF, FormatSVG, FormatText}
}

// DefinitionFormats returns the formats a diagram definition can be exported to.
func DefinitionFormats() []Format {
	return []Format{FormatJSON, FormatMermaid, FormatPlantUML, FormatD2, FormatDOT}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatPNG:      "PNG image",
		FormatJPEG:     "JPEG image",
		FormatPDF:      "PDF document",
		FormatSVG:      "SVG vector image",
		FormatText:     "Box-drawing text",
		FormatJSON:     "Diagram definition (lexdraw JSON)",
		FormatMermaid:  "Mermaid diagram syntax (for Markdown)",
		FormatPlantUML: "PlantUML diagram syntax",
		FormatD2:       "D2 diagram syntax",
		FormatDOT:      "Graphviz DOT syntax",
	}
}
