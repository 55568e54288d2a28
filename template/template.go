// Package template manages the named diagram templates a user picks from:
// built-in defaults, template files on disk, imported JSON and image templates.
package template

import (
	"errors"
	"fmt"
	"image"
	"os"

	"lexdraw/diagram"
)

// Errors returned by the template store.
var (
	ErrNotFound            = errors.New("template not found")
	ErrUnsupportedTemplate = errors.New("unsupported template file")
	ErrNoImage             = errors.New("template has no image")
)

// Template describes how a diagram is drawn and what text it starts with.
type Template struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Type        diagram.Type `json:"type" yaml:"type"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Layout      string       `json:"layout,omitempty" yaml:"layout,omitempty"`
	DefaultText string       `json:"default_text,omitempty" yaml:"default_text,omitempty"`
	ImagePath   string       `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	ImageBase64 string       `json:"image_base64,omitempty" yaml:"image_base64,omitempty"`
	ImageFormat string       `json:"image_format,omitempty" yaml:"image_format,omitempty"`
	// Diagram optionally carries a saved diagram definition.
	Diagram *Definition `json:"diagram,omitempty" yaml:"diagram,omitempty"`
}

// GetType returns the template's diagram type, defaulting to hierarchy.
func (t Template) GetType() diagram.Type {
	if dt, ok := diagram.ParseType(string(t.Type)); ok {
		return dt
	}
	return diagram.TypeHierarchy
}

// IsImage reports whether the template draws a picture.
func (t Template) IsImage() bool {
	return t.GetType() == diagram.TypeImageTemplate
}

// Image decodes the embedded picture, or reads ImagePath when nothing is embedded.
func (t Template) Image() (image.Image, error) {
	if t.ImageBase64 != "" {
		img, _, err := DecodeImage(t.ImageBase64)
		return img, err
	}
	if t.ImagePath == "" {
		return nil, ErrNoImage
	}
	f, err := os.Open(t.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("open template image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.ImagePath, err)
	}
	return img, nil
}

// Defaults returns the built-in templates, installed when no template file loads.
func Defaults() []Template {
	return []Template{
		{
			Name:        "Legal Provision Hierarchy",
			Type:        diagram.TypeHierarchy,
			Description: "Shows the hierarchy between levels of legal provisions",
			Layout:      "vertical",
			DefaultText: "宪法\n基本法\n行政法规\n部门规章\n地方性法规",
		},
		{
			Name:        "Research Framework",
			Type:        diagram.TypeFramework,
			Description: "Shows the research framework and structure of an academic paper",
			Layout:      "grid",
			DefaultText: "研究背景\n文献综述\n理论框架\n研究方法\n数据分析\n结论建议",
		},
	}
}
