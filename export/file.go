package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lexdraw/diagram"
	"lexdraw/layout"
	"lexdraw/render"
)

// Encode writes d in the given format. Image formats render res with cfg;
// definition formats ignore both.
func Encode(w io.Writer, format Format, d *diagram.Diagram, res *layout.Result, cfg render.Config, opts Options) error {
	if !format.IsImage() {
		exporter, err := NewExporter(format)
		if err != nil {
			return err
		}
		text, err := exporter.Export(d)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}

	if d == nil {
		return ErrNilDiagram
	}
	s, err := NewSurface(format, cfg, opts)
	if err != nil {
		return err
	}
	var ropts []render.Option
	if opts.Image != nil {
		ropts = append(ropts, render.WithImage(opts.Image))
	}
	if _, err := render.NewRenderer(cfg, opts.Logger).Render(d, res, s, ropts...); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return s.Encode(w)
}

// Export renders d to path, choosing the format from the file extension.
// The file is written atomically: either the complete new file exists or
// the previous content is untouched.
func Export(path string, d *diagram.Diagram, res *layout.Result, cfg render.Config, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, d, res, cfg, opts); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place. Missing parent directories are created.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
