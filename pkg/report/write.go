package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Report file formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatXML  = "xml"
	FormatJSON = "json"
)

// Formats lists the accepted format names
var Formats = []string{FormatYAML, FormatTOML, FormatXML, FormatJSON}

// IsFormat reports whether name is an accepted format
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// FormatFromPath infers the report format from a file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "yml" {
		ext = FormatYAML
	}
	if !IsFormat(ext) {
		return "", errors.Newf(errors.ErrInvalidInput, "cannot infer report format from %s", path).
			WithDetail("path", path)
	}
	return ext, nil
}

// Encode renders the report in format
func (r *Report) Encode(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(r)
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatXML:
		return r.encodeXML()
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown report format %q", format)
}

// Write writes the report to path. An empty format is inferred from the
// file extension.
func (r *Report) Write(fs afero.Fs, path, format string) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	data, err := r.Encode(format)
	if err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to encode %s report", format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrReportWrite, "failed to create report directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to write report %s", path).
			WithDetail("path", path)
	}
	return nil
}

func (r *Report) encodeXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("run-id", r.RunID)
	root.CreateAttr("started", r.Started.Format("2006-01-02T15:04:05Z07:00"))
	root.CreateAttr("duration-ms", strconv.FormatInt(r.DurationMS, 10))
	root.CreateAttr("dry-run", strconv.FormatBool(r.DryRun))
	root.CreateAttr("out-dir", r.OutDir)

	summary := root.CreateElement("summary")
	summary.CreateAttr("sources", strconv.Itoa(r.Summary.Sources))
	summary.CreateAttr("tables", strconv.Itoa(r.Summary.Tables))
	summary.CreateAttr("written", strconv.Itoa(r.Summary.Written))
	summary.CreateAttr("conflicts", strconv.Itoa(r.Summary.Conflicts))
	summary.CreateAttr("skipped", strconv.Itoa(r.Summary.Skipped))
	summary.CreateAttr("overwritten", strconv.Itoa(r.Summary.Overwritten))

	srcs := root.CreateElement("sources")
	for _, s := range r.Sources {
		el := srcs.CreateElement("source")
		el.CreateAttr("name", s.Name)
		el.CreateAttr("kind", string(s.Kind))
		el.CreateAttr("path", s.Path)
		if s.Stem != "" {
			el.CreateAttr("stem", s.Stem)
		}
	}

	tbls := root.CreateElement("tables")
	for _, t := range r.Tables {
		el := tbls.CreateElement("table")
		el.CreateAttr("path", t.Path)
		el.CreateAttr("source", t.Source)
		el.CreateAttr("name", t.Table)
		el.CreateAttr("shape", t.Shape)
		el.CreateAttr("rows", strconv.Itoa(t.Rows))
		if t.Collapsed > 0 {
			el.CreateAttr("collapsed", strconv.Itoa(t.Collapsed))
		}
		if t.Placeholder {
			el.CreateAttr("placeholder", "true")
		}
	}

	confs := root.CreateElement("conflicts")
	for _, c := range r.Conflicts {
		el := confs.CreateElement("conflict")
		el.CreateAttr("path", c.Path)
		el.CreateAttr("winner", c.Winner)
		el.CreateAttr("loser", c.Loser)
	}

	skipped := root.CreateElement("skipped")
	for _, s := range r.Skipped {
		el := skipped.CreateElement("table")
		el.CreateAttr("source", s.Source)
		el.CreateAttr("name", s.Table)
		el.CreateAttr("file", s.File)
		el.CreateAttr("code", string(s.Code))
		el.SetText(s.Reason)
	}

	over := root.CreateElement("overwritten")
	for _, path := range r.Overwritten {
		over.CreateElement("file").SetText(path)
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
