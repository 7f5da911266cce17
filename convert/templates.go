package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"hdoc/config"
)

// docInfo describes converted document for output naming.
type docInfo struct {
	// SrcName is source path relative to processed input.
	SrcName string
	RefID   string
	// Title is text of the first element with any text.
	Title    string
	Elements int
}

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Format     string
	SourceFile string
	RefID      string
	Elements   int
}

const outputFormat = "tree"

func expandTemplate(d *docInfo, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      d.Title,
		Format:     outputFormat,
		SourceFile: strings.TrimSuffix(filepath.Base(d.SrcName), filepath.Ext(d.SrcName)),
		RefID:      d.RefID,
		Elements:   d.Elements,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
