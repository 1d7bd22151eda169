package form

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var controls = template.Must(template.ParseFS(templateFS, "templates/controls.html"))

const (
	dateValueLayout     = "2006-01-02"
	dateTimeValueLayout = "2006-01-02T15:04"
)

type control struct {
	Field     Field
	Value     string
	Error     string
	InputType string
	Checked   bool
	Custom    template.HTML
}

// Render draws the control for field carrying value, with errText beneath it.
// Every field type is handled here; anything else fails with ErrUnknownFieldType.
func Render(field Field, value, errText string) (template.HTML, error) {
	c := control{Field: field, Value: value, Error: errText}

	var name string
	switch field.Type {
	case FieldInput:
		name = "input"
		c.InputType = field.InputType
		if c.InputType == "" {
			c.InputType = "text"
		}
	case FieldPhoneInput:
		name = "input"
		c.InputType = "tel"
	case FieldDatePicker:
		name = "date-picker"
		c.InputType = "date"
		if field.ShowTimeSelect {
			c.InputType = "datetime-local"
		}
	case FieldSelect:
		name = "select"
	case FieldTextarea:
		name = "textarea"
	case FieldCheckbox:
		name = "checkbox"
		c.Checked = value == "true"
	case FieldFileUpload:
		name = "file-upload"
	case FieldCustomRender:
		if field.Render == nil {
			return "", fmt.Errorf("%w: %s", ErrMissingRenderer, field.Name)
		}
		custom, err := field.Render(field, value)
		if err != nil {
			return "", fmt.Errorf("failed to render %s: %w", field.Name, err)
		}
		name = "custom"
		c.Custom = custom
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, field.Type)
	}

	var buf bytes.Buffer
	if err := controls.ExecuteTemplate(&buf, name, c); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", field.Name, err)
	}
	return template.HTML(buf.String()), nil
}

// RenderAll renders fields in order with their values and errors
func RenderAll(fields []Field, values, errs map[string]string) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(fields))
	for _, f := range fields {
		html, err := Render(f, values[f.Name], errs[f.Name])
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// DateValue formats t the way a date-picker control expects its value
func DateValue(field Field, t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	if field.ShowTimeSelect {
		return t.Format(dateTimeValueLayout)
	}
	return t.Format(dateValueLayout)
}

// ParseDateValue reads a submitted date-picker value in loc
func ParseDateValue(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{dateTimeValueLayout, dateValueLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
