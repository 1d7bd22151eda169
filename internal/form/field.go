package form

import (
	"errors"
	"fmt"
	"html/template"
)

var (
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrMissingRenderer  = errors.New("custom-render field has no render function")
)

// FieldType is the closed set of controls a form can contain
type FieldType string

const (
	FieldInput        FieldType = "input"
	FieldSelect       FieldType = "select"
	FieldTextarea     FieldType = "textarea"
	FieldCheckbox     FieldType = "checkbox"
	FieldPhoneInput   FieldType = "phone-input"
	FieldDatePicker   FieldType = "date-picker"
	FieldFileUpload   FieldType = "file-upload"
	FieldCustomRender FieldType = "custom-render"
)

var fieldTypes = []FieldType{
	FieldInput,
	FieldSelect,
	FieldTextarea,
	FieldCheckbox,
	FieldPhoneInput,
	FieldDatePicker,
	FieldFileUpload,
	FieldCustomRender,
}

func ParseFieldType(s string) (FieldType, error) {
	for _, t := range fieldTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// Option is one choice of a select field. Image is shown next to the name when set.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Image string `json:"image,omitempty"`
}

// RenderFunc draws the control of a custom-render field
type RenderFunc func(field Field, value string) (template.HTML, error)

// Field describes one form control
type Field struct {
	Type        FieldType `json:"type"`
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	IconSrc     string    `json:"iconSrc,omitempty"`
	IconAlt     string    `json:"iconAlt,omitempty"`
	Disabled    bool      `json:"disabled,omitempty"`
	// InputType overrides the html type of an input field, text by default
	InputType      string     `json:"inputType,omitempty"`
	DateFormat     string     `json:"dateFormat,omitempty"`
	ShowTimeSelect bool       `json:"showTimeSelect,omitempty"`
	Accept         string     `json:"accept,omitempty"`
	Options        []Option   `json:"options,omitempty"`
	Render         RenderFunc `json:"-"`
}

// Section groups fields under a heading
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}
