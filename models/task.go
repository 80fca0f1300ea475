package models

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const MaxDescriptionLength = 100

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description" validate:"required,max=100"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left as they are.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

var validate = newValidator()

var fieldMessages = map[string]map[string]string{
	"description": {
		"required": "Description is required",
		"max":      "Description can not be more than 100 characters",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewTask builds an unsaved task. The store assigns ID and CreatedAt.
func NewTask(description string, completed *bool) Task {
	t := Task{Description: description}
	if completed != nil {
		t.Completed = *completed
	}
	return t
}

// TrimDescription strips surrounding white space, including the byte order
// mark, from a description.
func TrimDescription(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// Normalize trims the description the same way on every write path.
func (t *Task) Normalize() {
	t.Description = TrimDescription(t.Description)
}

// Apply merges a patch into a copy of the task. ID and CreatedAt never change.
func (t Task) Apply(p TaskPatch) Task {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Validate checks the field constraints of a normalized task and reports one
// message per violated field.
func (t Task) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out.Add(fe.Field(), msg)
	}
	return out
}
