// Package catalog loads question sets from JSON. Documents are checked in
// three passes: a JSON schema for shape, struct tags for required fields,
// and per-question semantic checks. The first two reject the document;
// semantic problems only produce warnings so a broken question scores 0
// instead of halting the session.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/seatwork/internal/quiz"
)

//go:embed schema.json
var schemaJSON []byte

//go:embed sample.json
var sampleJSON []byte

const schemaURL = "schema://seatwork/question-set.json"

// Set is one item of seatwork: an ordered list of questions for a grade.
type Set struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Title     string          `json:"title"`
	Grade     int             `json:"grade" validate:"min=1,max=12"`
	Mode      string          `json:"mode"`
	Questions []quiz.Question `json:"questions" validate:"unique=ID,dive"`
}

// Warning reports a semantic problem with one question.
type Warning struct {
	QuestionID string
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.QuestionID, w.Message)
}

// ErrInvalid wraps every document-level rejection.
var ErrInvalid = errors.New("invalid question set")

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	validateOnce sync.Once
	validate     *validator.Validate
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Use JSON tag names in error messages.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Load parses and validates a question set.
func Load(r io.Reader) (*Set, []Warning, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read question set: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("compile schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var set Set
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := structValidator().Struct(&set); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}

	var warnings []Warning
	for i := range set.Questions {
		for _, msg := range Check(&set.Questions[i]) {
			warnings = append(warnings, Warning{QuestionID: set.Questions[i].ID, Message: msg})
		}
	}
	if len(set.Questions) == 0 {
		warnings = append(warnings, Warning{Message: "question set is empty"})
	}
	return &set, warnings, nil
}

// LoadFile loads a question set from path.
func LoadFile(path string) (*Set, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open question set: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Sample returns the built-in question set.
func Sample() (*Set, []Warning, error) {
	return Load(bytes.NewReader(sampleJSON))
}

// describe flattens validator errors into "field: tag" pairs.
func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
