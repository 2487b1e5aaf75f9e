package bank

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/verte-zerg/quizdrill/internal/model"
)

const schemaURL = "schema://quizdrill/bank.json"

const bankSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["domains", "questions"],
  "properties": {
    "domains": {
      "type": "array",
      "minItems": 1,
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "domain", "question", "options", "correct"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "domain": {"type": "string", "minLength": 1},
          "question": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 2,
            "items": {"type": "string"}
          },
          "correct": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "integer", "minimum": 0}
          },
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(bankSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile bank schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateSchema checks raw bank JSON against the bank schema.
func validateSchema(data []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	if err := sch.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrInvalidBank, strings.TrimSpace(verr.Error()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	return nil
}

// validateSemantics checks the constraints the schema cannot express.
func validateSemantics(domains []string, questions []model.Question) error {
	declared := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		declared[d] = struct{}{}
	}
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if _, ok := declared[q.Domain]; !ok {
			return fmt.Errorf("%w: question %q has undeclared domain %q", ErrInvalidBank, q.ID, q.Domain)
		}
		if len(q.Correct) == 0 {
			return fmt.Errorf("%w: question %q has no correct option", ErrInvalidBank, q.ID)
		}
		picked := make(map[int]struct{}, len(q.Correct))
		for _, idx := range q.Correct {
			if idx < 0 || idx >= len(q.Options) {
				return fmt.Errorf("%w: question %q correct index %d out of range", ErrInvalidBank, q.ID, idx)
			}
			if _, dup := picked[idx]; dup {
				return fmt.Errorf("%w: question %q repeats correct index %d", ErrInvalidBank, q.ID, idx)
			}
			picked[idx] = struct{}{}
		}
	}
	return nil
}
