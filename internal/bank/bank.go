// Package bank loads and validates question banks.
package bank

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/verte-zerg/quizdrill/internal/model"
)

//go:embed data/dva.json
var defaultBank []byte

// ErrInvalidBank is returned when a bank fails schema or semantic checks.
var ErrInvalidBank = errors.New("invalid question bank")

// Bank is an immutable, ordered question collection partitioned by domain.
type Bank struct {
	domains   []string
	questions []model.Question
	byID      map[string]int
}

type bankFile struct {
	Domains   []string         `json:"domains"`
	Questions []model.Question `json:"questions"`
}

// Default returns the embedded AWS Developer Associate bank.
func Default() (*Bank, error) {
	return Parse(defaultBank)
}

// Load reads and validates a bank from a JSON file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank: %w", err)
	}
	return Parse(data)
}

// Parse validates raw bank JSON and builds a Bank.
func Parse(data []byte) (*Bank, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	return New(f.Domains, f.Questions)
}

// New builds a Bank from already decoded parts.
func New(domains []string, questions []model.Question) (*Bank, error) {
	if err := validateSemantics(domains, questions); err != nil {
		return nil, err
	}
	b := &Bank{
		domains:   append([]string(nil), domains...),
		questions: append([]model.Question(nil), questions...),
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range b.questions {
		b.byID[q.ID] = i
	}
	return b, nil
}

// Domains returns the domain enumeration in declared order.
func (b *Bank) Domains() []string {
	return append([]string(nil), b.domains...)
}

// Questions returns all questions in bank order.
func (b *Bank) Questions() []model.Question {
	return append([]model.Question(nil), b.questions...)
}

// ByDomain returns the questions tagged with domain, in bank order.
func (b *Bank) ByDomain(domain string) []model.Question {
	var out []model.Question
	for _, q := range b.questions {
		if q.Domain == domain {
			out = append(out, q)
		}
	}
	return out
}

// Lookup finds a question by id.
func (b *Bank) Lookup(id string) (model.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return model.Question{}, false
	}
	return b.questions[i], true
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}
