package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed bank.schema.json
var bankSchemaJSON []byte

const bankSchemaURL = "ethiq://questionbank.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// File is the on-disk shape of a question bank. JSON files are accepted
// too since JSON is a subset of YAML.
type File struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

// Load reads a bank file from path. An empty path returns the reference bank.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Reference(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a bank document, checks its shape against the bank JSON
// schema and then builds the Bank.
func Parse(data []byte) (*Bank, error) {
	if err := checkShape(data); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: expected a single document")
	}
	return New(f.Questions)
}

// checkShape validates the raw document against the embedded schema. YAML is
// normalised through JSON so numbers reach the validator as json.Number.
func checkShape(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return &ValidationError{Kind: EmptyBank, Index: -1}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalise: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("normalise: %w", err)
	}

	sch, err := bankSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(bankSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(bankSchemaURL)
	})
	return compiledSchema, compileErr
}

// Marshal renders the bank in the same YAML layout Load accepts.
func (b *Bank) Marshal() ([]byte, error) {
	return yaml.Marshal(File{Questions: b.questions})
}
