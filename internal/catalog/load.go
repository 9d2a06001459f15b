package catalog

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrContentLoad means the dataset could not be read, decoded or
// validated. The game cannot start without it.
var ErrContentLoad = errors.New("quiz content could not be loaded")

//go:embed schema/dataset.schema.json
var datasetSchemaJSON []byte

//go:embed data/quizzes.b64
var builtinDataset []byte

var datasetSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(datasetSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse dataset schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://dataset.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// Builtin loads the dataset compiled into the binary.
func Builtin() (*Catalog, error) {
	return Load(bytes.NewReader(builtinDataset))
}

// LoadFile loads a base64-encoded dataset from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentLoad, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a base64-encoded UTF-8 JSON dataset from r.
func Load(r io.Reader) (*Catalog, error) {
	encoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrContentLoad, err)
	}
	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(encoded)))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrContentLoad, err)
	}
	ds, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentLoad, err)
	}
	return New(ds), nil
}

// decode validates raw JSON against the dataset schema and unmarshals it.
func decode(raw []byte) (Dataset, error) {
	if !utf8.Valid(raw) {
		return Dataset{}, errors.New("dataset is not valid UTF-8")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Dataset{}, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := datasetSchema()
	if err != nil {
		return Dataset{}, fmt.Errorf("compile dataset schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Dataset{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// Encode validates the JSON dataset read from r and writes its base64
// form to w. It returns the decoded dataset for reporting.
func Encode(w io.Writer, r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := decode(raw)
	if err != nil {
		return Dataset{}, err
	}
	if _, err := io.WriteString(w, base64.StdEncoding.EncodeToString(raw)); err != nil {
		return Dataset{}, fmt.Errorf("write encoded dataset: %w", err)
	}
	return ds, nil
}
