/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schemas
var schemaFS embed.FS

const openAPIDocument = "schemas/openapi.yaml"

// SchemaRegistry holds named schemas used to validate response bodies.
// Named schemas come from the components section of the embedded OpenAPI
// document and from standalone JSON schema files, keyed by file stem.
type SchemaRegistry struct {
	document *openapi3.T
	schemas  map[string]*openapi3.Schema
}

// NewSchemaRegistry loads the embedded schema documents.
func NewSchemaRegistry() (*SchemaRegistry, error) {
	return newSchemaRegistry(schemaFS)
}

func newSchemaRegistry(fsys fs.FS) (*SchemaRegistry, error) {
	r := &SchemaRegistry{
		schemas: map[string]*openapi3.Schema{},
	}

	if err := r.loadOpenAPI(fsys); err != nil {
		return nil, err
	}

	err := fs.WalkDir(fsys, "schemas", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || path.Ext(name) != ".json" {
			return nil
		}

		return r.loadJSONSchema(fsys, name)
	})
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}

	return r, nil
}

func (r *SchemaRegistry) loadOpenAPI(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, openAPIDocument)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("reading %s: %w", openAPIDocument, err)
	}

	loader := openapi3.NewLoader()

	document, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", openAPIDocument, err)
	}

	if err := document.Validate(loader.Context); err != nil {
		return fmt.Errorf("validating %s: %w", openAPIDocument, err)
	}

	r.document = document

	if document.Components == nil {
		return nil
	}

	for name, ref := range document.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}

		r.schemas[name] = ref.Value
	}

	return nil
}

func (r *SchemaRegistry) loadJSONSchema(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	schema := &openapi3.Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	r.schemas[strings.TrimSuffix(path.Base(name), ".json")] = schema

	return nil
}

// Document returns the OpenAPI description of the booking API, if one was loaded.
func (r *SchemaRegistry) Document() *openapi3.T {
	return r.document
}

// Names returns all registered schema names in sorted order.
func (r *SchemaRegistry) Names() []string {
	names := make([]string, 0, len(r.schemas))

	for name := range r.schemas {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Lookup returns the named schema.
func (r *SchemaRegistry) Lookup(name string) (*openapi3.Schema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}

	return schema, nil
}

// Validate checks that a raw JSON body conforms to the named schema.
func (r *SchemaRegistry) Validate(name string, body []byte) error {
	schema, err := r.Lookup(name)
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return &SchemaValidationError{
			Schema: name,
			Reason: fmt.Sprintf("body is not valid JSON: %v", err),
		}
	}

	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return &SchemaValidationError{
			Schema: name,
			Reason: err.Error(),
		}
	}

	return nil
}
