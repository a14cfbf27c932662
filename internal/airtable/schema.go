package airtable

import (
	"bytes"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// List pages are validated against this schema before decoding, so a
// malformed upstream payload surfaces as a gateway error instead of a
// half-decoded batch.
const listPageSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["records"],
	"properties": {
		"records": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"createdTime": {"type": "string"},
					"fields": {"type": "object"}
				}
			}
		},
		"offset": {"type": "string"}
	}
}`

var listPageValidator = mustCompileListPageSchema()

func mustCompileListPageSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(listPageSchema))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("airtable-list-page.json", doc); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("airtable-list-page.json")
	if err != nil {
		panic(err)
	}
	return schema
}

func validateListPage(body []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return err
	}
	return listPageValidator.Validate(instance)
}
