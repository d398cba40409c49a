package openapi

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Shared response components.
const (
	SuccessfulOperation = "SuccesfulOperation"
	AcceptedOperation   = "AcceptedOperation"
	InternalError       = "InternalError"
)

// Document is a generated OpenAPI document.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes one (route, method) pair.
type Operation struct {
	Description string              `json:"description"`
	Parameters  []Parameter         `json:"parameters"`
	Responses   map[string]Response `json:"responses"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
}

// Parameter is a header parameter.
type Parameter struct {
	In          string `json:"in"`
	Name        string `json:"name"`
	Schema      Schema `json:"schema"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// RequestBody describes the JSON request body.
type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

// MediaType holds the schema of one content type.
type MediaType struct {
	Schema any `json:"schema"`
}

// Response is either a reference to a shared component or a component
// itself.
type Response struct {
	Ref         string               `json:"$ref,omitempty"`
	Description string               `json:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Components holds the shared responses.
type Components struct {
	Responses map[string]Response `json:"responses"`
}

// Schema is a property or leaf schema. Untyped properties use OneOf.
type Schema struct {
	Type  string   `json:"type,omitempty"`
	OneOf []Schema `json:"oneOf,omitempty"`

	// Default is emitted, null included, only when HasDefault is set.
	Default    any  `json:"-"`
	HasDefault bool `json:"-"`
}

// MarshalJSON appends "default" after the other keys when present.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	b, err := json.Marshal(plain(s))
	if err != nil || !s.HasDefault {
		return b, err
	}
	d, err := json.Marshal(s.Default)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	if len(b) > 2 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"default":`)
	buf.Write(d)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ObjectSchema is the request body schema.
type ObjectSchema struct {
	Type                 string            `json:"type"`
	Properties           map[string]Schema `json:"properties"`
	AdditionalProperties bool              `json:"additionalProperties"`
}

func ref(component string) string { return "#/components/responses/" + component }

func components() Components {
	return Components{Responses: map[string]Response{
		SuccessfulOperation: {Description: "Succesful operation"},
		AcceptedOperation:   {Description: "Accepted operation, the result will be sent to the callback URL"},
		InternalError:       {Description: "Internal server error"},
	}}
}
