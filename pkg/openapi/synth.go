// Package openapi builds the OpenAPI document of a registry of exposed
// functions. Every function here is pure; the same registry always yields
// the same document.
package openapi

import (
	"strconv"

	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
)

const jsonContent = "application/json"

// BodySchema describes the JSON body a function accepts.
func BodySchema(sig signature.Signature) ObjectSchema {
	props := make(map[string]Schema, len(sig.Params))
	for _, p := range sig.Params {
		var s Schema
		if p.Typed() {
			s.Type = TypeToSchema(p.Type)
		} else {
			s.OneOf = AnyType
		}
		if p.HasDefault {
			s.Default, s.HasDefault = p.Default, true
		}
		props[p.Name] = s
	}
	return ObjectSchema{Type: "object", Properties: props, AdditionalProperties: sig.AcceptsExtra}
}

// ResponsesSchema keys the success reference by the endpoint's effective
// status and always documents a 500.
func ResponsesSchema(ep *endpoints.Endpoint) map[string]Response {
	success := Response{Ref: ref(SuccessfulOperation)}
	if ep.Callback.Enabled {
		success.Ref = ref(AcceptedOperation)
	} else if ep.Function != nil && ep.Function.Return != nil {
		success.Content = map[string]MediaType{
			jsonContent: {Schema: Schema{Type: TypeToSchema(ep.Function.Return)}},
		}
	}
	return map[string]Response{
		strconv.Itoa(ep.StatusCode()): success,
		"500":                         {Ref: ref(InternalError)},
	}
}

// HeadersSchema lists the callback headers of a delegating endpoint.
func HeadersSchema(ep *endpoints.Endpoint) []Parameter {
	out := []Parameter{}
	if !ep.Callback.Enabled {
		return out
	}
	for _, h := range ep.Callback.Finders.Headers() {
		out = append(out, Parameter{
			In:          "header",
			Name:        h.Name,
			Schema:      Schema{Type: "string"},
			Required:    h.Required,
			Description: h.Description,
		})
	}
	return out
}

// OperationSchema assembles the operation of one endpoint. The request body
// is documented when the function takes parameters or extra keys.
func OperationSchema(ep *endpoints.Endpoint) Operation {
	op := Operation{
		Description: ep.Docstring,
		Parameters:  HeadersSchema(ep),
		Responses:   ResponsesSchema(ep),
	}
	if op.Description == "" {
		op.Description = endpoints.DefaultDocstring
	}
	if ep.Function == nil {
		return op
	}
	body := BodySchema(ep.Function.Signature)
	if len(body.Properties) > 0 || body.AdditionalProperties {
		op.RequestBody = &RequestBody{
			Required: true,
			Content:  map[string]MediaType{jsonContent: {Schema: body}},
		}
	}
	return op
}

// Build walks the registry. Endpoints without a function, such as the
// documentation routes, are left out.
func Build(reg *endpoints.Registry, info Info) Document {
	paths := map[string]PathItem{}
	for _, ep := range reg.Endpoints() {
		if ep.Function == nil {
			continue
		}
		item, ok := paths[ep.Route]
		if !ok {
			item = PathItem{}
			paths[ep.Route] = item
		}
		item[ep.Method] = OperationSchema(ep)
	}

	return Document{
		OpenAPI:    Version,
		Info:       info,
		Paths:      paths,
		Components: components(),
	}
}
