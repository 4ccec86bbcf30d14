package gateway

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/jguan/modelrun/pkg/unit"
)

const (
	OpenAPIVersion = "3.0.0"
	APIVersion     = "1.0.0"
	APITitle       = "modelrun API"
	APIDescription = "Accelerator, model and engine catalog with docker run command generation"
)

type OpenAPISpec struct {
	OpenAPI    string                            `json:"openapi"`
	Info       OpenAPIInfo                       `json:"info"`
	Paths      map[string]map[string]OpenAPIPath `json:"paths"`
	Components *OpenAPIComponents                `json:"components,omitempty"`
}

type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type OpenAPIPath struct {
	Summary     string                     `json:"summary,omitempty"`
	OperationID string                     `json:"operationId,omitempty"`
	Tags        []string                   `json:"tags,omitempty"`
	Parameters  []OpenAPIParameter         `json:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

type OpenAPIParameter struct {
	Name        string        `json:"name"`
	In          string        `json:"in"`
	Required    bool          `json:"required"`
	Description string        `json:"description,omitempty"`
	Schema      OpenAPISchema `json:"schema"`
}

type OpenAPIRequestBody struct {
	Required bool                        `json:"required"`
	Content  map[string]OpenAPIMediaType `json:"content"`
}

type OpenAPIMediaType struct {
	Schema OpenAPISchema `json:"schema"`
}

type OpenAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]OpenAPIMediaType `json:"content,omitempty"`
}

type OpenAPIComponents struct {
	Schemas map[string]OpenAPISchema `json:"schemas,omitempty"`
}

type OpenAPISchema struct {
	Type        string                   `json:"type,omitempty"`
	Properties  map[string]OpenAPISchema `json:"properties,omitempty"`
	Items       *OpenAPISchema           `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	Description string                   `json:"description,omitempty"`
	Enum        []any                    `json:"enum,omitempty"`
	Default     any                      `json:"default,omitempty"`
	Minimum     *float64                 `json:"minimum,omitempty"`
	Maximum     *float64                 `json:"maximum,omitempty"`
	Ref         string                   `json:"$ref,omitempty"`
}

var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

// GenerateOpenAPI documents the REST routes and the execute endpoint using
// the input schemas of the registered queries.
func GenerateOpenAPI(registry *unit.Registry, routes []Route) []byte {
	spec := &OpenAPISpec{
		OpenAPI: OpenAPIVersion,
		Info: OpenAPIInfo{
			Title:       APITitle,
			Description: APIDescription,
			Version:     APIVersion,
		},
		Paths: make(map[string]map[string]OpenAPIPath),
		Components: &OpenAPIComponents{
			Schemas: make(map[string]OpenAPISchema),
		},
	}

	for _, route := range routes {
		q := registry.GetQuery(route.Unit)
		if q == nil {
			continue
		}
		spec.addRoute(route, q)
	}
	spec.addExecuteEndpoint()
	spec.addCommonSchemas()

	data, _ := json.MarshalIndent(spec, "", "  ")
	return data
}

func (s *OpenAPISpec) addRoute(route Route, q unit.Query) {
	path := APIPrefix + route.Path
	method := strings.ToLower(route.Method)

	op := OpenAPIPath{
		Summary:     q.Description(),
		OperationID: sanitizeOperationID(q.Name()),
		Tags:        []string{q.Domain()},
		Responses:   standardResponses(schemaToOpenAPI(q.OutputSchema())),
	}

	input := q.InputSchema()
	pathParams := map[string]bool{}
	for _, m := range pathParamPattern.FindAllStringSubmatch(route.Path, -1) {
		pathParams[m[1]] = true
		op.Parameters = append(op.Parameters, OpenAPIParameter{
			Name:     m[1],
			In:       "path",
			Required: true,
			Schema:   OpenAPISchema{Type: "string"},
		})
	}

	if method == "post" {
		op.RequestBody = &OpenAPIRequestBody{
			Required: true,
			Content: map[string]OpenAPIMediaType{
				ContentTypeJSON: {Schema: schemaToOpenAPI(input)},
			},
		}
	} else {
		names := make([]string, 0, len(input.Properties))
		for name := range input.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			// Path parameters stand in for id and accelerator.
			if name == "id" || (name == "accelerator" && pathParams["id"]) {
				continue
			}
			field := input.Properties[name]
			op.Parameters = append(op.Parameters, OpenAPIParameter{
				Name:        name,
				In:          "query",
				Required:    contains(input.Required, name),
				Description: field.Description,
				Schema:      schemaToOpenAPI(field.Schema),
			})
		}
	}

	if s.Paths[path] == nil {
		s.Paths[path] = make(map[string]OpenAPIPath)
	}
	s.Paths[path][method] = op
}

func (s *OpenAPISpec) addExecuteEndpoint() {
	s.Paths[APIPrefix+"/execute"] = map[string]OpenAPIPath{
		"post": {
			Summary:     "Execute a query unit by name",
			OperationID: "execute",
			Tags:        []string{"execute"},
			RequestBody: &OpenAPIRequestBody{
				Required: true,
				Content: map[string]OpenAPIMediaType{
					ContentTypeJSON: {Schema: OpenAPISchema{Ref: "#/components/schemas/ExecuteRequest"}},
				},
			},
			Responses: standardResponses(OpenAPISchema{Description: "Unit output"}),
		},
	}
	s.Paths["/health"] = map[string]OpenAPIPath{
		"get": {
			Summary:     "Health check",
			OperationID: "health",
			Tags:        []string{"system"},
			Responses: map[string]OpenAPIResponse{
				"200": {Description: "Server is healthy"},
			},
		},
	}
}

func (s *OpenAPISpec) addCommonSchemas() {
	s.Components.Schemas["ExecuteRequest"] = OpenAPISchema{
		Type:     "object",
		Required: []string{"type", "unit"},
		Properties: map[string]OpenAPISchema{
			"type":  {Type: "string", Enum: []any{TypeQuery}},
			"unit":  {Type: "string", Description: "Unit name, e.g. launch.generate"},
			"input": {Type: "object", Description: "Unit input"},
			"options": {
				Type: "object",
				Properties: map[string]OpenAPISchema{
					"timeout":  {Type: "integer", Description: "Timeout in nanoseconds"},
					"trace_id": {Type: "string"},
				},
			},
		},
	}

	s.Components.Schemas["ErrorInfo"] = OpenAPISchema{
		Type: "object",
		Properties: map[string]OpenAPISchema{
			"code":      {Type: "string"},
			"message":   {Type: "string"},
			"details":   {Type: "object"},
			"unit_code": {Type: "string"},
		},
	}

	s.Components.Schemas["ErrorResponse"] = OpenAPISchema{
		Type: "object",
		Properties: map[string]OpenAPISchema{
			"success": {Type: "boolean"},
			"error":   {Ref: "#/components/schemas/ErrorInfo"},
			"meta": {
				Type: "object",
				Properties: map[string]OpenAPISchema{
					"request_id":  {Type: "string"},
					"duration_ms": {Type: "integer"},
					"trace_id":    {Type: "string"},
				},
			},
		},
	}
}

func standardResponses(data OpenAPISchema) map[string]OpenAPIResponse {
	errorBody := map[string]OpenAPIMediaType{
		ContentTypeJSON: {Schema: OpenAPISchema{Ref: "#/components/schemas/ErrorResponse"}},
	}
	return map[string]OpenAPIResponse{
		"200": {
			Description: "Successful response",
			Content: map[string]OpenAPIMediaType{
				ContentTypeJSON: {Schema: OpenAPISchema{
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"success": {Type: "boolean"},
						"data":    data,
					},
				}},
			},
		},
		"400": {Description: "Invalid request", Content: errorBody},
		"404": {Description: "Not found", Content: errorBody},
		"500": {Description: "Internal error", Content: errorBody},
	}
}

func schemaToOpenAPI(s unit.Schema) OpenAPISchema {
	out := OpenAPISchema{
		Type:        s.Type,
		Required:    s.Required,
		Description: s.Description,
		Enum:        s.Enum,
		Default:     s.Default,
		Minimum:     s.Min,
		Maximum:     s.Max,
	}
	if s.Items != nil {
		items := schemaToOpenAPI(*s.Items)
		out.Items = &items
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]OpenAPISchema, len(s.Properties))
		for name, field := range s.Properties {
			out.Properties[name] = schemaToOpenAPI(field.Schema)
		}
	}
	return out
}

func sanitizeOperationID(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
