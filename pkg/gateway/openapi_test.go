package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jguan/modelrun/pkg/registry"
	"github.com/jguan/modelrun/pkg/unit"
)

func generateSpec(t *testing.T) OpenAPISpec {
	t.Helper()
	reg := unit.NewRegistry()
	require.NoError(t, registry.RegisterAll(reg))

	var spec OpenAPISpec
	require.NoError(t, json.Unmarshal(GenerateOpenAPI(reg, Routes()), &spec))
	return spec
}

func paramNames(params []OpenAPIParameter, in string) []string {
	var names []string
	for _, p := range params {
		if p.In == in {
			names = append(names, p.Name)
		}
	}
	return names
}

func TestGenerateOpenAPI_Info(t *testing.T) {
	spec := generateSpec(t)

	assert.Equal(t, OpenAPIVersion, spec.OpenAPI)
	assert.Equal(t, APITitle, spec.Info.Title)
	assert.Contains(t, spec.Components.Schemas, "ExecuteRequest")
	assert.Contains(t, spec.Components.Schemas, "ErrorResponse")
}

func TestGenerateOpenAPI_Paths(t *testing.T) {
	spec := generateSpec(t)

	for _, route := range Routes() {
		path := APIPrefix + route.Path
		require.Contains(t, spec.Paths, path)
	}
	assert.Contains(t, spec.Paths, APIPrefix+"/execute")
	assert.Contains(t, spec.Paths, "/health")
}

func TestGenerateOpenAPI_PathParameters(t *testing.T) {
	spec := generateSpec(t)

	op := spec.Paths[APIPrefix+"/accelerators/{id}/engines"]["get"]
	assert.Equal(t, "catalog_compatible_engines", op.OperationID)
	assert.Equal(t, []string{"id"}, paramNames(op.Parameters, "path"))
	// The accelerator comes from the path, so only the model is a query parameter.
	assert.Equal(t, []string{"model"}, paramNames(op.Parameters, "query"))

	get := spec.Paths[APIPrefix+"/models/{id}"]["get"]
	assert.Equal(t, []string{"id"}, paramNames(get.Parameters, "path"))
	assert.Empty(t, paramNames(get.Parameters, "query"))
}

func TestGenerateOpenAPI_GenerateBody(t *testing.T) {
	spec := generateSpec(t)

	op := spec.Paths[APIPrefix+"/generate"]["post"]
	require.NotNil(t, op.RequestBody)
	body := op.RequestBody.Content[ContentTypeJSON].Schema
	for _, field := range []string{"accelerator", "model", "engine", "parameters"} {
		assert.Contains(t, body.Properties, field)
	}
	assert.Contains(t, body.Properties["parameters"].Properties, "gpu_memory_utilization")
	assert.Contains(t, op.Responses, "404")
}

func TestGenerateOpenAPI_SkipsUnregisteredUnits(t *testing.T) {
	reg := unit.NewRegistry()
	routes := []Route{{Method: "GET", Path: "/ghost", Unit: "ghost.list"}}

	var spec OpenAPISpec
	require.NoError(t, json.Unmarshal(GenerateOpenAPI(reg, routes), &spec))
	assert.NotContains(t, spec.Paths, APIPrefix+"/ghost")
}

func TestSanitizeOperationID(t *testing.T) {
	assert.Equal(t, "launch_generate", sanitizeOperationID("launch.generate"))
	assert.Equal(t, "catalog_get_model_x", sanitizeOperationID("catalog.get-model.x"))
}
