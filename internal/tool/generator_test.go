package tool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pizzaiolo/internal/openapi"
)

func placeOrderOp() openapi.Operation {
	return openapi.Operation{
		ID:      "placeOrder",
		Method:  "POST",
		Path:    "/api/orders",
		Summary: "Place a new pizza order",
		Params: []openapi.Param{
			{Name: "pizzaId", Location: openapi.LocationBody, Required: true, Schema: &openapi.Schema{Type: "string"}},
			{Name: "size", Location: openapi.LocationBody, Required: true, Schema: &openapi.Schema{Type: "string", Enum: []any{"s", "m", "l"}}},
			{Name: "quantity", Location: openapi.LocationBody, Required: true, Schema: &openapi.Schema{Type: "integer"}},
			{Name: "address", Location: openapi.LocationBody, Required: true, Schema: &openapi.Schema{Type: "string"}},
			{Name: "notes", Location: openapi.LocationBody, Schema: &openapi.Schema{Type: "string"}},
		},
	}
}

func TestGenerateMapsOperation(t *testing.T) {
	def, recipe, err := Generate(placeOrderOp())
	require.NoError(t, err)

	assert.Equal(t, "placeOrder", def.Name)
	assert.Equal(t, "Place a new pizza order", def.Description)
	assert.Equal(t, "POST", recipe.Method)
	assert.Equal(t, "/api/orders", recipe.PathTemplate)

	require.Len(t, def.InputSchema, 5)
	assert.Equal(t, []string{"address", "pizzaId", "quantity", "size"}, def.RequiredFields())
	assert.Equal(t, "integer", def.InputSchema["quantity"].Type)
	assert.Len(t, def.InputSchema["size"].Enum, 3)
	assert.False(t, def.InputSchema["notes"].Required)
}

func TestGenerateRequiredFieldsPreserved(t *testing.T) {
	op := placeOrderOp()
	def, _, err := Generate(op)
	require.NoError(t, err)

	// Every required operation parameter appears as a required schema entry.
	for _, p := range op.Params {
		spec, ok := def.InputSchema[p.Name]
		require.True(t, ok)
		assert.Equal(t, p.Required, spec.Required, "field %s", p.Name)
	}
}

func TestGenerateDescriptionFallback(t *testing.T) {
	op := openapi.Operation{ID: "listPizzas", Method: "GET", Path: "/api/pizzas"}
	def, _, err := Generate(op)
	require.NoError(t, err)
	assert.Equal(t, "GET /api/pizzas", def.Description)
}

func TestGenerateDeterministic(t *testing.T) {
	op := placeOrderOp()

	first, _, err := Generate(op)
	require.NoError(t, err)
	second, _, err := Generate(op)
	require.NoError(t, err)

	// Byte-identical serialized output across runs.
	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateRejectsComposite(t *testing.T) {
	op := openapi.Operation{
		ID: "weird", Method: "POST", Path: "/weird",
		Params: []openapi.Param{{
			Name:     "choice",
			Location: openapi.LocationBody,
			Schema: &openapi.Schema{
				AnyOf: []*openapi.Schema{{Type: "string"}, {Type: "integer"}},
			},
		}},
	}

	_, _, err := Generate(op)
	require.ErrorIs(t, err, ErrUnsupportedSchema)

	var use *UnsupportedSchemaError
	require.ErrorAs(t, err, &use)
	assert.Equal(t, "weird", use.Operation)
	assert.Equal(t, "choice", use.Field)
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	op := openapi.Operation{
		ID: "weird", Method: "POST", Path: "/weird",
		Params: []openapi.Param{{
			Name:     "blob",
			Location: openapi.LocationBody,
			Schema:   &openapi.Schema{Type: "binary"},
		}},
	}
	_, _, err := Generate(op)
	require.ErrorIs(t, err, ErrUnsupportedSchema)
}

func TestBuildRegistrySkipsUnsupported(t *testing.T) {
	ops := []openapi.Operation{
		{ID: "good", Method: "GET", Path: "/good"},
		{
			ID: "bad", Method: "POST", Path: "/bad",
			Params: []openapi.Param{{
				Name:     "x",
				Location: openapi.LocationBody,
				Schema:   &openapi.Schema{OneOf: []*openapi.Schema{{Type: "string"}}},
			}},
		},
	}

	registry, err := BuildRegistry(ops, "http://localhost:8000", nil)
	require.NoError(t, err)

	defs := registry.List()
	require.Len(t, defs, 1)
	assert.Equal(t, "good", defs[0].Name)
}
