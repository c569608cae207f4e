package server

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/sozercan/predict-api/internal/prediction"
)

// buildOpenAPI describes the service for the /docs page. The request
// schema is derived from the json and validate tags of the variant input.
func buildOpenAPI(v prediction.Variant) ([]byte, error) {
	inputType := reflect.TypeOf(v.NewInput())
	inputSchema := typeToJSONSchema(inputType)
	inputName := inputType.Elem().Name()

	doc := map[string]interface{}{
		"openapi": "3.1.0",
		"info": map[string]interface{}{
			"title":       v.Title,
			"description": v.Description,
			"version":     "0.1.0",
		},
		"paths": map[string]interface{}{
			"/predict": map[string]interface{}{
				"post": map[string]interface{}{
					"summary": "Predict " + strings.ReplaceAll(v.ResultKey, "_", " "),
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{"$ref": "#/components/schemas/" + inputName},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": jsonResponse("Successful Response", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								v.ResultKey: map[string]interface{}{"type": "number"},
							},
							"required": []string{v.ResultKey},
						}),
						"422": jsonResponse("Validation Error", map[string]interface{}{"$ref": "#/components/schemas/HTTPValidationError"}),
						"500": jsonResponse("Prediction Error", map[string]interface{}{"$ref": "#/components/schemas/HTTPError"}),
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				inputName: inputSchema,
				"HTTPValidationError": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"detail": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"loc":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
									"msg":  map[string]interface{}{"type": "string"},
									"type": map[string]interface{}{"type": "string"},
								},
							},
						},
					},
				},
				"HTTPError": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"detail": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func jsonResponse(description string, schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{"schema": schema},
		},
	}
}

func typeToJSONSchema(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		props := map[string]interface{}{}
		var requiredFields []string

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}

			jsonName := jsonFieldName(f)
			if jsonName == "" {
				continue
			}

			fieldSchema := typeToJSONSchema(f.Type)
			required := applyValidateTag(fieldSchema, f.Tag.Get("validate"))
			props[jsonName] = fieldSchema
			if required {
				requiredFields = append(requiredFields, jsonName)
			}
		}

		objSchema := map[string]interface{}{
			"type":       "object",
			"properties": props,
			"title":      t.Name(),
		}
		if len(requiredFields) > 0 {
			objSchema["required"] = requiredFields
		}
		return objSchema

	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Int, reflect.Int64, reflect.Int32:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{
			"type":  "array",
			"items": typeToJSONSchema(t.Elem()),
		}
	default:
		return map[string]interface{}{"type": "object"}
	}
}

// applyValidateTag copies numeric bounds from a validator tag into schema
// and reports whether the field is required.
func applyValidateTag(schema map[string]interface{}, tag string) bool {
	required := false
	for _, rule := range strings.Split(tag, ",") {
		name, param, _ := strings.Cut(rule, "=")
		if name == "required" {
			required = true
			continue
		}
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			continue
		}
		switch name {
		case "gt":
			schema["exclusiveMinimum"] = bound
		case "gte", "min":
			schema["minimum"] = bound
		case "lt":
			schema["exclusiveMaximum"] = bound
		case "lte", "max":
			schema["maximum"] = bound
		}
	}
	return required
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	parts := strings.Split(tag, ",")
	return parts[0]
}
