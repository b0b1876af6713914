// Package docs registers the OpenAPI document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Cricstats"},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/health/storage": {
            "get": {
                "tags": ["health"],
                "summary": "Storage health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "tags": ["health"],
                "summary": "Cache health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/tables/{segment}": {
            "get": {
                "tags": ["tables"],
                "summary": "List stored tables",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Player slug or master", "name": "segment", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/tables/{segment}/{category}": {
            "get": {
                "tags": ["tables"],
                "summary": "Get a category table",
                "description": "Returns a stored table for a player slug or the master segment. Dates are rendered as YYYY-MM-DD and missing cells as null.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Player slug or master", "name": "segment", "in": "path", "required": true},
                    {"enum": ["batting", "bowling", "fielding", "allround", "personal_info"], "type": "string", "description": "Category", "name": "category", "in": "path", "required": true},
                    {"enum": ["raw", "tf", "agg"], "type": "string", "description": "Stage (defaults to tf for master, agg for players)", "name": "stage", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.TableResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/aggregate/{player}": {
            "post": {
                "tags": ["aggregate"],
                "summary": "Aggregate a player",
                "description": "Runs the merge-upsert for the selected categories. Categories fail independently; the response is 200 when all succeed and 207 when some failed. Runs targeting the same master are serialized.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Player name or slug", "name": "player", "in": "path", "required": true},
                    {"type": "string", "default": "all", "description": "Category or all", "name": "stat", "in": "query"},
                    {"enum": ["master", "player"], "type": "string", "default": "master", "description": "Aggregate scope", "name": "scope", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.AggregateResponse"}},
                    "207": {"description": "Multi-Status", "schema": {"$ref": "#/definitions/respond.AggregateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "aggregate.Outcome": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "status": {"type": "string", "enum": ["merged", "noop", "skipped", "failed"]},
                "key": {"type": "string"},
                "incoming": {"type": "integer"},
                "rows": {"type": "integer"},
                "written": {"type": "boolean"},
                "reason": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "respond.AggregateResponse": {
            "type": "object",
            "properties": {
                "player": {"type": "string"},
                "scope": {"type": "string"},
                "summary": {"type": "string"},
                "outcomes": {"type": "array", "items": {"$ref": "#/definitions/aggregate.Outcome"}}
            }
        },
        "respond.TableResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Cricstats API",
	Description:      "Serves per-player and master cricket statistics tables and runs merge-upsert aggregation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
