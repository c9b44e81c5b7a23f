// Package docs holds the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/controle/": {
            "get": {
                "description": "Polled by the device. Never 404: an untouched mailbox answers {\"modo\":\"auto\"}.",
                "produces": ["application/json"],
                "tags": ["controle"],
                "summary": "Current control command",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ControlResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            },
            "post": {
                "description": "auto ignores cor; manual without cor keeps the previous color.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["controle"],
                "summary": "Replace the control command",
                "parameters": [
                    {"description": "Command payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetControlRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ControlResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/luminosidade/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["luminosidade"],
                "summary": "Latest luminosity reading",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorReading"}},
                    "404": {"description": "no reading yet", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            },
            "post": {
                "description": "Called by the device. The server assigns id and timestamp.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["luminosidade"],
                "summary": "Record a luminosity reading",
                "parameters": [
                    {"description": "Reading payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PostReadingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SensorReading"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/luminosidade/historico/": {
            "get": {
                "description": "Newest first. limite defaults to 20 and is capped at 500.",
                "produces": ["application/json"],
                "tags": ["luminosidade"],
                "summary": "Recent readings",
                "parameters": [
                    {"type": "integer", "example": 20, "description": "Maximum number of readings", "name": "limite", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReadingListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Pushes a \"leitura\" and a \"controle\" envelope every interval (?interval=2s or ?interval_ms=2000, max 10s).",
                "tags": ["system"],
                "summary": "Live stream of the latest reading and the current command",
                "parameters": [
                    {"type": "string", "description": "Go duration, e.g. 2s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "handlers.ControlResponse": {
            "type": "object",
            "properties": {
                "cor": {"$ref": "#/definitions/models.Color"},
                "modo": {"type": "string", "example": "manual"}
            }
        },
        "handlers.SetControlRequest": {
            "type": "object",
            "properties": {
                "cor": {"$ref": "#/definitions/models.Color"},
                "modo": {"type": "string", "example": "manual"}
            }
        },
        "handlers.PostReadingRequest": {
            "type": "object",
            "properties": {
                "modo": {"type": "string", "example": "auto"},
                "valor": {"type": "integer", "example": 512}
            }
        },
        "handlers.ReadingListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "leituras": {"type": "array", "items": {"$ref": "#/definitions/models.SensorReading"}}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {
                "campos": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "erro": {"type": "string"}
            }
        },
        "models.Color": {
            "type": "object",
            "properties": {
                "b": {"type": "integer"},
                "g": {"type": "integer"},
                "r": {"type": "integer"}
            }
        },
        "models.SensorReading": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "modo": {"type": "string"},
                "timestamp": {"type": "string"},
                "valor": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lumen Bridge API",
	Description:      "Luminosity register and control mailbox between a lamp device and its app.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
