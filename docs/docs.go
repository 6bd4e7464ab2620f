// Package docs holds the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Server is running"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "description": "Checks the recipe catalog, the document directory and the favorites store.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "All stores usable"},
                    "503": {"description": "At least one store failed its check"}
                }
            }
        },
        "/info": {
            "get": {
                "tags": ["catalog"],
                "summary": "Server version",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Name and version", "schema": {"type": "string"}}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["catalog"],
                "summary": "List recipes or fetch one recipe document",
                "description": "Without a recette query parameter returns the whole catalog. With it, serves <recette>.html.",
                "produces": ["application/json", "text/html"],
                "parameters": [
                    {"type": "string", "description": "Document name without extension", "name": "recette", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Catalog or document", "schema": {"type": "array", "items": {"type": "object"}}},
                    "404": {"description": "File not Found", "schema": {"type": "string"}},
                    "500": {"description": "Error parsing JSON data.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/recette/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Download the document of one recipe",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document attachment", "schema": {"type": "file"}},
                    "400": {"description": "Invalid recette ID.", "schema": {"type": "string"}},
                    "404": {"description": "Document not found.", "schema": {"type": "string"}},
                    "500": {"description": "Internal server error.", "schema": {"type": "string"}}
                }
            }
        },
        "/favorites": {
            "get": {
                "tags": ["favorites"],
                "summary": "List favorites",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Favorite"}}},
                    "404": {"description": "No favorites found.", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["favorites"],
                "summary": "Add a favorite",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Document file name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.AddFavoriteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "400": {"description": "Filename is required.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "File does not exist.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "This favorite already exists.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["favorites"],
                "summary": "Remove a favorite",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Document file name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.RemoveFavoriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "400": {"description": "Filename is required.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Favorite not found.", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entities.Favorite": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "recetteFile": {"type": "string", "example": "soupe.html"}
            }
        },
        "ports.AddFavoriteRequest": {
            "type": "object",
            "required": ["recetteFile"],
            "properties": {
                "recetteFile": {"type": "string", "example": "soupe.html"}
            }
        },
        "ports.RemoveFavoriteRequest": {
            "type": "object",
            "required": ["filename"],
            "properties": {
                "filename": {"type": "string", "example": "soupe.html"}
            }
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "jsau-apiserver",
	Description:      "Recipe catalog and favorites API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
