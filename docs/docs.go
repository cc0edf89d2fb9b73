// Package docs holds the OpenAPI document served at /spec. It is generated
// by swag init from the handler annotations; edit the annotations, not this file.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "List books",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "genre", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "publisher", "in": "query"},
                    {"type": "string", "name": "author", "in": "query"},
                    {"type": "string", "name": "language", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "sort_field", "in": "query"},
                    {"type": "string", "name": "sort_order", "in": "query"},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/data.Book"}}},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            },
            "post": {
                "description": "Creates a book. Send multipart/form-data with the book JSON in \"data\" and up to 5 files in \"images\", or a plain JSON body.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Create a book",
                "parameters": [
                    {"type": "string", "description": "Book JSON (dto.CreateBookRequestBody)", "name": "data", "in": "formData", "required": true},
                    {"type": "file", "description": "Cover images", "name": "images", "in": "formData"},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/data.Book"}},
                    "400": {"description": "Bad Request"},
                    "413": {"description": "Request Entity Too Large"},
                    "415": {"description": "Unsupported Media Type"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/v1/books/{bookId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Show a book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Book"}},
                    "404": {"description": "Not Found"},
                    "500": {"description": "Internal Server Error"}
                }
            },
            "patch": {
                "description": "Partially updates a book. Multipart requests may add images and name the storage ids to remove in \"images_to_delete\".",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Update a book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true},
                    {"type": "string", "description": "Book JSON (dto.UpdateBookRequestBody)", "name": "data", "in": "formData"},
                    {"type": "file", "description": "New images", "name": "images", "in": "formData"},
                    {"type": "string", "description": "JSON array of storage ids", "name": "images_to_delete", "in": "formData"},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Book"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"},
                    "500": {"description": "Internal Server Error"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Delete a book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/v1/readers/{readerId}/loans": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["loans"],
                "summary": "Lend a book to a reader",
                "parameters": [
                    {"type": "string", "description": "Reader ID", "name": "readerId", "in": "path", "required": true},
                    {"description": "Loan", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BorrowBookRequestBody"}},
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "header", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/data.Receipt"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/v1/healthcheck": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Report application status",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "data.Book": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "isbn": {"type": "string"},
                "total_copies": {"type": "integer"},
                "available_copies": {"type": "integer"},
                "version": {"type": "integer"}
            }
        },
        "data.Receipt": {
            "type": "object",
            "properties": {
                "reader": {"type": "object"},
                "entry": {"type": "object"},
                "transaction": {"type": "object"}
            }
        },
        "dto.BorrowBookRequestBody": {
            "type": "object",
            "properties": {
                "book_id": {"type": "string"},
                "note": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Athenaeum API",
	Description:      "This is an API service for running a library: catalogue, readers and loans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
