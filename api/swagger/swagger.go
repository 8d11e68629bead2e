package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MCU Dashboard API",
        "description": "Employee Medical Check-Up record dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Staff authentication"},
        {"name": "Employees", "description": "Employee roster and MCU status"},
        {"name": "MCU History", "description": "Per-employee MCU history records"},
        {"name": "Documents", "description": "MCU document download"},
        {"name": "Dashboard", "description": "Aggregated MCU statistics"},
        {"name": "Export", "description": "Asynchronous report export"},
        {"name": "Reminders", "description": "Expiry reminder sweep"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive a token pair",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "New token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or expired refresh token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Revoke the active refresh token",
                "responses": {
                    "200": {"description": "Logged out"}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Change the current user's password",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password updated"},
                    "401": {"description": "Old password mismatch"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Current authenticated user",
                "responses": {
                    "200": {"description": "User info", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "List employees",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "position", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["Active", "Will Expire", "Expired", "No MCU"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Paginated employee list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "Create an employee",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "nik", "in": "formData", "type": "string", "required": true},
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "position", "in": "formData", "type": "string", "required": true},
                    {"name": "birth_date", "in": "formData", "type": "string"},
                    {"name": "hire_date", "in": "formData", "type": "string"},
                    {"name": "mcu_date", "in": "formData", "type": "string"},
                    {"name": "diagnosis", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate NIK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/positions": {
            "get": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "Distinct positions for filter dropdowns",
                "responses": {
                    "200": {"description": "Position list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{nik}": {
            "get": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "Employee detail with MCU history",
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Employee detail", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "Update an employee",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete an employee and its history",
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/employees/{nik}/history": {
            "get": {
                "tags": ["MCU History"],
                "security": [{"BearerAuth": []}],
                "summary": "MCU history for an employee, most recent year first",
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "History list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["MCU History"],
                "security": [{"BearerAuth": []}],
                "summary": "Add an MCU history record with its document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true},
                    {"name": "mcu_year", "in": "formData", "type": "integer", "required": true},
                    {"name": "mcu_date", "in": "formData", "type": "string", "required": true},
                    {"name": "diagnosis", "in": "formData", "type": "string"},
                    {"name": "recommendation", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing document", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{nik}/history/{id}": {
            "delete": {
                "tags": ["MCU History"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete a history record and its document",
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{nik}/documents/{filename}": {
            "get": {
                "tags": ["Documents"],
                "security": [{"BearerAuth": []}],
                "summary": "Download an MCU document, redirecting to the mirror when the local copy is gone",
                "parameters": [
                    {"name": "nik", "in": "path", "type": "string", "required": true},
                    {"name": "filename", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "302": {"description": "Redirect to mirror"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "security": [{"BearerAuth": []}],
                "summary": "Status counters, top diagnoses, age histogram and trends",
                "responses": {
                    "200": {"description": "Dashboard summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export": {
            "post": {
                "tags": ["Export"],
                "security": [{"BearerAuth": []}],
                "summary": "Queue an asynchronous report export",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Job accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/preview": {
            "get": {
                "tags": ["Export"],
                "security": [{"BearerAuth": []}],
                "summary": "Preview export rows without generating a file",
                "parameters": [
                    {"name": "mode", "in": "query", "type": "string", "enum": ["link", "detail"]},
                    {"name": "position", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Preview rows", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{id}": {
            "get": {
                "tags": ["Export"],
                "security": [{"BearerAuth": []}],
                "summary": "Export job status with a signed download URL when finished",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Job status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/download/{token}": {
            "get": {
                "tags": ["Export"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/sweep": {
            "post": {
                "tags": ["Reminders"],
                "security": [{"BearerAuth": []}],
                "summary": "Send expiry reminders to employees whose MCU will expire",
                "responses": {
                    "200": {"description": "Sweep result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 8}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "required": ["mode", "format"],
            "properties": {
                "mode": {"type": "string", "enum": ["link", "detail"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "position": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
