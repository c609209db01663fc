// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/healthconsultant/main.go -o docs
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
        "/api/patients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["patients"],
                "summary": "List patients",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 50)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.PatientListSuccessResponse"}},
                    "502": {"description": "error.code: upstream_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["patients"],
                "summary": "Register a patient",
                "parameters": [
                    {"description": "Patient data", "name": "patient", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreatePatientRequest"}}
                ],
                "responses": {
                    "201": {"description": "data contains the created patient", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/patients/directory": {
            "get": {
                "produces": ["application/json"],
                "tags": ["patients"],
                "summary": "List every patient",
                "responses": {
                    "200": {"description": "data is an array of patients", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/consultations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "List consultations",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 50)", "name": "page_size", "in": "query"},
                    {"type": "integer", "description": "Patient ID filter", "name": "patient", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ConsultationListSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "Record a consultation",
                "parameters": [
                    {"description": "Consultation data", "name": "consultation", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateConsultationRequest"}}
                ],
                "responses": {
                    "201": {"description": "data contains the created consultation", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/consultations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "Get a consultation",
                "parameters": [{"type": "integer", "description": "Consultation ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data contains the consultation", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/consultations/{id}/generate-summary": {
            "post": {
                "produces": ["application/json"],
                "tags": ["summaries"],
                "summary": "Generate the AI summary of a consultation",
                "parameters": [{"type": "integer", "description": "Consultation ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data.ready is true", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "202": {"description": "data.ready is false", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request (blank symptoms)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "429": {"description": "error.code: rate_limited", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: service_unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/consultations/{id}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["summaries"],
                "summary": "Get the summary status of a consultation",
                "parameters": [
                    {"type": "integer", "description": "Consultation ID", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "Long-poll until ready", "name": "wait", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "data contains consultation_id, ready and ai_summary", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "data contains the health report", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "data contains the health report", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Patient": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "full_name": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "domain.Consultation": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "patient": {"type": "integer"},
                "patient_name": {"type": "string"},
                "symptoms": {"type": "string"},
                "diagnosis": {"type": "string"},
                "created_at": {"type": "string"},
                "ai_summary": {"type": "string", "x-nullable": true}
            }
        },
        "controllers.CreatePatientRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "controllers.CreateConsultationRequest": {
            "type": "object",
            "properties": {
                "patient": {"type": "integer"},
                "symptoms": {"type": "string"},
                "diagnosis": {"type": "string"}
            }
        },
        "controllers.PatientList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Patient"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.PatientListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.PatientList"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ConsultationList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Consultation"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.ConsultationListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ConsultationList"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "window": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "type": {"type": "string", "enum": ["page", "ellipsis"]},
                            "page": {"type": "integer"}
                        }
                    }
                },
                "has_previous": {"type": "boolean"},
                "has_next": {"type": "boolean"}
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
	Title:            "Health Consultant API",
	Description:      "Patients, consultations and AI summaries, with page-window pagination metadata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
