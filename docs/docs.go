// Package docs is generated by swaggo/swag from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@iledu.in"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/loan/canApply": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "True when the caller has no applications or all of them were rejected",
                "produces": ["application/json"],
                "tags": ["Loan"],
                "summary": "Check eligibility",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "400": {"description": "User profile not found", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/loan/getApplications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Applications with display status and relative age. Paged only when page or limit is given.",
                "produces": ["application/json"],
                "tags": ["Loan"],
                "summary": "List my applications",
                "parameters": [
                    {"type": "string", "description": "pending, accepted or rejected", "name": "status", "in": "query"},
                    {"type": "string", "description": "Purpose contains", "name": "q", "in": "query"},
                    {"type": "string", "description": "amountRequested, createdAt or status", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "order", "in": "query"},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "User profile not found", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/loan/uploadDetails": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Multipart form with userDetails and familyDetails as JSON strings and files under documents.<slot>",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Loan"],
                "summary": "Submit application",
                "parameters": [
                    {"type": "string", "description": "Loan details JSON", "name": "userDetails", "in": "formData", "required": true},
                    {"type": "string", "description": "Family details JSON", "name": "familyDetails", "in": "formData", "required": true},
                    {"type": "file", "description": "Aadhar card", "name": "documents.aadharCard", "in": "formData", "required": true},
                    {"type": "file", "description": "10th marksheet", "name": "documents.marksheet10th", "in": "formData", "required": true},
                    {"type": "file", "description": "12th marksheet", "name": "documents.marksheet12th", "in": "formData", "required": true},
                    {"type": "file", "description": "Ration card", "name": "documents.rationCard", "in": "formData"},
                    {"type": "file", "description": "Proof of income", "name": "documents.proofOfIncome", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.SubmissionResult"}},
                    "400": {"description": "User profile not found", "schema": {"type": "string"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/loan/validateStage": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Applies next, back or submit to the draft and returns the resulting stage with field errors",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loan"],
                "summary": "Validate a stage",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/loan/occupations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Loan"],
                "summary": "Occupation vocabulary",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/admin/applications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List all applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/applications/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Decide application",
                "parameters": [
                    {"type": "string", "description": "Application ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"},
                "fields": {}
            }
        },
        "services.SubmissionResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "loanApplicationId": {"type": "string"},
                "files": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "api.iledu.in",
	BasePath:         "/api",
	Schemes:          []string{"https"},
	Title:            "iLEdu Loan API",
	Description:      "Education loan intake: eligibility, staged application, document upload and review.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
