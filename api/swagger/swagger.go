package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Batch Fee API",
        "description": "Fee structures, batches and batch fee calculations for tuition administrators",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Batches", "description": "Batch registry"},
        {"name": "FeeStructures", "description": "Fee structure registry"},
        {"name": "BatchFees", "description": "Fee calculation and saved batch fees"},
        {"name": "Reference", "description": "Form options"},
        {"name": "Observability", "description": "Metrics"}
    ],
    "paths": {
        "/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Create batch",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Batch name already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{id}": {
            "get": {
                "tags": ["Batches"],
                "summary": "Get batch",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fee-structures": {
            "get": {
                "tags": ["FeeStructures"],
                "summary": "List fee structures",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["FeeStructures"],
                "summary": "Create fee structure",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeeStructureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fee-structures/{id}": {
            "get": {
                "tags": ["FeeStructures"],
                "summary": "Get fee structure",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch-fees": {
            "get": {
                "tags": ["BatchFees"],
                "summary": "List batch fees with their fee structures",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["BatchFees"],
                "summary": "Calculate and save a batch fee",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateBatchFeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batch or fee structure not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable, retry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch-fees/calculate": {
            "post": {
                "tags": ["BatchFees"],
                "summary": "Preview a batch fee calculation without saving",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateBatchFeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batch or fee structure not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch-fees/export": {
            "get": {
                "tags": ["BatchFees"],
                "summary": "Export batch fees",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference-data": {
            "get": {
                "tags": ["Reference"],
                "summary": "Courses, mediums, regions and discount categories",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Process metrics summary",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateBatchRequest": {
            "type": "object",
            "required": ["batchName", "numberOfStudents", "classesPerMonth", "course", "medium"],
            "properties": {
                "batchName": {"type": "string"},
                "numberOfStudents": {"type": "integer", "minimum": 1},
                "classesPerMonth": {"type": "integer", "minimum": 1},
                "course": {"type": "string"},
                "medium": {"type": "string"}
            }
        },
        "CreateFeeStructureRequest": {
            "type": "object",
            "required": ["feeStructureName", "minStudents", "maxStudents", "region", "medium", "course", "monthlyFee", "totalClasses", "remarks"],
            "properties": {
                "feeStructureName": {"type": "string"},
                "minStudents": {"type": "integer"},
                "maxStudents": {"type": "integer"},
                "region": {"type": "string"},
                "medium": {"type": "string"},
                "course": {"type": "string"},
                "monthlyFee": {"type": "number"},
                "totalClasses": {"type": "integer"},
                "remarks": {"type": "string"}
            }
        },
        "DiscountInput": {
            "type": "object",
            "required": ["studentName", "discountCategory", "discountAmount"],
            "properties": {
                "studentName": {"type": "string"},
                "discountCategory": {
                    "type": "string",
                    "enum": ["Merit Scholarship", "Need-based Scholarship", "Early Bird Discount", "Sibling Discount", "Referral Discount", "Loyalty Discount", "Special Circumstances", "Other"]
                },
                "discountAmount": {"type": "number"}
            }
        },
        "CalculateBatchFeeRequest": {
            "type": "object",
            "required": ["batchId", "feeStructureId"],
            "properties": {
                "batchId": {"type": "string"},
                "feeStructureId": {"type": "string"},
                "studentDiscounts": {"type": "array", "items": {"$ref": "#/definitions/DiscountInput"}}
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
