package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Timetable API",
        "description": "Slot catalog, teacher slot assignments and automated timetable generation",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Slots", "description": "Fixed teaching slot catalog"},
        {"name": "Assignments", "description": "Teacher slot assignments, manual and batch"},
        {"name": "Departments", "description": "Department occupancy reporting"},
        {"name": "Generation", "description": "Automated timetable generation"},
        {"name": "Timetable", "description": "Resolved weekly schedule"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List teaching slots",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["A", "B", "C"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/slots/initialize": {
            "post": {
                "tags": ["Slots"],
                "summary": "Seed the slot catalog",
                "responses": {
                    "200": {"description": "Already seeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}/slot-operations": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Apply slot operations for one teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "All operations applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "207": {"description": "Partial success", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "All operations failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}/workload": {
            "get": {
                "tags": ["Departments"],
                "summary": "Teacher weekly workload",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/slot-assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List slot assignments",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "integer"},
                    {"name": "slotType", "in": "query", "type": "string"},
                    {"name": "includeStats", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/slot-assignments/batch": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Apply a mixed-teacher assignment batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "All items applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "207": {"description": "Partial success", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "All items failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments/{id}/slot-summary": {
            "get": {
                "tags": ["Departments"],
                "summary": "Department slot occupancy summary",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-configs": {
            "get": {
                "tags": ["Generation"],
                "summary": "List generation configs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Generation"],
                "summary": "Create a generation config",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGenerationConfigRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-configs/{id}": {
            "get": {
                "tags": ["Generation"],
                "summary": "Get one generation config",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-configs/{id}/generate": {
            "post": {
                "tags": ["Generation"],
                "summary": "Run timetable generation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Run finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Config not runnable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/generation-configs/{id}/log": {
            "get": {
                "tags": ["Generation"],
                "summary": "Get one config's generation log",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable entries",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/availability": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Check whether a room cell is free",
                "parameters": [
                    {"name": "roomId", "in": "query", "required": true, "type": "string"},
                    {"name": "slotId", "in": "query", "required": true, "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the timetable as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "dayOfWeek", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File payload"}
                }
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "slot_type": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "SlotOperationRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["create", "update", "delete"]},
                "slotId": {"type": "string"},
                "dayOfWeek": {"type": "integer"}
            },
            "required": ["action"]
        },
        "ManualAssignmentRequest": {
            "type": "object",
            "properties": {
                "operations": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotOperationRequest"}
                }
            },
            "required": ["operations"]
        },
        "BatchAssignmentItem": {
            "type": "object",
            "properties": {
                "teacherId": {"type": "string"},
                "slotId": {"type": "string"},
                "dayOfWeek": {"type": "integer"},
                "action": {"type": "string", "enum": ["create", "update", "delete"]}
            },
            "required": ["action"]
        },
        "BatchAssignmentRequest": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/BatchAssignmentItem"}
                }
            },
            "required": ["items"]
        },
        "CreateGenerationConfigRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "maxTeacherSlotsPerDay": {"type": "integer"},
                "enableLunchBreaks": {"type": "boolean"},
                "enableLabConsecutive": {"type": "boolean"},
                "minCourseInstances": {"type": "integer"},
                "divisionAssignment": {"type": "string", "enum": ["A", "B", "C"]},
                "solverTimeoutSeconds": {"type": "integer"}
            },
            "required": ["name", "minCourseInstances"]
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
