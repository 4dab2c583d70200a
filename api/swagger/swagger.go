package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Desk Complaints API",
        "description": "Student complaint management with rule-driven auto-escalation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Complaints", "description": "Complaint submission and triage"},
        {"name": "Escalation Rules", "description": "Time-threshold reassignment rules"},
        {"name": "Escalation", "description": "Manual escalation pass trigger"},
        {"name": "Notifications", "description": "Per-user notification feed"},
        {"name": "Analytics", "description": "Complaint statistics"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Store unreachable"}
                }
            }
        },
        "/complaints": {
            "get": {
                "tags": ["Complaints"],
                "summary": "List complaints",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "assignedTo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Complaints"],
                "summary": "Submit a complaint",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/complaints/{id}": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Get a complaint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/complaints/{id}/history": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Get a complaint's audit trail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/complaints/{id}/status": {
            "patch": {
                "tags": ["Complaints"],
                "summary": "Change a complaint's status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/complaints/{id}/assign": {
            "patch": {
                "tags": ["Complaints"],
                "summary": "Assign a complaint to a handler",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/complaints/{id}/escalation": {
            "delete": {
                "tags": ["Complaints"],
                "summary": "Clear a complaint's escalation marker",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Reset"},
                    "409": {"description": "Complaint not escalated"}
                }
            }
        },
        "/complaints/{id}/vote": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Vote for a complaint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Recorded"},
                    "409": {"description": "Already voted"}
                }
            }
        },
        "/escalation-rules": {
            "get": {
                "tags": ["Escalation Rules"],
                "summary": "List escalation rules",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Escalation Rules"],
                "summary": "Create an escalation rule",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/escalation-rules/{id}": {
            "get": {
                "tags": ["Escalation Rules"],
                "summary": "Get an escalation rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Escalation Rules"],
                "summary": "Update an escalation rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Escalation Rules"],
                "summary": "Deactivate an escalation rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/auto-escalate-complaints": {
            "post": {
                "tags": ["Escalation"],
                "summary": "Run an escalation pass now",
                "responses": {
                    "200": {"description": "Pass result"},
                    "409": {"description": "Pass already running"},
                    "503": {"description": "Store unavailable"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List my notifications",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Marked"}
                }
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark all my notifications as read",
                "responses": {
                    "204": {"description": "Marked"}
                }
            }
        },
        "/analytics/summary": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Complaint statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Campus Desk Complaints API",
	Description:      "Student complaint management with rule-driven auto-escalation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
