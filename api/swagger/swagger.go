package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ICAMS API",
        "description": "ICT asset management system",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and account activation"},
        {"name": "Users", "description": "Account provisioning and profiles"},
        {"name": "Assets", "description": "ICT asset registry"},
        {"name": "Categories", "description": "Asset categories"},
        {"name": "Maintenance", "description": "Maintenance request workflow"},
        {"name": "Feedback", "description": "User feedback"},
        {"name": "Notifications", "description": "Per-user notifications"},
        {"name": "QR", "description": "Asset QR codes"},
        {"name": "Reports", "description": "Aggregates and exports"},
        {"name": "Dashboard", "description": "Role-scoped overviews"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials or inactive account"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "New token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/activate": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Activate an invited account",
                "responses": {
                    "204": {"description": "Account activated"},
                    "409": {"description": "Invitation already used"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List user accounts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/users/invite": {
            "post": {
                "tags": ["Users"],
                "summary": "Invite a new user",
                "responses": {
                    "201": {"description": "Account provisioned"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/assets": {
            "get": {
                "tags": ["Assets"],
                "summary": "List assets",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Assets"],
                "summary": "Register an asset",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/assets/mine": {
            "get": {
                "tags": ["Assets"],
                "summary": "Assets assigned to the caller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assets/{id}/qr": {
            "post": {
                "tags": ["QR"],
                "summary": "Generate an asset QR code",
                "responses": {"200": {"description": "Data URL returned"}}
            }
        },
        "/qr/scan": {
            "post": {
                "tags": ["QR"],
                "summary": "Resolve scanned content to an asset",
                "responses": {
                    "200": {"description": "Asset found"},
                    "404": {"description": "No asset matches"}
                }
            }
        },
        "/maintenance": {
            "get": {
                "tags": ["Maintenance"],
                "summary": "List maintenance requests",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Maintenance"],
                "summary": "Submit a maintenance request",
                "responses": {"201": {"description": "Pending request created"}}
            }
        },
        "/maintenance/{id}/status": {
            "put": {
                "tags": ["Maintenance"],
                "summary": "Advance a request in the workflow",
                "responses": {
                    "200": {"description": "Status updated"},
                    "409": {"description": "Backward transition rejected"}
                }
            }
        },
        "/feedback": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit feedback",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/feedback/mine": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Feedback submitted by the caller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's notifications",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "Current aggregates",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Export the current snapshot",
                "responses": {"201": {"description": "Signed download URL returned"}}
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an exported report",
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard for the caller's role",
                "responses": {"200": {"description": "OK"}}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
