// Package docs holds the swagger document served at /swagger/index.html.
// Regenerate with: swag init -g cmd/app/main.go -d services/studio -o services/studio/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
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
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Current profile",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            },
            "put": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.ProfileRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/avatar/upload": {
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["avatars"],
                "summary": "Upload an avatar",
                "parameters": [{"type": "file", "in": "formData", "name": "avatar", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/avatars": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["avatars"],
                "summary": "List avatars",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/avatar/{id}": {
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["avatars"],
                "summary": "Delete an avatar",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        },
        "/expressions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["expressions"],
                "summary": "List expressions",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/animation/generate": {
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animations"],
                "summary": "Generate an expression animation",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.GenerateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/animation/drive": {
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["animations"],
                "summary": "Generate an animation from a driving video",
                "parameters": [
                    {"type": "string", "in": "formData", "name": "avatar_id", "required": true},
                    {"type": "file", "in": "formData", "name": "video", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/animation/{id}/save": {
            "post": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["animations"],
                "summary": "Save a staged animation",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        },
        "/animation/{id}": {
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["animations"],
                "summary": "Delete or discard an animation",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        },
        "/animations": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["animations"],
                "summary": "List saved animations",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/animations/ws": {
            "get": {
                "security": [{"SessionCookie": []}],
                "tags": ["animations"],
                "summary": "Stream animation status",
                "description": "Upgrades to a WebSocket that receives {animation_id, status, at} when a render of the caller finishes",
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/subscription/update": {
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["subscription"],
                "summary": "Subscribe to a plan",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.SubscriptionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/subscription/cancel": {
            "post": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["subscription"],
                "summary": "Cancel the subscription",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List users",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.CreateUserRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"type": "object"}}}
            }
        },
        "/admin/user/{id}": {
            "put": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Suspend or activate a user",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.UserActionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            },
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        },
        "/admin/expressions": {
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Add an expression",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.ExpressionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"type": "object"}}}
            }
        },
        "/admin/expression/{id}": {
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete an expression",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}}}
            }
        }
    },
    "definitions": {
        "http.Response": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "http.LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "role": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "http.SignupRequest": {
            "type": "object",
            "properties": {"fullname": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "http.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "http.ProfileRequest": {
            "type": "object",
            "properties": {"fullname": {"type": "string"}, "email": {"type": "string"}}
        },
        "http.GenerateRequest": {
            "type": "object",
            "properties": {"avatar_id": {"type": "string"}, "expression_id": {"type": "string"}}
        },
        "http.ExpressionRequest": {
            "type": "object",
            "properties": {"expression_name": {"type": "string"}}
        },
        "http.SubscriptionRequest": {
            "type": "object",
            "properties": {"plan": {"type": "string"}}
        },
        "http.CreateUserRequest": {
            "type": "object",
            "properties": {"fullname": {"type": "string"}, "email": {"type": "string"}}
        },
        "http.UserActionRequest": {
            "type": "object",
            "properties": {"action": {"type": "string", "enum": ["suspend", "activate"]}}
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "Session cookie set by /login.",
            "type": "apiKey",
            "name": "session",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Face Animation Studio API",
	Description:      "Avatars, expressions and animations for the face animation studio",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
