// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with `go generate ./cmd/api` after changing handler annotations.
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
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Email login", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["auth"], "summary": "Logout user", "responses": {"200": {"description": "OK"}}}},
        "/auth/google/login": {"get": {"tags": ["auth"], "summary": "Initiate Google Login", "responses": {"307": {"description": "Redirects to Google"}}}},
        "/auth/google/callback": {"get": {"tags": ["auth"], "summary": "Google OAuth2 Callback", "responses": {"302": {"description": "Redirects to the dashboard"}}}},
        "/users/me": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Get My Profile", "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Update My Profile", "responses": {"200": {"description": "OK"}}}
        },
        "/quiz/levels": {"get": {"tags": ["quiz"], "summary": "List levels", "responses": {"200": {"description": "OK"}}}},
        "/quiz/state": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["quiz"], "summary": "Current practice state", "responses": {"200": {"description": "OK"}}}},
        "/quiz/level": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["quiz"], "summary": "Select level", "responses": {"200": {"description": "OK"}}}},
        "/quiz/start": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["quiz"], "summary": "Start practice", "responses": {"200": {"description": "OK"}}}},
        "/quiz/answer": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["quiz"], "summary": "Select answer", "responses": {"200": {"description": "OK"}}}},
        "/quiz/submit": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["quiz"], "summary": "Submit answer", "responses": {"200": {"description": "OK"}}}},
        "/chat/examples": {"get": {"tags": ["chat"], "summary": "Example prompts", "responses": {"200": {"description": "OK"}}}},
        "/chat/questions": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["chat"], "summary": "Ask a question", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}}},
        "/chat/exchange": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["chat"], "summary": "Last exchange", "responses": {"200": {"description": "OK"}}}},
        "/images": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["images"], "summary": "Current selection", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["images"], "summary": "Select an image", "responses": {"200": {"description": "OK"}, "415": {"description": "Unsupported Media Type"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["images"], "summary": "Clear the selection", "responses": {"204": {"description": "No Content"}}}
        },
        "/images/upload": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["images"], "summary": "Upload the selected image", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/images/preview/{id}": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["images"], "summary": "Preview bytes", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/voice/capabilities": {"get": {"tags": ["voice"], "summary": "Voice capabilities", "responses": {"200": {"description": "OK"}}}},
        "/voice/start": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["voice"], "summary": "Start recording", "responses": {"200": {"description": "OK"}, "501": {"description": "Not Implemented"}, "503": {"description": "Service Unavailable"}}}},
        "/voice/audio": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["voice"], "summary": "Append audio", "responses": {"200": {"description": "OK"}}}},
        "/voice/stop": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["voice"], "summary": "Stop recording", "responses": {"200": {"description": "OK"}}}},
        "/voice": {"delete": {"security": [{"ApiKeyAuth": []}], "tags": ["voice"], "summary": "Cancel recording", "responses": {"204": {"description": "No Content"}}}},
        "/voice/speak": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["voice"], "summary": "Speak text", "responses": {"200": {"description": "OK"}, "501": {"description": "Not Implemented"}}}},
        "/register": {"post": {"tags": ["register"], "summary": "Start registration", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/register/{id}": {"get": {"tags": ["register"], "summary": "Registration status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/register/{id}/verification": {"post": {"tags": ["register"], "summary": "Submit verification code", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/register/{id}/occupation": {"post": {"tags": ["register"], "summary": "Choose occupation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/register/{id}/education": {"post": {"tags": ["register"], "summary": "Choose education level", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/register/{id}/degree": {"post": {"tags": ["register"], "summary": "Choose college degree", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/register/{id}/feedback": {"post": {"tags": ["register"], "summary": "Send feedback and finish", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Learn Assist API",
	Description:      "Learning assistant backend: sign-in, registration, chat Q&A, image upload, voice and practice quizzes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
