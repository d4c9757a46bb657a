// Package swagger holds the registered OpenAPI specification served at
// /swagger/*.
package swagger

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
        "/updates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "List updates",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/updates/{hash}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Get update",
                "parameters": [
                    {"type": "string", "name": "hash", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/feeds/{hash}": {
            "get": {
                "produces": ["application/xml"],
                "tags": ["updates"],
                "summary": "Get archived feed",
                "parameters": [
                    {"type": "string", "name": "hash", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/diff/{hash}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Get update diff with resolved entities",
                "parameters": [
                    {"type": "string", "name": "hash", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Schedule API",
	Description:      "Read API for the university schedule synchronization service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
