// Package docs holds the OpenAPI description served at /swagger. Regenerate
// with swag init -g server/main.go after changing handler annotations.
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
		"/bookings": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"bookings"
				],
				"summary": "Book seats directly for an attendee",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/bookings/quote": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"bookings"
				],
				"summary": "Price a set of seats",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				]
			}
		},
		"/bookings/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"bookings"
				],
				"summary": "Get a booking with its seats",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"bookings"
				],
				"summary": "Delete a booking and release its seats",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/bookings/{id}/check-in": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"bookings"
				],
				"summary": "Check an attendee in",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/checkout/confirm": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"checkout"
				],
				"summary": "Confirm a paid checkout session",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				]
			}
		},
		"/events": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"events"
				],
				"summary": "Create an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"events"
				],
				"summary": "Get an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/events/{id}/capacity": {
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"events"
				],
				"summary": "Set or clear the event capacity ceiling",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}/holds": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"holds"
				],
				"summary": "List the holds of an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}/promos": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"promos"
				],
				"summary": "Create a promo code for an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}/venue-map": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"venues"
				],
				"summary": "Get the venue map of an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"venues"
				],
				"summary": "Create the venue map of an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}/venue-map/duplicate": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"venues"
				],
				"summary": "Copy another event's venue map onto this event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/events/{id}/seat-map": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"venues"
				],
				"summary": "Get seat statuses of an event",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/holds": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"holds"
				],
				"summary": "Hold seats under a label",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/holds/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"holds"
				],
				"summary": "Get a hold with its seats",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"holds"
				],
				"summary": "Release a hold",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"response.StandardApiResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"status_code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"data": {},
				"errors": {}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Seatline API",
	Description:      "Seat inventory and booking engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
