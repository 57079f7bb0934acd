// Package docs holds the generated swagger specification.
// Code generated by swag; regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.HealthResponse"}
                    }
                }
            }
        },
        "/api/feed/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Start a fresh search",
                "description": "Resets the pagination cursor, fetches page one for the keyword and prepends unique results",
                "parameters": [
                    {
                        "description": "Search parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.StartSearchRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.StartSearchResponse"}
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "502": {
                        "description": "Upstream search failed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/feed/next": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Signal the scroll sentinel",
                "description": "A visible edge requests the next page when more filtered deals exist than are displayed",
                "parameters": [
                    {
                        "description": "Visibility edge and active filter criteria",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.VisibilityRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.FetchNextResponse"}
                    },
                    "502": {
                        "description": "Upstream search failed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/feed/deals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "List deals",
                "description": "Returns the filtered and capped deal view with freshness flags",
                "parameters": [
                    {"type": "integer", "name": "minDiscount", "in": "query"},
                    {"type": "boolean", "name": "requireCode", "in": "query"},
                    {"type": "integer", "name": "maxResults", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/feed.Projection"}
                    }
                }
            }
        },
        "/api/feed/deals/{localId}/rewrite": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Rewrite a deal title",
                "parameters": [
                    {"type": "string", "name": "localId", "in": "path", "required": true},
                    {
                        "description": "Override text to rewrite",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handlers.RewriteDealRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.RewriteDealResponse"}
                    },
                    "404": {
                        "description": "Unknown deal",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "502": {
                        "description": "Rewrite service failed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/feed/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Feed status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/feed.Status"}
                    }
                }
            }
        },
        "/api/feed/key": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Set the dedup identity key",
                "parameters": [
                    {
                        "description": "Identity key",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.SetKeyRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/metadata": {
            "get": {
                "produces": ["application/json"],
                "tags": ["metadata"],
                "summary": "Fetch page metadata",
                "parameters": [
                    {"type": "string", "name": "url", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/metadata.Preview"}
                    },
                    "400": {
                        "description": "Missing url parameter",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "502": {
                        "description": "Fetch failed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"}
            }
        },
        "handlers.StartSearchRequest": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"}
            }
        },
        "handlers.StartSearchResponse": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"},
                "merged": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handlers.VisibilityRequest": {
            "type": "object",
            "properties": {
                "visible": {"type": "boolean"},
                "minDiscount": {"type": "integer"},
                "requireCode": {"type": "boolean"},
                "maxResults": {"type": "integer"}
            }
        },
        "handlers.FetchNextResponse": {
            "type": "object",
            "properties": {
                "merged": {"type": "integer"},
                "exhausted": {"type": "boolean"},
                "total": {"type": "integer"}
            }
        },
        "handlers.RewriteDealRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "handlers.RewriteDealResponse": {
            "type": "object",
            "properties": {
                "localId": {"type": "string"},
                "rewritten": {"type": "string"}
            }
        },
        "handlers.SetKeyRequest": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "enum": ["asin", "url", "title"]}
            }
        },
        "feed.Deal": {
            "type": "object",
            "properties": {
                "asin": {"type": "string"},
                "url": {"type": "string"},
                "title": {"type": "string"},
                "discount": {"type": "integer"},
                "originalPrice": {"type": "number"},
                "currentPrice": {"type": "number"},
                "rating": {"type": "number"},
                "reviewCount": {"type": "integer"},
                "code": {"type": "string"},
                "couponCode": {"type": "string"},
                "promoCode": {"type": "string"},
                "coupon": {"type": "string"},
                "keyword": {"type": "string"},
                "localId": {"type": "string"},
                "rewritten": {"type": "string"}
            }
        },
        "feed.ProjectedDeal": {
            "allOf": [
                {"$ref": "#/definitions/feed.Deal"},
                {
                    "type": "object",
                    "properties": {
                        "isNew": {"type": "boolean"}
                    }
                }
            ]
        },
        "feed.Projection": {
            "type": "object",
            "properties": {
                "deals": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/feed.ProjectedDeal"}
                },
                "filteredCount": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "exhausted": {"type": "boolean"}
            }
        },
        "feed.Status": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"},
                "page": {"type": "integer"},
                "exhausted": {"type": "boolean"},
                "inFlight": {"type": "boolean"},
                "totalDeals": {"type": "integer"},
                "identityKey": {"type": "string"},
                "lastError": {"type": "string"},
                "bootstrapStep": {"type": "integer"},
                "bootstrapTotal": {"type": "integer"},
                "bootstrapDone": {"type": "boolean"}
            }
        },
        "metadata.Preview": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "success": {"type": "boolean"}
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
	Title:            "Deal Service API",
	Description:      "Incremental aggregation service for deal search results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
