// Package docs registers the OpenAPI document served under /swagger.
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
        "/registration/": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Register new user",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.RegisterInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/login/": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Login user",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.LoginInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/logout/": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Logout user",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/me/": {
            "get": {
                "tags": [
                    "Profiles"
                ],
                "summary": "Get my profile",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ProfileView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/profile/{id}/": {
            "get": {
                "tags": [
                    "Profiles"
                ],
                "summary": "Get profile",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ProfileView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "patch": {
                "tags": [
                    "Profiles"
                ],
                "summary": "Update profile",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.UpdateProfileInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ProfileView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/profile/{id}/file/": {
            "put": {
                "tags": [
                    "Profiles"
                ],
                "summary": "Upload profile picture",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "formData",
                        "name": "file",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ProfileView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                },
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/profiles/business/": {
            "get": {
                "tags": [
                    "Profiles"
                ],
                "summary": "List business profiles",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.ProfileListItem"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/profiles/customer/": {
            "get": {
                "tags": [
                    "Profiles"
                ],
                "summary": "List customer profiles",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.ProfileListItem"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/offers/": {
            "get": {
                "tags": [
                    "Offers"
                ],
                "summary": "List offers",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "user_id",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "creator_id",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "min_price",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "min_delivery_time",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "max_delivery_time",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "search",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "ordering",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pagination.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "post": {
                "tags": [
                    "Offers"
                ],
                "summary": "Create offer",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.CreateOfferInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.OfferView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/offers/{id}/": {
            "get": {
                "tags": [
                    "Offers"
                ],
                "summary": "Get offer",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.OfferListItem"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "patch": {
                "tags": [
                    "Offers"
                ],
                "summary": "Update offer",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.UpdateOfferInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.OfferView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Offers"
                ],
                "summary": "Delete offer",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/offerdetails/{id}/": {
            "get": {
                "tags": [
                    "Offers"
                ],
                "summary": "Get offer detail",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.OfferDetailView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/orders/": {
            "get": {
                "tags": [
                    "Orders"
                ],
                "summary": "List my orders",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.OrderView"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "post": {
                "tags": [
                    "Orders"
                ],
                "summary": "Create order",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.CreateOrderInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.OrderView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/orders/{id}/": {
            "patch": {
                "tags": [
                    "Orders"
                ],
                "summary": "Update order status",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.UpdateOrderStatusInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.OrderView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Orders"
                ],
                "summary": "Delete order",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/order-count/{id}/": {
            "get": {
                "tags": [
                    "Orders"
                ],
                "summary": "Count open orders",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/completed-order-count/{id}/": {
            "get": {
                "tags": [
                    "Orders"
                ],
                "summary": "Count completed orders",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/reviews/": {
            "get": {
                "tags": [
                    "Reviews"
                ],
                "summary": "List reviews",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "business_user_id",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "reviewer_id",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "ordering",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.ReviewView"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "post": {
                "tags": [
                    "Reviews"
                ],
                "summary": "Create review",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.CreateReviewInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.ReviewView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/reviews/{id}/": {
            "get": {
                "tags": [
                    "Reviews"
                ],
                "summary": "Get review",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ReviewView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "patch": {
                "tags": [
                    "Reviews"
                ],
                "summary": "Update review",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.UpdateReviewInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ReviewView"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Reviews"
                ],
                "summary": "Delete review",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "TokenAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/base-info/": {
            "get": {
                "tags": [
                    "Stats"
                ],
                "summary": "Marketplace summary",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.BaseInfo"
                        }
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Health check",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        }
    },
    "definitions": {
        "services.RegisterInput": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "repeated_password": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "business",
                        "customer"
                    ]
                }
            },
            "required": [
                "username",
                "email",
                "password",
                "repeated_password",
                "type"
            ]
        },
        "services.LoginInput": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "username",
                "password"
            ]
        },
        "services.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "user_id": {
                    "type": "integer"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "services.ProfileView": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "file": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "tel": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "working_hours": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "services.ProfileListItem": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "file": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "tel": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "working_hours": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "services.UpdateProfileInput": {
            "type": "object",
            "properties": {
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "tel": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "working_hours": {
                    "type": "string"
                }
            }
        },
        "services.OfferDetailInput": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "revisions": {
                    "type": "integer"
                },
                "delivery_time_in_days": {
                    "type": "integer"
                },
                "price": {
                    "type": "integer"
                },
                "features": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "offer_type": {
                    "type": "string",
                    "enum": [
                        "basic",
                        "standard",
                        "premium"
                    ]
                }
            },
            "required": [
                "title",
                "revisions",
                "delivery_time_in_days",
                "price",
                "offer_type"
            ]
        },
        "services.CreateOfferInput": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.OfferDetailInput"
                    }
                }
            },
            "required": [
                "title",
                "details"
            ]
        },
        "services.OfferDetailPatch": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "revisions": {
                    "type": "integer"
                },
                "delivery_time_in_days": {
                    "type": "integer"
                },
                "price": {
                    "type": "integer"
                },
                "features": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "offer_type": {
                    "type": "string"
                }
            },
            "required": [
                "offer_type"
            ]
        },
        "services.UpdateOfferInput": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.OfferDetailPatch"
                    }
                }
            }
        },
        "services.OfferDetailView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "revisions": {
                    "type": "integer"
                },
                "delivery_time_in_days": {
                    "type": "integer"
                },
                "price": {
                    "type": "integer"
                },
                "features": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "offer_type": {
                    "type": "string"
                }
            }
        },
        "services.OfferDetailLink": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "services.OfferUserDetails": {
            "type": "object",
            "properties": {
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "services.OfferListItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "user": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.OfferDetailLink"
                    }
                },
                "min_price": {
                    "type": "integer"
                },
                "min_delivery_time": {
                    "type": "integer"
                },
                "user_details": {
                    "$ref": "#/definitions/services.OfferUserDetails"
                }
            }
        },
        "services.OfferView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "user": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.OfferDetailView"
                    }
                },
                "min_price": {
                    "type": "integer"
                },
                "min_delivery_time": {
                    "type": "integer"
                }
            }
        },
        "pagination.Response": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "next": {
                    "type": "string"
                },
                "previous": {
                    "type": "string"
                },
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.OfferListItem"
                    }
                }
            }
        },
        "services.CreateOrderInput": {
            "type": "object",
            "properties": {
                "offer_detail_id": {
                    "type": "integer"
                }
            },
            "required": [
                "offer_detail_id"
            ]
        },
        "services.UpdateOrderStatusInput": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "in_progress",
                        "completed",
                        "cancelled"
                    ]
                }
            },
            "required": [
                "status"
            ]
        },
        "services.OrderView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "customer_user": {
                    "type": "integer"
                },
                "business_user": {
                    "type": "integer"
                },
                "offer_detail": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "revisions": {
                    "type": "integer"
                },
                "delivery_time_in_days": {
                    "type": "integer"
                },
                "price": {
                    "type": "integer"
                },
                "features": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "offer_type": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "services.CreateReviewInput": {
            "type": "object",
            "properties": {
                "business_user": {
                    "type": "integer"
                },
                "rating": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 5
                },
                "description": {
                    "type": "string"
                }
            },
            "required": [
                "business_user",
                "rating"
            ]
        },
        "services.UpdateReviewInput": {
            "type": "object",
            "properties": {
                "rating": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 5
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "services.ReviewView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "business_user": {
                    "type": "integer"
                },
                "reviewer": {
                    "type": "integer"
                },
                "rating": {
                    "type": "integer"
                },
                "description": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "services.BaseInfo": {
            "type": "object",
            "properties": {
                "review_count": {
                    "type": "integer"
                },
                "average_rating": {
                    "type": "number"
                },
                "business_profile_count": {
                    "type": "integer"
                },
                "offer_count": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "TokenAuth": {
            "description": "Type \"Token\" followed by a space and the session token.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Coderr API",
	Description:      "Freelance marketplace backend: accounts, offers, orders and reviews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
