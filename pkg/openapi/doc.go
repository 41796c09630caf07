// Package openapi derives form models from OpenAPI 3 documents. Each
// operation with a JSON object request body becomes one form; vendor
// extensions attach conditional behavior to individual properties.
package openapi
