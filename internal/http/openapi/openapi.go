// Package openapi embeds the OpenAPI description of the catalog API.
package openapi

import _ "embed"

// YAML is served verbatim at /openapi.yaml.
//
//go:embed openapi.yaml
var YAML []byte
