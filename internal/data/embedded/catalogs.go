package embedded

import _ "embed"

// SampleCatalogData contains the bundled sample product catalog in JSON.
//
//go:embed catalog/sample.json
var SampleCatalogData []byte
