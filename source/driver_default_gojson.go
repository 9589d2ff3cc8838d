// Package source installs the goccy/go-json backed driver as the default JSON
// driver for jsonmold. Import it for its side effect:
//
//	import _ "github.com/reoring/jsonmold/source"
package source

import (
	jsonmold "github.com/reoring/jsonmold"
	drvgojson "github.com/reoring/jsonmold/source/gojson"
)

// The driver lives in a subpackage because the root package cannot import it
// without a cycle.
func init() { jsonmold.SetJSONDriver(drvgojson.Driver()) }
