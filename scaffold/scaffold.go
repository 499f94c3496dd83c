// Package scaffold provides embedded template files for the folio CLI
// project scaffolding tool.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Every file is executed as a Go text/template; .tmpl suffixes are stripped
// from output names.
//
//go:embed all:templates
var Templates embed.FS
