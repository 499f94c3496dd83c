package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// partials.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
