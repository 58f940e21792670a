// Package release implements the image release pipeline: read the
// version out of the build recipe, build a fresh image, push the
// version tag, then update the floating aliases.
//
// Configuration is compiled-in defaults plus an optional release.jsonc
// override file; the pipeline itself runs against a small ImagePusher
// interface so the Docker-backed implementation can be swapped for a
// fake in tests.
package release
