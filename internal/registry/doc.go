// Package registry provides the Docker daemon access the release
// pipeline needs: building an image from the recipe, re-tagging it, and
// pushing tags to the remote registry.
//
// Tagging goes through the Docker Engine SDK. Building and pushing
// shell out to the docker CLI instead, so build output streams to the
// terminal unmodified and the daemon's own credential helpers supply
// registry authentication.
package registry
