// Package recipe extracts release metadata from the image build recipe
// (the Dockerfile). The version of a release is not passed in by the
// caller — it is declared once inside the Dockerfile as an ENV line and
// read back out by the release pipeline, so the image and its tag can
// never disagree about the version.
//
// The package also derives the floating alias set (major, major.minor,
// latest) from a version token.
package recipe
