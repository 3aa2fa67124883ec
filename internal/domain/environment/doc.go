// Package environment holds the per-build variable mapping, directory layout,
// feature flags and EAPI tag of one build attempt.
//
// A Context is created from a single root directory; every other directory
// is derived from it:
//
//	<root>        PORTAGE_BUILDDIR
//	<root>/work   S      (source directory)
//	<root>/image  D      (staged-install directory)
//	<root>/build  BUILD_DIR
//
// Directory accessors read the mapping, so a directory and its variable can
// never disagree. The process search path is injected through Options rather
// than read from the process environment.
package environment
