// Package relmk runs the release pass of a project as a build graph: sign the
// distribution files, write checksums, check license headers and publish to
// the local and, if configured, a remote Maven repository.
//
// How to sign and where to publish is decided once from the build properties
// by a [release.Resolver]. A [Release] turns this decision into goals of an
// [mkcore.Project]:
//
//	sign          detached signatures <file>.asc of all dist files
//	checksums     .md5, .sha1, .sha256, .sha512 sidecars
//	publishLocal  put everything into the local repository
//	publish       put everything into the remote repository (only with a target)
//	checkLicense  check license headers against HEADER.txt (only with a template)
//	applyLicense  add missing license headers
//	release       all of publishLocal, publish and checkLicense
//
// A typical project layout:
//
//	project/
//	├── HEADER.txt
//	├── dist
//	│   ├── lib-1.0.jar
//	│   └── lib-1.0.pom
//	└── gradle.properties
//
// Run the release with
//
//	project$ relmk --group org.example --artifact lib --version 1.0
package relmk
