// Package mkcore is the build graph that release passes run on. A [Project]
// holds goals ([Goal]) that each stand for an [Artefact]. Goals are connected
// by actions ([Action]): an action turns its premises into its results by
// running an [Operation]. The [Builder] brings goals up to date, [Clean]
// removes what actions produced.
//
// Errors are returned the idiomatic Go way. For scripting style graph setup
// use the editors of the relmk package.
package mkcore
