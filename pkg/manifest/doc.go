// Package manifest defines the normalized dependency record produced by
// manifest parsers and the parsers themselves.
//
// # Overview
//
// A Record is the contract between a parser and the graph builder: one
// project, the manifest file it came from, and an ordered list of dependency
// declarations. Parsers are registered in a Registry keyed by the manifest
// file name they handle.
//
// # Supported Manifests
//
// package.json: npm manifests (dependencies, devDependencies, peerDependencies)
// requirements.txt: pip requirement lists
// pubspec.yaml: Dart/Flutter manifests (dependencies, dev_dependencies)
//
// # Usage Example
//
//	reg := manifest.NewRegistry()
//	rec, err := reg.ParseFile("/repo/app/package.json")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s declares %d dependencies\n", rec.ProjectName, rec.TotalDependencies)
package manifest
