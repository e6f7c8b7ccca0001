package graph

// Cypher statements shared by the gateway. Query text specific to one
// component lives with that component.
const (
	// ConstraintProjectName ensures Project(name) is unique and indexed.
	ConstraintProjectName = `CREATE CONSTRAINT project_name IF NOT EXISTS FOR (p:Project) REQUIRE p.name IS UNIQUE`

	// ConstraintPackageName ensures Package(name) is unique and indexed.
	ConstraintPackageName = `CREATE CONSTRAINT package_name IF NOT EXISTS FOR (p:Package) REQUIRE p.name IS UNIQUE`

	// ConstraintFilePath ensures File(path) is unique and indexed.
	ConstraintFilePath = `CREATE CONSTRAINT file_path IF NOT EXISTS FOR (f:File) REQUIRE f.path IS UNIQUE`

	// ClearAll removes every node and relationship.
	ClearAll = `MATCH (n) DETACH DELETE n`

	// CountProjects, CountPackages, CountDependencies and CountFiles back Stats.
	CountProjects     = `MATCH (p:Project) RETURN count(p) AS count`
	CountPackages     = `MATCH (p:Package) RETURN count(p) AS count`
	CountDependencies = `MATCH ()-[d:DEPENDS_ON]->() RETURN count(d) AS count`
	CountFiles        = `MATCH (f:File) RETURN count(f) AS count`

	// ProbeAPOC fails on deployments without the APOC extension.
	ProbeAPOC = `RETURN apoc.version() AS version`
)
