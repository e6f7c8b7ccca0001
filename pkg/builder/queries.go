package builder

// Cypher statements for graph construction and project-level reads.
const (
	upsertProject = `
MERGE (p:Project {name: $name})
SET p.path = $path,
    p.language = $language,
    p.version = $version,
    p.description = $description,
    p.totalDependencies = $totalDependencies,
    p.lastUpdated = datetime($now)
`

	// upsertDependency merges the package node and the project's edge to it
	// in one statement. Package attributes are last-write-wins: whichever
	// dependency record is processed last owns version/operator/language.
	upsertDependency = `
MERGE (pkg:Package {name: $package})
SET pkg.version = $version,
    pkg.operator = $operator,
    pkg.language = $language,
    pkg.lastUpdated = datetime($now)
WITH pkg
MATCH (p:Project {name: $project})
MERGE (p)-[d:DEPENDS_ON]->(pkg)
SET d.versionRange = $versionRange,
    d.type = $type,
    d.direct = true,
    d.lineNumber = $lineNumber,
    d.lastUpdated = datetime($now)
`

	upsertManifestFile = `
MERGE (f:File {path: $path})
SET f.name = $name,
    f.type = 'dependency manifest',
    f.language = $language
WITH f
MATCH (p:Project {name: $project})
MERGE (p)-[:HAS_FILE]->(f)
`

	// linkPackages creates missing Package-to-Package edges for every
	// project that also exists as a package. ON CREATE only: an existing
	// derived edge keeps its original constraint even if the project's
	// has since changed. The count covers all matched edges, existing
	// and newly created.
	linkPackages = `
MATCH (proj:Project)-[d:DEPENDS_ON]->(dep:Package)
MATCH (pkg:Package {name: proj.name})
MERGE (pkg)-[r:DEPENDS_ON]->(dep)
ON CREATE SET r.versionRange = d.versionRange,
              r.type = d.type,
              r.source = 'derived',
              r.lastUpdated = datetime($now)
RETURN count(r) AS linked
`

	projectDependencies = `
MATCH (p:Project {name: $project})-[d:DEPENDS_ON]->(pkg:Package)
RETURN pkg.name AS package, d.versionRange AS versionRange, d.type AS type, d.lineNumber AS lineNumber
ORDER BY pkg.name ASC
`

	dependencyStats = `
MATCH (p:Project {name: $project})-[d:DEPENDS_ON]->(:Package)
RETURN d.type AS type, count(*) AS count
`

	sharedDependencies = `
MATCH (p:Project)-[:DEPENDS_ON]->(pkg:Package)
WITH pkg, collect(DISTINCT p.name) AS projects
WHERE size(projects) > 1
RETURN pkg.name AS package, size(projects) AS usageCount, projects
ORDER BY usageCount DESC
`

	projectsUsingPackage = `
MATCH (p:Project)-[d:DEPENDS_ON]->(pkg:Package {name: $package})
RETURN p.name AS project, d.versionRange AS versionRange, d.type AS type
ORDER BY p.name ASC
`
)
