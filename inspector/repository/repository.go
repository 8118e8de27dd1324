package repository

// Repository represents a version controlled checkout containing a project
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Info   *Project
}

// Project represents information about a detected project
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // Type of project (python or the matched marker kind)
	Name         string // Name of the project (extracted from config files)
	RelativePath string // Path from project root to the specified file
	SourceRoot   string // Directory holding the layered top-level packages, empty if not found
}
