package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Detection describes what Detect found in a project directory.
type Detection struct {
	ProjectName          string
	Features             []string
	SuggestedIncludeDirs []string
}

// indicator files and what they imply about the project.
var indicators = []struct {
	file    string
	feature string
}{
	{"setup.py", "setuptools project"},
	{"pyproject.toml", "modern Python project"},
	{"requirements.txt", "pip requirements"},
	{"Pipfile", "pipenv project"},
	{"poetry.lock", "poetry project"},
	{"manage.py", "Django project"},
	{"app.py", "Flask project"},
	{"main.py", "FastAPI/general project"},
	{".git", "Git repository"},
}

// commonSrcDirs are conventional source locations probed for inclusion.
var commonSrcDirs = []string{"src", "app", "lib", "core", "api", "backend", "frontend"}

// Detect inspects a project root and suggests a configuration: which
// well-known layout indicators are present and which subdirectories hold
// source files. The project root itself is always included.
func Detect(root string) Detection {
	d := Detection{
		ProjectName:          filepath.Base(root),
		SuggestedIncludeDirs: []string{root},
	}

	for _, ind := range indicators {
		if _, err := os.Stat(filepath.Join(root, ind.file)); err == nil {
			d.Features = append(d.Features, ind.feature)
		}
	}

	for _, name := range commonSrcDirs {
		dir := filepath.Join(root, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if containsSourceFiles(dir, ".py") {
			d.SuggestedIncludeDirs = append(d.SuggestedIncludeDirs, dir)
		}
	}

	return d
}

// containsSourceFiles reports whether any file under dir ends in suffix.
// The scan stops at the first hit.
func containsSourceFiles(dir, suffix string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
