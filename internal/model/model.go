// Package model defines the report structures guardgen produces.
package model

// Config is one generated test case: pass Value as the parameter at
// ParamIndex and expect FailureKind to be thrown.
type Config struct {
	ID          string `yaml:"id"`
	TestName    string `yaml:"test"`
	ParamIndex  int    `yaml:"param_index"`
	Param       string `yaml:"param"`
	FailureKind string `yaml:"failure"`
	Value       string `yaml:"value"` // Java source literal
}

// Callable holds the configs found for one method or constructor.
type Callable struct {
	Name      string   `yaml:"name"`
	Class     string   `yaml:"class"`
	Kind      string   `yaml:"kind"`
	Line      int      `yaml:"line"`
	Signature string   `yaml:"signature"`
	Configs   []Config `yaml:"configs"`
}

// FileInfo holds the guarded callables of a single source file.
type FileInfo struct {
	Path      string     `yaml:"path"`
	Language  string     `yaml:"language"`
	Callables []Callable `yaml:"callables"`
}

// ConfigCount returns the number of configs across all callables in the file.
func (f *FileInfo) ConfigCount() int {
	n := 0
	for i := range f.Callables {
		n += len(f.Callables[i].Configs)
	}
	return n
}

// Report is the complete analyzed repository, ready for serialization.
type Report struct {
	RepoName string     `yaml:"repo"`
	Root     string     `yaml:"root"`
	Files    []FileInfo `yaml:"files"`
}

// ConfigCount returns the number of configs in the report.
func (r *Report) ConfigCount() int {
	n := 0
	for i := range r.Files {
		n += r.Files[i].ConfigCount()
	}
	return n
}
