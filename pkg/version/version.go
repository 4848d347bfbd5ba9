package version

import "fmt"

// Set with -ldflags "-X github.com/acorn-io/acorn-registry/pkg/version.Tag=..."
var (
	Tag       = "v0.0.0-dev"
	GitCommit = "HEAD"
)

type Version struct {
	Tag    string `json:"tag,omitempty"`
	Commit string `json:"commit,omitempty"`
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s)", v.Tag, v.Commit)
}

func Get() Version {
	return Version{
		Tag:    Tag,
		Commit: GitCommit,
	}
}
