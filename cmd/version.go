package cmd

import "fmt"

// Set at build time with -ldflags "-X ...".
var (
	version = "dev"
	commit  = "none"
)

func versionString() string {
	return fmt.Sprintf("portfolio-engine %s (%s)", version, commit)
}
