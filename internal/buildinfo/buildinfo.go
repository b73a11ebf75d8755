package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("url-miner %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent identifies this build to the news provider.
func UserAgent() string {
	return "url-miner/" + Version
}
