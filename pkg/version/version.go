package version

// Set at build time with -ldflags "-X github.com/app-sre/scalyr-mcp/pkg/version.version=...".
var version = "dev"

func Version() string {
	return version
}
