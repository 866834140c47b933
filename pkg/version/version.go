package version

// version is set at build time:
//
//	go build -ldflags "-X github.com/cbodonnell/sus/pkg/version.version=v1.2.3"
var version = "dev"

func Get() string {
	return version
}
