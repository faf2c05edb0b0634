package version

// AppVersion is overridden at build time:
//
//	go build -ldflags "-X aashub/internal/version.AppVersion=v1.2.3"
var AppVersion = "dev"
