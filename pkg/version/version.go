package version

// GitVersion is stamped at build time via
// -ldflags "-X github.com/Galtar27/PSMoveService/pkg/version.GitVersion=$(git describe --tags)"
var GitVersion = "v0.0.0-dev"
