package version

// Version is stamped at build time with -ldflags "-X genopipe/internal/version.Version=...".
var Version = "0.1.0-dev"
