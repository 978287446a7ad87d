package version

// Version is the hoardmap release version.
// Overridden at build time via -ldflags "-X hoardmap/pkg/version.Version=...".
var Version = "0.3.0"
