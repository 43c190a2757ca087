package version

// Version is the current SafeScout release.
var Version = "0.3.1"
