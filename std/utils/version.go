package utils

// Version is the forwarder's build version string, surfaced by the CLI's
// --version flag.
const Version = "0.1.0"
