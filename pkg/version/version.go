package version

// Version represents the current version of tweetmetrics
const Version = "0.3.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "tweetmetrics version " + Version
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
