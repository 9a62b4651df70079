package common

// File permission constants used for everything the CLI writes
const (
	// FilePermissionSecure is used for the config file
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for generated scripts and images
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for the config directory
	DirPermissionSecure = 0700

	// DirPermissionNormal is used for output directories
	DirPermissionNormal = 0755
)
