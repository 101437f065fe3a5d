package platform

// Shortcut describes a launcher entry for an installed file.
type Shortcut struct {
	Target      string // Path to the target executable
	Arguments   string // Command-line arguments (optional)
	WorkingDir  string // Working directory (optional, defaults to target's directory)
	Description string // Tooltip description (optional)
	IconPath    string // Path to icon file (optional, defaults to target)
	IconIndex   int    // Icon index within the icon file (optional)
}
