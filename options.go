package setupforge

// BuildConfig holds the configuration for a build.
type BuildConfig struct {
	StubPath   string // Prebuilt stub executable the payload is appended to
	OutputDir  string // Directory the installer is written to (default: script directory)
	OutputName string // Overrides [Setup] OutputBaseFilename when set
}

// Option is a function that configures a build.
type Option func(*BuildConfig)

// WithStub sets the stub executable to append the payload to.
func WithStub(path string) Option {
	return func(c *BuildConfig) {
		c.StubPath = path
	}
}

// WithOutputDir sets the directory the installer is written to.
// If not called, the installer lands next to the script.
func WithOutputDir(dir string) Option {
	return func(c *BuildConfig) {
		c.OutputDir = dir
	}
}

// WithOutputName overrides the output base filename from the script.
func WithOutputName(name string) Option {
	return func(c *BuildConfig) {
		c.OutputName = name
	}
}

// defaultBuildConfig returns the default configuration.
func defaultBuildConfig() BuildConfig {
	return BuildConfig{}
}
