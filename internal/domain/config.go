package domain

// Config is the root YAML configuration loaded from ~/.asoforge/config.yaml.
type Config struct {
	ConfigFormatVersion string        `yaml:"config_format_version"`
	Backend             BackendConfig `yaml:"backend"`
	Tools               ToolsConfig   `yaml:"tools"`
	Images              ImagesConfig  `yaml:"images"`
	Export              ExportConfig  `yaml:"export"`
	Preferences         Preferences   `yaml:"preferences"`
}

// BackendConfig points at the conversational AI backend.
type BackendConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	// SystemMessage is appended to the backend's default instructions for
	// every session the studio creates.
	SystemMessage string `yaml:"system_message"`
}

// ToolsConfig configures tool servers attached to every session.
type ToolsConfig struct {
	KeywordScorerURL string `yaml:"keyword_scorer_url"`
	Country          string `yaml:"country"`
}

// ImagesConfig configures the optional image-generation providers.
type ImagesConfig struct {
	OpenAIKeyEnvVar string `yaml:"openai_key_env_var"`
	OpenAIModel     string `yaml:"openai_model"`
	GeminiKeyEnvVar string `yaml:"gemini_key_env_var"`
	GeminiModel     string `yaml:"gemini_model"`
}

// ExportConfig controls where store.config.json bundles are written.
type ExportConfig struct {
	Root string `yaml:"root"`
}

// Preferences holds user-tunable behavior.
type Preferences struct {
	DefaultModel string `yaml:"default_model"`
}
