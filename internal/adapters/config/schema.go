package config

// Assetfile represents the structure of the assets.yaml configuration file.
type Assetfile struct {
	Version    string              `yaml:"version"`
	Paths      PathsDTO            `yaml:"paths"`
	MaxDepth   int                 `yaml:"maxDepth"`
	Minify     bool                `yaml:"minify"`
	Transforms TransformsDTO       `yaml:"transforms"`
	Scripts    map[string]GroupDTO `yaml:"scripts"`
	Styles     map[string]GroupDTO `yaml:"styles"`
}

// PathsDTO holds the directory layout.
type PathsDTO struct {
	Source string `yaml:"source"`
	Less   string `yaml:"less"`
	Cache  string `yaml:"cache"`
}

// TransformsDTO holds the external transform command lines.
type TransformsDTO struct {
	Compile      []string `yaml:"compile"`
	MinifyScript []string `yaml:"minifyScript"`
	MinifyStyle  []string `yaml:"minifyStyle"`
}

// GroupDTO represents a group definition in the configuration.
type GroupDTO struct {
	Files     []string `yaml:"files"`
	Less      []string `yaml:"less"`
	Remote    []string `yaml:"remote"`
	DependsOn []string `yaml:"dependsOn"`
	Enabled   *bool    `yaml:"enabled"`
}
