package config

// Manifest is the full description of what a run installs and how it converges ~/.zshrc.
// It is decoded from the embedded manifest.yaml.
type Manifest struct {
	Homebrew  Homebrew  `yaml:"homebrew"`
	Formulae  []Formula `yaml:"formulae"`
	Framework Framework `yaml:"framework"`
	Theme     Theme     `yaml:"theme"`
	Fonts     []Font    `yaml:"fonts"`
	Terminal  []Setting `yaml:"terminal"`
	Plugins   Plugins   `yaml:"plugins"`
	Listing   Listing   `yaml:"listing"`
}

// Homebrew points at the official install script.
type Homebrew struct {
	InstallerURL string `yaml:"installer_url"`
}

// Formula is a brew formula installed when Command is not on PATH.
type Formula struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

// Framework describes the shell framework installer.
type Framework struct {
	Name         string `yaml:"name"`
	InstallerURL string `yaml:"installer_url"`
}

// Theme is a prompt theme cloned under <custom>/themes/<Name>.
// Line replaces the existing ZSH_THEME= declaration.
type Theme struct {
	Name   string `yaml:"name"`
	Repo   string `yaml:"repo"`
	Prefix string `yaml:"prefix"`
	Line   string `yaml:"line"`
}

// Font is either a single font file downloaded from URL, or an archive whose font files are
// extracted into the fonts directory. File is the presence marker in both cases.
type Font struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	URL     string `yaml:"url"`
	Archive string `yaml:"archive"`
}

// Setting represents a macOS `defaults` preference.
// - Domain: macOS domain (e.g., com.apple.Terminal).
// - Key: Specific setting key.
// - Value: Desired setting value as a string.
// - Type: Value type ("bool", "int", "string", "float").
type Setting struct {
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Type   string `yaml:"type"`
}

// Plugin is a framework plugin cloned under <custom>/plugins/<Name>.
type Plugin struct {
	Name string `yaml:"name"`
	Repo string `yaml:"repo"`
}

// Plugins holds the plugins to clone and the plugin-list line that replaces the user's.
type Plugins struct {
	Repos  []Plugin `yaml:"repos"`
	Prefix string   `yaml:"prefix"`
	Line   string   `yaml:"line"`
}

// Listing describes the directory-listing utility and the runtime it depends on.
type Listing struct {
	Command      string   `yaml:"command"`
	Gem          string   `yaml:"gem"`
	Runtime      Runtime  `yaml:"runtime"`
	AliasLine    string   `yaml:"alias_line"`
	AliasPrompt  string   `yaml:"alias_prompt"`
	AliasAccepts []string `yaml:"alias_variants"`
}

// Runtime is the interpreter gate in front of the listing utility install.
type Runtime struct {
	Command     string   `yaml:"command"`
	MinVersion  string   `yaml:"min_version"`
	Manager     string   `yaml:"manager"`
	Formulae    []string `yaml:"formulae"`
	HookLine    string   `yaml:"hook_line"`
	HookAccepts []string `yaml:"hook_variants"`
}
