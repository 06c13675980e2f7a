package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// defaultSkipCommands are commands whose arguments carry identifiers or
// paths rather than prose.
var defaultSkipCommands = []string{
	"include", "input",
	"cite", "citep", "citet", "citealp", "citeauthor", "citeyear", "citeyearpar",
	"ref", "eqref", "autoref", "pageref", "cref", "Cref",
	"label", "url", "href", "hyperref",
	"includegraphics", "includepdf", "graphicspath",
}

var defaultTwoArgCommands = []string{"href", "hyperref"}

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Document   DocumentConfig    `yaml:"document"`
	Rules      RulesConfig       `yaml:"rules"`
	Spellcheck SpellcheckConfig  `yaml:"spellcheck"`
	History    HistoryConfig     `yaml:"history"`
	Watch      WatchConfig       `yaml:"watch"`
	Auth       AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Document.Validate(); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if err := c.Spellcheck.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocumentConfig identifies the document root and exclusion patterns.
type DocumentConfig struct {
	Root    string   `yaml:"root"`
	Exclude []string `yaml:"exclude"`
}

// Validate validates the document configuration.
func (c *DocumentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// RulesConfig groups per-rule settings.
type RulesConfig struct {
	Images        ImagesRuleConfig        `yaml:"images"`
	Refs          RefsRuleConfig          `yaml:"refs"`
	Links         LinksRuleConfig         `yaml:"links"`
	Styles        StylesRuleConfig        `yaml:"styles"`
	Lists         ListsRuleConfig         `yaml:"lists"`
	Captions      CaptionsRuleConfig      `yaml:"captions"`
	Illustrations IllustrationsRuleConfig `yaml:"illustrations"`
	Abbrev        AbbrevRuleConfig        `yaml:"abbrev"`
	Unicode       UnicodeRuleConfig       `yaml:"unicode"`
	ListItems     ListItemsRuleConfig     `yaml:"list_items"`
}

// Validate validates the rule settings.
func (c *RulesConfig) Validate() error {
	if err := validation.ValidateStruct(&c.Images,
		validation.Field(&c.Images.RequiredWidth, validation.Required),
	); err != nil {
		return fmt.Errorf("rules.images: %w", err)
	}
	if err := validation.ValidateStruct(&c.ListItems,
		validation.Field(&c.ListItems.LastEnd, validation.Required, validation.Length(1, 1)),
		validation.Field(&c.ListItems.NonLastEnd, validation.Required, validation.Length(1, 1)),
	); err != nil {
		return fmt.Errorf("rules.list_items: %w", err)
	}
	return nil
}

// ImagesRuleConfig configures the image width rule.
type ImagesRuleConfig struct {
	RequiredWidth string `yaml:"required_width"`
}

// RefsRuleConfig configures the reference spacing rule.
type RefsRuleConfig struct {
	Commands []string `yaml:"commands"`
}

// LinksRuleConfig configures the link punctuation rule.
type LinksRuleConfig struct {
	Commands []string `yaml:"commands"`
}

// StylesRuleConfig configures the text style rule.
type StylesRuleConfig struct {
	Commands []string `yaml:"commands"`
}

// ListsRuleConfig configures the list structure rules.
type ListsRuleConfig struct {
	AllowedEnvs           []string `yaml:"allowed_envs"`
	ListEnvs              []string `yaml:"list_envs"`
	DisallowBeginOptional bool     `yaml:"disallow_begin_optional"`
	DisallowItemOptional  bool     `yaml:"disallow_item_optional"`
}

// CaptionsRuleConfig configures the caption punctuation rule.
type CaptionsRuleConfig struct {
	Commands       []string `yaml:"commands"`
	ForbidTrailing []string `yaml:"forbid_trailing"`
}

// IllustrationsRuleConfig configures the illustration ordering rule.
type IllustrationsRuleConfig struct {
	Envs        []string `yaml:"envs"`
	RefCommands []string `yaml:"ref_commands"`
}

// AbbrevRuleConfig configures the abbreviation rule.
type AbbrevRuleConfig struct {
	BannedWords    []string `yaml:"banned_words"`
	BannedPatterns []string `yaml:"banned_patterns"`
	AllowWords     []string `yaml:"allow_words"`
	SkipCommands   []string `yaml:"skip_commands"`
	TwoArgCommands []string `yaml:"two_arg_commands"`
}

// UnicodeRuleConfig configures the non-keyboard character rule.
type UnicodeRuleConfig struct {
	AllowedExtra []string `yaml:"allowed_extra"`
}

// ListItemsRuleConfig configures list item punctuation and case rules.
type ListItemsRuleConfig struct {
	SkipCommands    []string `yaml:"skip_commands"`
	TwoArgCommands  []string `yaml:"two_arg_commands"`
	SentenceEndings []string `yaml:"sentence_endings"`
	LastEnd         string   `yaml:"last_end"`
	NonLastEnd      string   `yaml:"non_last_end"`
}

// SpellcheckConfig configures dictionaries and scan exclusions.
type SpellcheckConfig struct {
	CustomDict              string   `yaml:"custom_dict"`
	ExtraRuDicts            []string `yaml:"extra_ru_dicts"`
	ExtraEnDicts            []string `yaml:"extra_en_dicts"`
	IgnoreEnvs              []string `yaml:"ignore_envs"`
	SkipCommands            []string `yaml:"skip_commands"`
	KeepCommands            []string `yaml:"keep_commands"`
	MinWordLength           int      `yaml:"min_word_length"`
	IgnoreUppercaseAcronyms bool     `yaml:"ignore_uppercase_acronyms"`
}

// Validate validates the spellcheck configuration.
func (c *SpellcheckConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MinWordLength, validation.Min(0)),
	)
}

// HistoryConfig holds the SQLite run history location. An empty path
// disables history persistence.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig holds the serve-mode watcher settings.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DebounceMS, validation.Min(0)),
	)
}

// AuthConfig holds serve-mode authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with the default rule set. A config
// file overrides individual fields; list-valued fields replace the default
// list wholesale.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Document: DocumentConfig{
			Root: "main.tex",
		},
		Rules: RulesConfig{
			Images: ImagesRuleConfig{
				RequiredWidth: `0.9\textwidth`,
			},
			Refs: RefsRuleConfig{
				Commands: []string{"ref", "eqref", "autoref", "pageref", "cref", "Cref"},
			},
			Links: LinksRuleConfig{
				Commands: []string{
					"ref", "eqref", "autoref", "pageref", "cref", "Cref",
					"cite", "citep", "citet", "citealp", "citeauthor", "citeyear", "citeyearpar",
					"url", "href", "hyperref",
				},
			},
			Styles: StylesRuleConfig{
				Commands: []string{"underline", "uline", "ul", "textit", "textsl", "emph", "em", "itshape", "it"},
			},
			Lists: ListsRuleConfig{
				AllowedEnvs:           []string{"itemize", "enumerate"},
				ListEnvs:              []string{"itemize", "enumerate", "description", "list"},
				DisallowBeginOptional: true,
				DisallowItemOptional:  true,
			},
			Captions: CaptionsRuleConfig{
				Commands:       []string{"caption", "captionof"},
				ForbidTrailing: []string{".", ",", ";", ":", "!", "?"},
			},
			Illustrations: IllustrationsRuleConfig{
				Envs:        []string{"figure", "table", "figure*", "table*"},
				RefCommands: []string{"ref", "autoref", "cref", "Cref", "pageref", "eqref"},
			},
			Abbrev: AbbrevRuleConfig{
				BannedWords: []string{"см", "рис", "табл", "стр", "гл", "разд", "прил"},
				BannedPatterns: []string{
					`(?:^|[^\p{L}])(т\.\s*д\.)`,
					`(?:^|[^\p{L}])(т\.\s*п\.)`,
					`(?:^|[^\p{L}])(и\s+т\.\s*д\.)`,
					`(?:^|[^\p{L}])(и\s+т\.\s*п\.)`,
					`(?:^|[^\p{L}])(т\.\s*е\.)`,
					`(?:^|[^\p{L}])(т\.\s*к\.)`,
					`(?:^|[^\p{L}])(т\.\s*о\.)`,
					`(?:^|[^\p{L}])(и\s+др\.)`,
				},
				SkipCommands:   defaultSkipCommands,
				TwoArgCommands: defaultTwoArgCommands,
			},
			Unicode: UnicodeRuleConfig{
				AllowedExtra: []string{"№", "«", "»"},
			},
			ListItems: ListItemsRuleConfig{
				SkipCommands:    defaultSkipCommands,
				TwoArgCommands:  defaultTwoArgCommands,
				SentenceEndings: []string{".", "!", "?"},
				LastEnd:         ".",
				NonLastEnd:      ";",
			},
		},
		Spellcheck: SpellcheckConfig{
			CustomDict:   "dictionaries/custom.txt",
			ExtraRuDicts: []string{"dictionaries/ru.txt"},
			IgnoreEnvs: []string{
				"lstlisting", "verbatim", "verbatim*", "minted", "tikzpicture",
				"equation", "equation*", "align", "align*",
				"gather", "gather*", "multline", "multline*",
			},
			SkipCommands:            defaultSkipCommands,
			KeepCommands:            []string{"textbf", "textrm", "textsf", "texttt", "textsc"},
			MinWordLength:           2,
			IgnoreUppercaseAcronyms: true,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
