package config

const (
	defaultCatalogDir        = "catalog"
	defaultInputsDir         = "inputs"
	defaultJournalDir        = "~/.local/share/tabbycat/journal"
	defaultLogDir            = "~/.local/share/tabbycat/logs"
	defaultDataladBinary     = "datalad"
	defaultGitBinary         = "git"
	defaultCommandTimeout    = 300
	defaultSuperdsConfig     = "superds-config.json"
	defaultSubdsConfig       = "subds-config.json"
	defaultSubdsConfigHidden = "subds-config-hide-access-request.json"
	defaultConvention        = "tby-abcdjv0"
	defaultSelfDir           = ".datalad/tabby/self"
	defaultIDFormat          = "abcd-j.{name}"
	defaultOLSBaseURL        = "http://www.ebi.ac.uk/ols4/api/ontologies"
	defaultOLSIRIPrefix      = "http://purl.obolibrary.org/obo/"
	defaultOLSTimeout        = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
			InputsDir:  defaultInputsDir,
			JournalDir: defaultJournalDir,
			LogDir:     defaultLogDir,
		},
		Datalad: Datalad{
			Binary:            defaultDataladBinary,
			GitBinary:         defaultGitBinary,
			CommandTimeout:    defaultCommandTimeout,
			SuperdsConfig:     defaultSuperdsConfig,
			SubdsConfig:       defaultSubdsConfig,
			SubdsConfigHidden: defaultSubdsConfigHidden,
		},
		Tabby: Tabby{
			Convention: defaultConvention,
			SelfDir:    defaultSelfDir,
			IDFormat:   defaultIDFormat,
		},
		OLS: OLS{
			Enabled:        false,
			BaseURL:        defaultOLSBaseURL,
			IRIPrefix:      defaultOLSIRIPrefix,
			RequestTimeout: defaultOLSTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
