package config

// Default returns the configuration defaults. Values that identify remote
// systems have no sensible default and must come from the config file.
func Default() Config {
	return Config{
		Input: Input{
			Dir:          "data/input",
			StagingDir:   "data/staging",
			ManifestPath: "data/index_manifest.csv",
		},
		Azure: Azure{
			APIVersion: "2024-07-01-preview",
		},
		GitLab: GitLab{
			Branch:        "main",
			BatchSize:     100,
			CommitMessage: "chore: update index files",
		},
		Jenkins: Jenkins{
			QueueTimeoutSeconds: 300,
			BuildTimeoutSeconds: 1800,
			PollIntervalSeconds: 2,
		},
		Enrich: Enrich{
			Workers:               4,
			EmbedMaxAttempts:      3,
			EmbedBackoffSeconds:   2,
			KeywordMaxAttempts:    60,
			KeywordBackoffSeconds: 1,
		},
		Release: Release{
			Timezone:   "Local",
			TagMessage: "auto tag",
		},
		Runs: Runs{
			Dir: "data/runs",
		},
	}
}
