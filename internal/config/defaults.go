package config

const (
	defaultSoundList   = "sound_list.csv"
	defaultOutputDir   = "output"
	defaultArchiveDir  = "output_archive"
	defaultReleasePath = "voice_pack.tar.gz"
	defaultReadmePath  = "README.md"

	defaultGeneratorURL      = "https://glados.c-net.org/generate"
	defaultRequestTimeout    = 60
	defaultMaxRetries        = 30
	defaultBaseBackoff       = 1.0
	defaultBackoffMultiplier = 2.0
	defaultMaxBackoff        = 30.0

	defaultEncoderBinary = "ffmpeg"
	defaultGainDB        = 8.0
	defaultPeakLimit     = 0.95
	defaultQuality       = 5

	defaultWorkers = 3

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SoundList:   defaultSoundList,
			OutputDir:   defaultOutputDir,
			ArchiveDir:  defaultArchiveDir,
			ReleasePath: defaultReleasePath,
			ReadmePath:  defaultReadmePath,
		},
		Generator: Generator{
			URL:               defaultGeneratorURL,
			RequestTimeout:    defaultRequestTimeout,
			MaxRetries:        defaultMaxRetries,
			BaseBackoff:       defaultBaseBackoff,
			BackoffMultiplier: defaultBackoffMultiplier,
			MaxBackoff:        defaultMaxBackoff,
		},
		Encoder: Encoder{
			Binary:    defaultEncoderBinary,
			GainDB:    defaultGainDB,
			PeakLimit: defaultPeakLimit,
			Quality:   defaultQuality,
		},
		Workflow: Workflow{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
