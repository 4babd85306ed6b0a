package deps

// EncoderRequirement describes the audio encoder binary. It is optional:
// without it the pipeline still fetches raw audio but cannot produce
// compressed artifacts.
func EncoderRequirement(binary string) Requirement {
	if binary == "" {
		binary = "ffmpeg"
	}
	return Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Converts raw audio into compressed artifacts",
		Optional:    true,
	}
}

// CheckEncoder reports the availability of the configured encoder binary.
func CheckEncoder(binary string) Status {
	results := CheckBinaries([]Requirement{EncoderRequirement(binary)})
	return results[0]
}
