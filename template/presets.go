package template

// Preset names a built-in template, grounded on formatter.rs's
// TemplatePreset.
type Preset int

const (
	// PresetSimpleProgress renders e.g. "[=====     ] 50% (5/10)".
	PresetSimpleProgress Preset = iota
	// PresetTaskStatus renders e.g. "Running task: <message>".
	PresetTaskStatus
	// PresetJobProgress renders e.g. "Completed 5/10 jobs (50%)".
	PresetJobProgress
	// PresetDownloadProgress renders e.g.
	// "Downloading file.txt [=====     ] 10 MB / 20 MB (50%)".
	PresetDownloadProgress
)

// TemplateString returns the raw template text for a preset.
func (p Preset) TemplateString() string {
	switch p {
	case PresetSimpleProgress:
		return "{progress:bar:10} {progress:percent} ({completed}/{total})"
	case PresetTaskStatus:
		return "Running task: {message}"
	case PresetJobProgress:
		return "Completed {completed}/{total} jobs ({progress:percent})"
	case PresetDownloadProgress:
		return "Downloading {filename} {progress:bar:10} {bytes_done} / {bytes_total} ({progress:percent})"
	default:
		return ""
	}
}

// CreateTemplate builds a Template from the preset's template string.
func (p Preset) CreateTemplate() *Template { return New(p.TemplateString()) }
