package config

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config holds runtime configuration for the labeling tool.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Input and output locations
	FramesDir   string `json:"frames_dir"`
	OutputDir   string `json:"output_dir"`
	ProjectFile string `json:"project_file"`
	CSVFile     string `json:"csv_file"`
	VideoID     string `json:"video_id"`

	// Labels offered in the toolbar and their fixed base colors
	LabelOptions []string          `json:"label_options"`
	LabelColors  map[string][3]int `json:"label_colors"`

	// Interaction
	HitTolerance    int `json:"hit_tolerance"`
	CornerTolerance int `json:"corner_tolerance"`
	MinBoxSize      int `json:"min_box_size"`
	BlinkIntervalMs int `json:"blink_interval_ms"`

	// Assisted labeling
	DetectionsFile      string  `json:"detections_file"`
	DetectorThreshold   float64 `json:"detector_threshold"`
	AutoDetect          bool    `json:"auto_detect"`
	TrackerMaxAge       int     `json:"tracker_max_age"`
	TrackerMinHits      int     `json:"tracker_min_hits"`
	TrackerIoUThreshold float64 `json:"tracker_iou_threshold"`

	// Box propagation from the previous frame, used when no detections file is set
	TemplateSearchPx  int     `json:"template_search_px"`
	TemplateThreshold float64 `json:"template_threshold"`

	FrameCacheSize int `json:"frame_cache_size"`
	WindowWidth    int `json:"window_width"`
	WindowHeight   int `json:"window_height"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		FramesDir:    filepath.Join("data", "input"),
		OutputDir:    filepath.Join("data", "output"),
		ProjectFile:  "boundings.json",
		CSVFile:      "manual_labels.csv",
		VideoID:      "video",
		LabelOptions: []string{"person", "car", "truck", "bus", "motorbike"},
		LabelColors: map[string][3]int{
			"person": {0, 200, 0},
			"car":    {0, 0, 255},
			"truck":  {200, 0, 0},
			"bus":    {255, 165, 0},
		},
		HitTolerance:        5,
		CornerTolerance:     5,
		MinBoxSize:          5,
		BlinkIntervalMs:     100,
		DetectionsFile:      "",
		DetectorThreshold:   0.5,
		AutoDetect:          false,
		TrackerMaxAge:       30,
		TrackerMinHits:      3,
		TrackerIoUThreshold: 0.3,
		TemplateSearchPx:    24,
		TemplateThreshold:   0.8,
		FrameCacheSize:      32,
		WindowWidth:         1280,
		WindowHeight:        800,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("frame-labeler", "config.json"))
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.ProjectFile == "" {
		c.ProjectFile = def.ProjectFile
	}
	if c.CSVFile == "" {
		c.CSVFile = def.CSVFile
	}
	if c.VideoID == "" {
		c.VideoID = def.VideoID
	}
	if len(c.LabelOptions) == 0 {
		c.LabelOptions = def.LabelOptions
	}
	if c.LabelColors == nil {
		c.LabelColors = map[string][3]int{}
	}
	if c.HitTolerance <= 0 {
		c.HitTolerance = 5
	}
	if c.CornerTolerance <= 0 {
		c.CornerTolerance = 5
	}
	if c.MinBoxSize <= 0 {
		c.MinBoxSize = 5
	}
	if c.BlinkIntervalMs < 20 {
		c.BlinkIntervalMs = 100
	}
	if c.DetectorThreshold < 0 || c.DetectorThreshold > 1 {
		c.DetectorThreshold = 0.5
	}
	if c.TrackerMaxAge <= 0 {
		c.TrackerMaxAge = 30
	}
	if c.TrackerMinHits <= 0 {
		c.TrackerMinHits = 3
	}
	if c.TrackerIoUThreshold <= 0 || c.TrackerIoUThreshold > 1 {
		c.TrackerIoUThreshold = 0.3
	}
	if c.TemplateSearchPx <= 0 {
		c.TemplateSearchPx = 24
	}
	if c.TemplateThreshold <= 0 || c.TemplateThreshold > 1 {
		c.TemplateThreshold = 0.8
	}
	if c.FrameCacheSize <= 0 {
		c.FrameCacheSize = 32
	}
	if c.WindowWidth < 320 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight < 240 {
		c.WindowHeight = 800
	}
	return nil
}

// ProjectPath is the project file joined onto the output dir unless absolute.
func (c *Config) ProjectPath() string { return c.outputPath(c.ProjectFile) }

// CSVPath is the CSV export joined onto the output dir unless absolute.
func (c *Config) CSVPath() string { return c.outputPath(c.CSVFile) }

func (c *Config) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

// Palette converts LabelColors to opaque colors.
func (c *Config) Palette() map[string]color.RGBA {
	out := make(map[string]color.RGBA, len(c.LabelColors))
	for label, v := range c.LabelColors {
		out[label] = color.RGBA{R: clamp(v[0]), G: clamp(v[1]), B: clamp(v[2]), A: 255}
	}
	return out
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
