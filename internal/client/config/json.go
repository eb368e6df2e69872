package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/realestate/internal/flagx"
	"github.com/dmitrijs2005/realestate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so the file can say "30d" or "2m".
type JsonConfig struct {
	ServerURL       *string         `json:"server_url"`
	StateDir        *string         `json:"state_dir"`
	SessionValidity *timex.Duration `json:"session_validity"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	UploadTimeout   *timex.Duration `json:"upload_timeout"`
	OAuthTimeout    *timex.Duration `json:"oauth_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config (or $CONFIG).
// Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.StateDir != nil {
		cfg.StateDir = *jc.StateDir
	}
	setDuration(&cfg.SessionValidity, jc.SessionValidity)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.UploadTimeout, jc.UploadTimeout)
	setDuration(&cfg.OAuthTimeout, jc.OAuthTimeout)
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
