package window

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Event is a scripted window event fired when the frame counter reaches Frame.
type Event struct {
	Frame  uint64 `yaml:"frame"`
	Width  *int   `yaml:"width,omitempty"`
	Height *int   `yaml:"height,omitempty"`
	Close  bool   `yaml:"close,omitempty"`
}

// IsResize reports whether the event changes the framebuffer size.
func (e Event) IsResize() bool {
	return e.Width != nil || e.Height != nil
}

type Script struct {
	Events []Event `yaml:"events"`
}

// LoadScript reads a YAML event script:
//
//	events:
//	  - frame: 120
//	    width: 0
//	    height: 0
//	  - frame: 240
//	    close: true
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read window script: %w", err)
	}

	return ParseScript(data)
}

func ParseScript(data []byte) (Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("parse window script: %w", err)
	}

	for i, event := range script.Events {
		if event.Width != nil && *event.Width < 0 {
			return Script{}, fmt.Errorf("event %d: negative width %d", i, *event.Width)
		}
		if event.Height != nil && *event.Height < 0 {
			return Script{}, fmt.Errorf("event %d: negative height %d", i, *event.Height)
		}
		if !event.IsResize() && !event.Close {
			return Script{}, fmt.Errorf("event %d at frame %d does nothing", i, event.Frame)
		}
	}

	sort.SliceStable(script.Events, func(i, j int) bool {
		return script.Events[i].Frame < script.Events[j].Frame
	})

	return script, nil
}

// Resize builds a resize event.
func Resize(frame uint64, width, height int) Event {
	return Event{Frame: frame, Width: lo.ToPtr(width), Height: lo.ToPtr(height)}
}

// CloseAt builds a close event.
func CloseAt(frame uint64) Event {
	return Event{Frame: frame, Close: true}
}
