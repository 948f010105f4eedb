package bom

import (
	"testing"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

func TestInterpolate(t *testing.T) {
	props := map[string]string{
		"spring.version":  "6.1.2",
		"framework":       "${spring.version}",
		"nested":          "v${framework}",
		"self":            "${self}",
		"ping":            "${pong}",
		"pong":            "${ping}",
		"project.version": "3.2.0",
	}

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1.0", "1.0", true},
		{"${spring.version}", "6.1.2", true},
		{"${nested}", "v6.1.2", true},
		{"${project.version}-SNAPSHOT", "3.2.0-SNAPSHOT", true},
		{"${a}-${spring.version}", "${a}-6.1.2", false},
		{"${missing}", "${missing}", false},
		{"${self}", "${self}", false},
		{"${ping}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Interpolate(tt.in, props)
			if ok != tt.wantOK {
				t.Errorf("Interpolate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterpolateCoordinate(t *testing.T) {
	props := map[string]string{"g": "org.example", "v": "2.0"}
	c, ok := InterpolateCoordinate(coords.New("${g}", "lib", "${v}"), props)
	if !ok || c != coords.New("org.example", "lib", "2.0") {
		t.Errorf("InterpolateCoordinate() = %v, %v", c, ok)
	}
	if _, ok := InterpolateCoordinate(coords.New("g", "lib", "${nope}"), props); ok {
		t.Error("unresolved version should report !ok")
	}
}

func TestInterpolateExclusions(t *testing.T) {
	props := map[string]string{"log.group": "commons-logging"}
	got := InterpolateExclusions([]coords.Exclusion{
		{Group: "${log.group}", Name: "commons-logging"},
		{Group: "${unknown}", Name: "x"},
	}, props)
	if len(got) != 1 || got[0] != coords.NewExclusion("commons-logging", "commons-logging") {
		t.Errorf("InterpolateExclusions() = %v", got)
	}
}
