package settings

import (
	"testing"

	"github.com/spf13/viper"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

func TestDefault(t *testing.T) {
	s := Default()
	if !s.ApplyMavenExclusions || !s.OverriddenByDependencies {
		t.Error("both switches should default to true")
	}
	if !s.PomCustomization.Enabled || s.PomCustomization.IncludeImportedBoms != IncludeImporting {
		t.Errorf("PomCustomization = %+v", s.PomCustomization)
	}
}

func TestParseIncludeImportedBomAction(t *testing.T) {
	tests := []struct {
		in      string
		want    IncludeImportedBomAction
		wantErr bool
	}{
		{"NONE", IncludeNone, false},
		{"importing", IncludeImporting, false},
		{" Copying ", IncludeCopying, false},
		{"merging", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIncludeImportedBomAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
				t.Errorf("expected VALIDATION, got %v", dmerrors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromViper(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		s, err := FromViper(v)
		if err != nil {
			t.Fatal(err)
		}
		if s != Default() {
			t.Errorf("FromViper() = %+v, want defaults", s)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyApplyMavenExclusions, false)
		v.Set(KeyPomIncludeImportedBoms, "copying")
		s, err := FromViper(v)
		if err != nil {
			t.Fatal(err)
		}
		if s.ApplyMavenExclusions {
			t.Error("ApplyMavenExclusions should be false")
		}
		if !s.OverriddenByDependencies {
			t.Error("unset keys should keep defaults")
		}
		if s.PomCustomization.IncludeImportedBoms != IncludeCopying {
			t.Errorf("IncludeImportedBoms = %s", s.PomCustomization.IncludeImportedBoms)
		}
	})

	t.Run("invalid action", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyPomIncludeImportedBoms, "bogus")
		if _, err := FromViper(v); !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
			t.Errorf("expected VALIDATION, got %v", err)
		}
	})
}
