package gate

import (
	"net/url"
	"testing"
)

func envMap(values map[string]string) Lookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestEnabledDefaultsToTrue(t *testing.T) {
	t.Parallel()

	g := Gate{Lookup: envMap(nil)}
	if !g.Enabled(nil) {
		t.Fatal("Enabled() = false, want true")
	}
	if !g.Enabled(url.Values{}) {
		t.Fatal("Enabled(empty) = false, want true")
	}
}

func TestEnabledQueryOverridesEnvironment(t *testing.T) {
	t.Parallel()

	g := Gate{Lookup: envMap(map[string]string{"SEEDSHIFT_ENABLE_DYNAMIC": "true"})}
	if g.Enabled(url.Values{QueryParam: {"false"}}) {
		t.Fatal("Enabled(enable_dynamic=false) = true, want false")
	}

	g = Gate{Lookup: envMap(map[string]string{"SEEDSHIFT_ENABLE_DYNAMIC": "off"})}
	if !g.Enabled(url.Values{QueryParam: {"v1"}}) {
		t.Fatal("Enabled(enable_dynamic=v1) = false, want true")
	}
}

func TestEnabledUnknownQueryTokenFallsThrough(t *testing.T) {
	t.Parallel()

	g := Gate{Lookup: envMap(map[string]string{"ENABLE_DYNAMIC_V1": "no"})}
	if g.Enabled(url.Values{QueryParam: {"maybe"}}) {
		t.Fatal("Enabled() = true, want env value false")
	}
}

func TestEnabledChecksEnvKeysInOrder(t *testing.T) {
	t.Parallel()

	g := Gate{Lookup: envMap(map[string]string{
		"SEEDSHIFT_ENABLE_DYNAMIC_V1": "0",
		"ENABLE_DYNAMIC_V1":           "1",
	})}
	if g.Enabled(nil) {
		t.Fatal("Enabled() = true, want first present key (false)")
	}

	g = Gate{Lookup: envMap(map[string]string{
		"SEEDSHIFT_ENABLE_DYNAMIC":    "garbage",
		"SEEDSHIFT_ENABLE_DYNAMIC_V1": "",
		"ENABLE_DYNAMIC_V1":           "off",
	})}
	if g.Enabled(nil) {
		t.Fatal("Enabled() = true, want unrecognised values skipped")
	}
}

func TestEnabledCustomKeysAndDefault(t *testing.T) {
	t.Parallel()

	g := Gate{Lookup: envMap(map[string]string{"APP_DYNAMIC": "YES"}), EnvKeys: []string{"APP_DYNAMIC"}}
	if !g.Enabled(nil) {
		t.Fatal("Enabled() = false, want true from custom key")
	}
	g = Gate{Lookup: envMap(nil), Disabled: true}
	if g.Enabled(nil) {
		t.Fatal("Enabled() = true, want disabled default")
	}
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{raw: "true", want: true, wantOK: true},
		{raw: " TRUE ", want: true, wantOK: true},
		{raw: "1", want: true, wantOK: true},
		{raw: "yes", want: true, wantOK: true},
		{raw: "On", want: true, wantOK: true},
		{raw: "V1", want: true, wantOK: true},
		{raw: "false", want: false, wantOK: true},
		{raw: "0", want: false, wantOK: true},
		{raw: "no", want: false, wantOK: true},
		{raw: "OFF", want: false, wantOK: true},
		{raw: "", want: false, wantOK: false},
		{raw: "v2", want: false, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseToken(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseToken(%q) = (%t, %t), want (%t, %t)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
