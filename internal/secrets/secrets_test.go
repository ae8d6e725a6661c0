package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prebuild/internal/buildenv"
	"prebuild/internal/directive"
)

func load(t *testing.T, vars map[string]string) buildenv.Settings {
	t.Helper()
	vars["GOOS"] = "linux"
	s, err := buildenv.Load(buildenv.FromMap(vars), buildenv.DefaultNames(), Names()...)
	require.NoError(t, err)
	return s
}

func TestCollect_OnlyPresent(t *testing.T) {
	s := load(t, map[string]string{
		"API_SERVER":     "https://x",
		"RS_FORCE_RELAY": "Y",
		"UNRELATED":      "ignored",
	})

	got := Collect(s)

	assert.Equal(t, []Binding{
		{Name: "API_SERVER", Value: "https://x"},
		{Name: "RS_FORCE_RELAY", Value: "Y"},
	}, got)
	assert.Equal(t, []directive.Directive{
		directive.Constant("API_SERVER", "https://x"),
		directive.Constant("RS_FORCE_RELAY", "Y"),
	}, Directives(got))
}

func TestCollect_NoneSet(t *testing.T) {
	assert.Empty(t, Collect(load(t, map[string]string{})))
	assert.Empty(t, Directives(nil))
}

func TestCollect_ValuesUnmodified(t *testing.T) {
	raw := `p@ss word="quoted";\n`
	s := load(t, map[string]string{"RS_PASSWORD": raw, "RS_PUB_KEY": ""})

	got := Collect(s)

	require.Len(t, got, 2)
	assert.Equal(t, Binding{Name: "RS_PUB_KEY", Value: ""}, got[0])
	assert.Equal(t, raw, got[1].Value)
}

func TestNames_IsCopy(t *testing.T) {
	n := Names()
	n[0] = "MUTATED"
	assert.Equal(t, "RENDEZVOUS_SERVER", AllowList[0])
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("RS_PASSWORD", "abcd"))
	assert.Equal(t, "********", Mask("RS_PUB_KEY", "a-very-long-public-key"))
	assert.Equal(t, "Y", Mask("RS_FORCE_RELAY", "Y"))
	assert.Equal(t, "", Mask("API_SERVER", ""))
}
