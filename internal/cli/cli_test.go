package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = prev })
}

func TestHighlightJSON_Disabled(t *testing.T) {
	withColor(t, false)

	in := `{"model":"tinyllama:1.1b","stream":false}`
	assert.Equal(t, in, HighlightJSON(in))
}

func TestHighlightJSON_Enabled(t *testing.T) {
	withColor(t, true)

	out := HighlightJSON(`{"stream":false,"num_predict":512,"stop":null}`)

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "stream")
	assert.Contains(t, out, "512")
	assert.NotEqual(t, `{"stream":false,"num_predict":512,"stop":null}`, out)
}

func TestPrettyFormat_IndentsRawJSON(t *testing.T) {
	withColor(t, false)

	out := PrettyFormat([]byte(`{"a":1}`))
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestPrettyFormat_NonJSONString(t *testing.T) {
	withColor(t, false)

	assert.Equal(t, "plain text", PrettyFormat("plain text"))
}

func TestPrettyFormat_Struct(t *testing.T) {
	withColor(t, false)

	out := PrettyFormat(struct {
		Name string `json:"name"`
	}{Name: "relay"})
	assert.Equal(t, "{\n  \"name\": \"relay\"\n}", out)
}

func TestSpinner_SuccessWritesMark(t *testing.T) {
	withColor(t, false)

	var buf bytes.Buffer
	s := NewSpinner(&buf, "Thinking...")
	s.Success("done")

	assert.True(t, strings.HasSuffix(buf.String(), "✔ done\n"))
}
