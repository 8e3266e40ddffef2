package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinPrompts_AllVariantsPresent(t *testing.T) {
	pack, err := LoadBuiltinPrompts()
	require.NoError(t, err)

	for _, variant := range []PromptVariant{
		PromptStandardInterviewer,
		PromptPEIInterviewerLed,
		PromptPEICandidateLed,
		PromptCandidate,
	} {
		_, err := pack.Resolve(variant, PromptParams{})
		assert.NoError(t, err, "variant %s", variant)
	}
}

func TestTemplatePack_ResolveFillsParams(t *testing.T) {
	pack, err := LoadBuiltinPrompts()
	require.NoError(t, err)

	msgs, err := pack.Resolve(PromptStandardInterviewer, PromptParams{
		CandidateName:    "Yvo",
		ProblemStatement: "Why are margins falling?",
	})
	require.NoError(t, err)
	require.NotEmpty(t, msgs)

	joined := new(strings.Builder)
	for _, m := range msgs {
		assert.Equal(t, RoleSystem, m.Role, "seed messages are system-role")
		joined.WriteString(m.Content)
		joined.WriteString("\n")
	}
	assert.Contains(t, joined.String(), "Yvo")
	assert.Contains(t, joined.String(), "Why are margins falling?")
}

func TestTemplatePack_PEIVariantsUseFirmAndStructure(t *testing.T) {
	pack, err := LoadBuiltinPrompts()
	require.NoError(t, err)

	for _, variant := range []PromptVariant{PromptPEIInterviewerLed, PromptPEICandidateLed} {
		msgs, err := pack.Resolve(variant, PromptParams{
			CandidateName: "Yvo",
			FirmName:      "bcg",
			PEIStructure:  `{"focusAreas":["leadership"]}`,
		})
		require.NoError(t, err, "variant %s", variant)

		var all strings.Builder
		for _, m := range msgs {
			all.WriteString(m.Content)
		}
		assert.Contains(t, all.String(), "bcg", "variant %s", variant)
		assert.Contains(t, all.String(), "leadership", "variant %s", variant)
	}
}

func TestTemplatePack_UnknownVariant(t *testing.T) {
	pack, err := LoadBuiltinPrompts()
	require.NoError(t, err)

	_, err = pack.Resolve("panel_interview", PromptParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt variant")
}

func TestLoadPromptDir_Override(t *testing.T) {
	dir := t.TempDir()
	content := `messages:
  - role: system
    content: "Custom interviewer for {{ .CandidateName }}"
`
	writePromptFile(t, dir, "standard_interviewer.yaml", content)

	pack, err := LoadPromptDir(dir)
	require.NoError(t, err)

	msgs, err := pack.Resolve(PromptStandardInterviewer, PromptParams{CandidateName: "Ada"})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Custom interviewer for Ada", msgs[0].Content)
}
