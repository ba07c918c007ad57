package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
)

func TestNormalizeCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two line closure", "CIERRE\n20304050", "cali 20304050"},
		{"three line name first", "CIERRE\nGARCIA JUAN\n20-30405060-5", "cali 20304050605 GARCIA JUAN"},
		{"three line document first", "CIERRE\n20304050\nGARCIA JUAN", "cali 20304050 GARCIA JUAN"},
		{"two documents keeps the first", "CIERRE\n20304050\n30405060", "cali 20304050"},
		{"inline document only", "CIERRE 20304050", "cali 20304050"},
		{"inline name then document", "CIERRE GARCIA JUAN 20304050", "cali 20304050 GARCIA JUAN"},
		{"inline document then name", "cierre 20304050 garcia juan", "cali 20304050 garcia juan"},
		{"mono three line", "CIERRE MONO\nGARCIA JUAN\n20304050", "calimono 20304050 GARCIA JUAN"},
		{"mono marker order free", "MONO CIERRE\n20304050", "calimono 20304050"},
		{"mono inline", "CIERRE MONO 20304050 GARCIA", "calimono 20304050 GARCIA"},
		{"decorated lines", "*CIERRE*\n- 20304050 -", "cali 20304050"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, KindCommand, res.Kind)
			assert.Equal(t, tc.want, res.Command)
		})
	}
}

func TestNormalizeHelp(t *testing.T) {
	res, err := Normalize("CIERRE")
	require.NoError(t, err)
	assert.Equal(t, KindHelp, res.Kind)
	assert.NotEmpty(t, res.Help)
}

func TestNormalizePassthrough(t *testing.T) {
	for _, input := range []string{
		"cali 20304050 GARCIA JUAN", // canonical form is stable
		"hola, necesito ayuda",
		"CIERRE MONO\nGARCIA\nJUAN\n20304050", // long mono blocks untouched
	} {
		res, err := Normalize(input)
		require.NoError(t, err)
		assert.Equal(t, KindPassthrough, res.Kind, input)
		assert.Equal(t, input, res.Command)
	}
}

func TestNormalizeErrors(t *testing.T) {
	for _, input := range []string{
		"CIERRE\nGARCIA",                // second line is not a document
		"CIERRE\nGARCIA\nJUAN",          // no document in block
		"CIERRE MONO",                   // mono without arguments
		"CIERRE MONO\n123",              // wrong digit count
		"CIERRE GARCIA JUAN",            // inline without document
		"CIERRE MONO GARCIA JUAN PEREZ", // mono inline without document
	} {
		_, err := Normalize(input)
		require.Error(t, err, input)
		assert.Equal(t, domainerrors.CodeBadRequest, domainerrors.CodeOf(err))
	}
}
