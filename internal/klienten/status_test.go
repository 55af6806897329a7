package klienten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "domusvita/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range AllStatuses {
		parsed, err := ParseStatus(string(valid))
		require.NoError(t, err)
		assert.Equal(t, valid, parsed)
	}

	_, err := ParseStatus("wartet")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCanTransition(t *testing.T) {
	t.Run("pipeline states move freely", func(t *testing.T) {
		assert.NoError(t, CanTransition(StatusNeu, StatusZusage))
		assert.NoError(t, CanTransition(StatusZusage, StatusNeu))
		assert.NoError(t, CanTransition(StatusEinzugGeplant, StatusBewohner))
		assert.NoError(t, CanTransition(StatusErstgespraech, StatusAbgesagt))
	})

	t.Run("same status is always a valid edge", func(t *testing.T) {
		assert.NoError(t, CanTransition(StatusNeu, StatusNeu))
		assert.NoError(t, CanTransition(StatusVerstorben, StatusVerstorben))
	})

	t.Run("terminal states are sealed", func(t *testing.T) {
		for _, terminal := range []Status{StatusAbgesagt, StatusAusgezogen, StatusVerstorben} {
			err := CanTransition(terminal, StatusNeu)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState), "from %s", terminal)
		}
	})

	t.Run("ausgezogen and verstorben require bewohner", func(t *testing.T) {
		err := CanTransition(StatusNeu, StatusAusgezogen)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		err = CanTransition(StatusZusage, StatusVerstorben)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		assert.NoError(t, CanTransition(StatusBewohner, StatusAusgezogen))
		assert.NoError(t, CanTransition(StatusBewohner, StatusVerstorben))
	})

	t.Run("bewohner cannot fall back into the pipeline", func(t *testing.T) {
		err := CanTransition(StatusBewohner, StatusNeu)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		assert.NoError(t, CanTransition(StatusBewohner, StatusAbgesagt))
	})
}
