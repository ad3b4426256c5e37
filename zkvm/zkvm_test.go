package zkvm_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/soundcalc/zkvm"
)

func TestSecurityLevelsMarshalJSON(t *testing.T) {
	bestAttack := 99
	levels := zkvm.SecurityLevels{
		Regimes: map[string]zkvm.Levels{
			"UDR": {"batching": 40, "total": 40},
			"JBR": {"batching": 90, "total": 90},
		},
		BestAttack: &bestAttack,
	}

	data, err := json.Marshal(levels)
	assert.NoError(t, err)

	var flat map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(data, &flat))
	assert.Contains(t, flat, "UDR")
	assert.Contains(t, flat, "JBR")
	assert.JSONEq(t, "99", string(flat["best attack"]))

	// Without a best attack level, the key is absent entirely.
	levels.BestAttack = nil
	data, err = json.Marshal(levels)
	assert.NoError(t, err)
	flat = nil
	assert.NoError(t, json.Unmarshal(data, &flat))
	assert.NotContains(t, flat, "best attack")
}

func TestVM(t *testing.T) {
	vm := zkvm.NewVM("empty")
	assert.Equal(t, "empty", vm.Name())
	assert.Empty(t, vm.Circuits())

	vm = zkvm.ZiskVM()
	names := make([]string, 0, len(vm.Circuits()))
	for _, ckt := range vm.Circuits() {
		names = append(names, ckt.Name())
	}
	assert.Equal(t, "Main", names[0])
	assert.Equal(t, "Final", names[len(names)-1])
}
