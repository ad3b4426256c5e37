package field

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/babybear"
	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/koalabear"
)

var (
	// Goldilocks2 is the quadratic extension of the Goldilocks field
	// p = 2^64 - 2^32 + 1.
	Goldilocks2 = NewParams("Goldilocks²", goldilocks.Modulus(), 2, 32)

	// Goldilocks3 is the cubic extension of the Goldilocks field.
	Goldilocks3 = NewParams("Goldilocks³", goldilocks.Modulus(), 3, 32)

	// BabyBear4 is the quartic extension of the BabyBear field
	// p = 2^31 - 2^27 + 1.
	BabyBear4 = NewParams("BabyBear⁴", babybear.Modulus(), 4, 27)

	// BabyBear5 is the quintic extension of the BabyBear field.
	BabyBear5 = NewParams("BabyBear⁵", babybear.Modulus(), 5, 27)

	// KoalaBear4 is the quartic extension of the KoalaBear field
	// p = 2^31 - 2^24 + 1.
	KoalaBear4 = NewParams("KoalaBear⁴", koalabear.Modulus(), 4, 24)
)

// presets maps field keys, as used in TOML configs, to their Params.
var presets = map[string]Params{
	"Goldilocks^2": Goldilocks2,
	"Goldilocks^3": Goldilocks3,
	"BabyBear^4":   BabyBear4,
	"BabyBear^5":   BabyBear5,
	"KoalaBear^4":  KoalaBear4,
}

// Parse returns the preset Params for a field key such as "Goldilocks^2".
func Parse(key string) (Params, error) {
	params, ok := presets[key]
	if !ok {
		return Params{}, fmt.Errorf("field: unknown field %q", key)
	}
	return params, nil
}
