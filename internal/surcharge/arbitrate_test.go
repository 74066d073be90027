package surcharge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func res(kind RuleKind, base, pss string) *Result {
	return &Result{Kind: kind, Base: d(base), PSS: d(pss)}
}

func TestArbitrateOneSided(t *testing.T) {
	h := res(KindHandling, "24.00", "0")
	o := res(KindOversizeCommercial, "150.00", "0")

	gotH, gotO := Arbitrate(h, nil)
	assert.Same(t, h, gotH)
	assert.Nil(t, gotO)

	gotH, gotO = Arbitrate(nil, o)
	assert.Nil(t, gotH)
	assert.Same(t, o, gotO)

	gotH, gotO = Arbitrate(nil, nil)
	assert.Nil(t, gotH)
	assert.Nil(t, gotO)
}

func TestArbitrateOversizeWins(t *testing.T) {
	h := res(KindHandling, "24.00", "0")
	o := res(KindOversizeCommercial, "150.00", "0")
	gotH, gotO := Arbitrate(h, o)
	assert.Nil(t, gotH)
	assert.Same(t, o, gotO)
}

func TestArbitrateHandlingWins(t *testing.T) {
	h := res(KindHandling, "200.00", "0")
	o := res(KindOversizeResidential, "150.00", "0")
	gotH, gotO := Arbitrate(h, o)
	assert.Same(t, h, gotH)
	assert.Nil(t, gotO)
}

func TestArbitrateTieGoesToOversize(t *testing.T) {
	h := res(KindHandling, "150.00", "0")
	o := res(KindOversizeCommercial, "150.00", "0")
	gotH, gotO := Arbitrate(h, o)
	assert.Nil(t, gotH)
	assert.Same(t, o, gotO)
}

func TestArbitrateComparesTotalsIncludingPSS(t *testing.T) {
	// Handling base is lower but its peak-season amount tips the total over.
	h := res(KindHandling, "145.00", "10.00")
	o := res(KindOversizeCommercial, "150.00", "0")
	gotH, gotO := Arbitrate(h, o)
	assert.Same(t, h, gotH)
	assert.Nil(t, gotO)
}
