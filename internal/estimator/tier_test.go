package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{"Tier I", TierI, false},
		{"tier ii", TierII, false},
		{"Tier III (N+1)", TierIII, false},
		{"Tier IV (2N)", TierIV, false},
		{"N (Base)", TierI, false},
		{"N+1", TierIII, false},
		{"2N", TierIV, false},
		{"4", TierIV, false},
		{"Tier V", TierIII, true},
		{"", TierIII, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTierConstants(t *testing.T) {
	assert.Equal(t, []float64{1.0, 1.2, 1.5, 2.0}, []float64{
		TierI.Complexity(), TierII.Complexity(), TierIII.Complexity(), TierIV.Complexity(),
	})
	assert.Equal(t, "2N", TierIV.Redundancy())
	assert.Equal(t, "Tier III", Tier(0).String())
	assert.Equal(t, 1.5, Tier(0).Complexity())
	assert.False(t, Tier(0).Valid())
}

func TestParseStudyKind(t *testing.T) {
	tests := map[string]StudyKind{
		"load_flow":  LoadFlow,
		"Load-Flow":  LoadFlow,
		"sc":         ShortCircuit,
		"PDC":        ProtectiveDeviceCoordination,
		"arc flash":  ArcFlash,
		"harmonics":  Harmonics,
		"transient":  Transient,
		"transients": Transient,
	}
	for input, want := range tests {
		got, err := ParseStudyKind(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseStudyKind("grounding")
	assert.Error(t, err)
}

func TestDefaultStudies(t *testing.T) {
	studies := DefaultStudies()
	assert.Len(t, studies, 6)
	assert.Equal(t, 4, IncludedCount(studies))
	assert.Equal(t, 1.5, studies[2].BaseHoursPerBus)
	assert.Equal(t, "Protective Device Coordination", studies[2].Kind.String())
}

func TestParseEnums(t *testing.T) {
	mode, err := ParseLoadMode("Total")
	assert.NoError(t, err)
	assert.Equal(t, TotalFirst, mode)

	delivery, err := ParseDeliveryType("urgent")
	assert.NoError(t, err)
	assert.Equal(t, Urgent, delivery)

	format, err := ParseReportFormat("Client-Branded Report")
	assert.NoError(t, err)
	assert.Equal(t, ClientBranded, format)
	assert.Equal(t, 2.2, format.Multiplier())

	_, err = ParseReportFormat("hologram")
	assert.Error(t, err)
}
